package listeners

import (
	"context"
	"net/url"

	"github.com/bewlybewly/bewly/backend/internal/relay"
	"go.uber.org/zap"
)

// Fetcher performs one outbound GET and returns the parsed JSON body.
type Fetcher interface {
	GetJSON(ctx context.Context, endpoint string, query url.Values, cookie string) (any, error)
}

// Param maps a message parameter onto an upstream query key.
type Param struct {
	From string
	To   string
}

// same keeps the parameter name unchanged.
func same(name string) Param { return Param{From: name, To: name} }

// as renames a message parameter for the upstream query.
func as(from, to string) Param { return Param{From: from, To: to} }

// Endpoint is one operation: a query literal bound to a fixed URL.
type Endpoint struct {
	Query  string
	URL    string
	Fixed  url.Values
	Params []Param
}

// Values builds the query string for msg: fixed values first, then every
// mapped parameter the message actually carries.
func (e Endpoint) Values(msg *relay.Message) url.Values {
	q := url.Values{}
	for k, vs := range e.Fixed {
		q[k] = append([]string(nil), vs...)
	}
	for _, p := range e.Params {
		if v, ok := msg.Param(p.From); ok {
			q.Set(p.To, v)
		}
	}
	return q
}

// Domain groups the endpoints served by one listener.
type Domain struct {
	Name      string
	Endpoints []Endpoint
}

// Lookup finds the endpoint for a query literal
func (d Domain) Lookup(query string) (Endpoint, bool) {
	for _, e := range d.Endpoints {
		if e.Query == query {
			return e, true
		}
	}
	return Endpoint{}, false
}

// Listener returns the domain's message handler. Unknown queries are not
// handled and cause no outbound call; fetch failures are logged and turned
// into Failed.
func (d Domain) Listener(f Fetcher, logger *zap.Logger) relay.Listener {
	byQuery := make(map[string]Endpoint, len(d.Endpoints))
	for _, e := range d.Endpoints {
		byQuery[e.Query] = e
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.With(zap.String("domain", d.Name))

	return func(ctx context.Context, msg *relay.Message) relay.Result {
		e, ok := byQuery[msg.Query]
		if !ok {
			return relay.NotHandled()
		}

		payload, err := f.GetJSON(ctx, e.URL, e.Values(msg), msg.Cookie)
		if err != nil {
			log.Error("Relay request failed",
				zap.String("query", msg.Query),
				zap.String("endpoint", e.URL),
				zap.Error(err),
			)
			return relay.Failed(err)
		}
		return relay.Handled(payload)
	}
}

func fixed(kv ...string) url.Values {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(kv[i], kv[i+1])
	}
	return q
}
