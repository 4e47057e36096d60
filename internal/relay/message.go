package relay

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bewlybewly/bewly/backend/internal/shared/codec"
)

const (
	// QueryField is the discriminator naming the requested operation.
	QueryField = "contentScriptQuery"
	// RequestIDField correlates replies on multiplexed transports.
	RequestIDField = "requestId"
)

// ErrInvalidMessage is returned for frames that are not a JSON object.
var ErrInvalidMessage = errors.New("relay: message must be a JSON object")

// Message is one inbound request from a page surface.
type Message struct {
	Query     string
	RequestID string
	// Cookie is the surface's ambient Cookie header, forwarded upstream.
	Cookie string
	Params map[string]any
}

// NewMessage builds a message in code, mostly for clients and tests.
func NewMessage(query string, params map[string]any) *Message {
	if params == nil {
		params = map[string]any{}
	}
	return &Message{Query: query, Params: params}
}

// DecodeMessage parses a JSON frame. A missing or non-string discriminator
// is not an error: the message simply matches no listener.
func DecodeMessage(data []byte) (*Message, error) {
	var raw map[string]any
	if err := codec.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if raw == nil {
		return nil, ErrInvalidMessage
	}

	msg := &Message{Params: make(map[string]any, len(raw))}
	for k, v := range raw {
		switch k {
		case QueryField:
			msg.Query, _ = v.(string)
		case RequestIDField:
			msg.RequestID = scalarString(v)
		default:
			msg.Params[k] = v
		}
	}
	return msg, nil
}

// Encode renders the message back into its wire form.
func (m *Message) Encode() ([]byte, error) {
	out := make(map[string]any, len(m.Params)+2)
	for k, v := range m.Params {
		out[k] = v
	}
	out[QueryField] = m.Query
	if m.RequestID != "" {
		out[RequestIDField] = m.RequestID
	}
	return codec.Marshal(out)
}

// Param returns a parameter as an upstream query value. Lists are joined
// with ","; absent and null parameters report false.
func (m *Message) Param(name string) (string, bool) {
	v, ok := m.Params[name]
	if !ok || v == nil {
		return "", false
	}
	switch list := v.(type) {
	case []any:
		return joinList(list), true
	case []string:
		return strings.Join(list, ","), true
	case []int64:
		return joinList(list), true
	case []int:
		return joinList(list), true
	}
	return scalarString(v), true
}

func joinList[T any](list []T) string {
	parts := make([]string, 0, len(list))
	for _, item := range list {
		parts = append(parts, scalarString(item))
	}
	return strings.Join(parts, ",")
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		// json.Number
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		b, err := codec.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
