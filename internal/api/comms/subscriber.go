package comms

import (
	"context"
	"fmt"
	"time"

	"github.com/bewlybewly/bewly/backend/internal/api/gateway"
	"github.com/bewlybewly/bewly/backend/internal/infrastructure/tracing"
	"github.com/bewlybewly/bewly/backend/internal/relay"
	"github.com/bewlybewly/bewly/backend/internal/shared/codec"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// CookieHeader is the message header carrying the surface's cookies.
const CookieHeader = "Cookie"

// Connect opens a NATS connection with reconnect logging.
func Connect(url, name string, logger *zap.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(10*time.Second),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(60),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", url, err)
	}
	return nc, nil
}

// Subscriber answers relay requests on one subject
type Subscriber struct {
	gateway *gateway.Gateway
	subject string
	timeout time.Duration
	logger  *zap.Logger
	sub     *nats.Subscription
}

// NewSubscriber creates a subscriber. timeout bounds each dispatch; zero
// means no bound beyond the upstream client's own.
func NewSubscriber(gw *gateway.Gateway, subject string, timeout time.Duration, logger *zap.Logger) *Subscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Subscriber{
		gateway: gw,
		subject: subject,
		timeout: timeout,
		logger:  logger,
	}
}

// Start subscribes on nc. Subscribing is a connection event.
func (s *Subscriber) Start(nc *nats.Conn) error {
	sub, err := nc.Subscribe(s.subject, s.handle)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", s.subject, err)
	}
	s.sub = sub
	s.gateway.Connect(gateway.TransportNATS)

	s.logger.Info("Relay listening on NATS", zap.String("subject", s.subject))
	return nil
}

// Stop drains the subscription
func (s *Subscriber) Stop() error {
	if s.sub == nil {
		return nil
	}
	return s.sub.Drain()
}

func (s *Subscriber) handle(msg *nats.Msg) {
	// NATS delivers serially per subscription
	go s.serve(msg)
}

func (s *Subscriber) serve(msg *nats.Msg) {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := relay.DecodeMessage(msg.Data)
	if err != nil {
		s.logger.Warn("Dropping malformed request", zap.String("subject", msg.Subject), zap.Error(err))
		return
	}
	if msg.Header != nil {
		req.Cookie = msg.Header.Get(CookieHeader)
		ctx = tracing.Extract(ctx, msg.Header)
	}

	data, send := s.gateway.Dispatch(ctx, gateway.TransportNATS, req).Reply()
	if !send || msg.Reply == "" {
		return
	}

	out, err := codec.Marshal(data)
	if err != nil {
		s.logger.Error("Failed to encode reply", zap.String("query", req.Query), zap.Error(err))
		out = []byte("null")
	}
	if err := msg.Respond(out); err != nil {
		s.logger.Warn("Failed to respond", zap.String("query", req.Query), zap.Error(err))
	}
}
