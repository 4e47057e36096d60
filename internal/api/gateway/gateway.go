// Package gateway is the transport-neutral edge of the relay. Every
// transport hands it decoded messages (or raw frames) and gets back what,
// if anything, to send to the surface.
package gateway

import (
	"context"

	"github.com/bewlybewly/bewly/backend/internal/infrastructure/monitoring"
	"github.com/bewlybewly/bewly/backend/internal/infrastructure/tracing"
	"github.com/bewlybewly/bewly/backend/internal/relay"
	"github.com/bewlybewly/bewly/backend/internal/shared/codec"
	"go.uber.org/zap"
)

// Transport names used in metrics and logs.
const (
	TransportHTTP   = "http"
	TransportWS     = "ws"
	TransportNATS   = "nats"
	TransportNative = "native"
)

// Reply is the frame multiplexed transports send back. Data is null for
// failed requests.
type Reply struct {
	RequestID string `json:"requestId,omitempty"`
	Data      any    `json:"data"`
}

// Gateway dispatches messages on a registry with metrics and tracing.
type Gateway struct {
	registry *relay.Registry
	metrics  *monitoring.Metrics
	tracer   *tracing.Tracer
	logger   *zap.Logger
}

// New creates a gateway. metrics and tracer may be nil.
func New(registry *relay.Registry, metrics *monitoring.Metrics, tracer *tracing.Tracer, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics != nil {
		registry.Channel().OnChange(metrics.SetChannelListeners)
		metrics.SetChannelListeners(registry.Channel().Len())
	}
	return &Gateway{
		registry: registry,
		metrics:  metrics,
		tracer:   tracer,
		logger:   logger,
	}
}

// Registry returns the underlying registry
func (g *Gateway) Registry() *relay.Registry {
	return g.registry
}

// Connect records a connection event from transport and runs the
// connection handlers.
func (g *Gateway) Connect(transport string) {
	g.registry.Connect()
	if g.metrics != nil {
		g.metrics.RecordConnection(transport)
	}
	g.logger.Debug("Surface connected", zap.String("transport", transport))
}

// Dispatch delivers msg and records the outcome.
func (g *Gateway) Dispatch(ctx context.Context, transport string, msg *relay.Message) relay.Result {
	timer := monitoring.NewTimer(g.metrics, transport)

	var span *tracing.Span
	if g.tracer != nil {
		span, ctx = g.tracer.StartSpan(ctx, "relay.dispatch")
		span.SetTag("transport", transport)
		span.SetTag("query", msg.Query)
	}

	result := g.registry.Dispatch(ctx, msg)

	if span != nil {
		span.SetTag("outcome", result.Kind().String())
		if result.Domain() != "" {
			span.SetTag("domain", result.Domain())
		}
		if result.IsFailed() {
			span.SetError(result.Err())
		}
		span.Finish()
		g.tracer.Submit(span)
	}

	timer.Stop(msg.Query, result.Kind().String())

	if result.Kind() == relay.KindNotHandled {
		g.logger.Debug("Message not handled",
			zap.String("transport", transport),
			zap.String("query", msg.Query),
		)
	}
	return result
}

// HandleFrame decodes one JSON frame, dispatches it and encodes the reply.
// It reports false when nothing should be sent: the frame was malformed or
// no listener handled it.
func (g *Gateway) HandleFrame(ctx context.Context, transport string, frame []byte, cookie string) ([]byte, bool) {
	msg, err := relay.DecodeMessage(frame)
	if err != nil {
		g.logger.Warn("Dropping malformed frame",
			zap.String("transport", transport),
			zap.Error(err),
		)
		return nil, false
	}
	if cookie != "" {
		msg.Cookie = cookie
	}

	data, send := g.Dispatch(ctx, transport, msg).Reply()
	if !send {
		return nil, false
	}

	out, err := codec.Marshal(Reply{RequestID: msg.RequestID, Data: data})
	if err != nil {
		g.logger.Error("Failed to encode reply",
			zap.String("transport", transport),
			zap.String("query", msg.Query),
			zap.Error(err),
		)
		out, _ = codec.Marshal(Reply{RequestID: msg.RequestID})
	}
	return out, true
}
