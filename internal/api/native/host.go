package native

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/bewlybewly/bewly/backend/internal/api/gateway"
	"github.com/bewlybewly/bewly/backend/internal/relay"
	"github.com/bewlybewly/bewly/backend/internal/shared/codec"
	"go.uber.org/zap"
)

// Host serves relay messages over a native-messaging stream
type Host struct {
	gateway *gateway.Gateway
	logger  *zap.Logger

	writeMu sync.Mutex
	out     io.Writer
}

// NewHost creates a host writing replies to out
func NewHost(gw *gateway.Gateway, out io.Writer, logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{
		gateway: gw,
		logger:  logger,
		out:     out,
	}
}

// Run reads frames from in until it ends or ctx is done. Starting the host
// is a connection event. In-flight requests finish before Run returns.
func (h *Host) Run(ctx context.Context, in io.Reader) error {
	h.gateway.Connect(gateway.TransportNative)
	h.logger.Info("Native messaging host started")

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		wg.Wait()
		cancel()
	}()

	frames := make(chan []byte)
	errs := make(chan error, 1)
	go func() {
		for {
			frame, err := ReadFrame(in)
			if err != nil {
				errs <- err
				return
			}
			select {
			case frames <- frame:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errs:
			if errors.Is(err, io.EOF) {
				h.logger.Info("Native messaging stream closed")
				return nil
			}
			return err
		case frame := <-frames:
			wg.Add(1)
			go func() {
				defer wg.Done()
				h.serve(ctx, frame)
			}()
		}
	}
}

func (h *Host) serve(ctx context.Context, frame []byte) {
	out, ok := h.gateway.HandleFrame(ctx, gateway.TransportNative, frame, "")
	if !ok {
		return
	}

	err := h.write(out)
	if errors.Is(err, ErrFrameTooLarge) {
		h.logger.Warn("Reply exceeds native messaging limit", zap.Int("size", len(out)))
		err = h.write(nullReply(frame))
	}
	if err != nil {
		h.logger.Error("Failed to write frame", zap.Error(err))
	}
}

func (h *Host) write(frame []byte) error {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	return WriteFrame(h.out, frame)
}

// nullReply answers the request in frame with no data
func nullReply(frame []byte) []byte {
	var requestID string
	if msg, err := relay.DecodeMessage(frame); err == nil {
		requestID = msg.RequestID
	}
	out, _ := codec.Marshal(gateway.Reply{RequestID: requestID})
	return out
}
