package native

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// MaxOutboundFrame is the largest message a host may send the browser.
	MaxOutboundFrame = 1 << 20

	// MaxInboundFrame is the largest message the browser sends a host.
	MaxInboundFrame = 64 << 20
)

// ErrFrameTooLarge is returned for frames over the size limit.
var ErrFrameTooLarge = errors.New("native: frame too large")

// ReadFrame reads one length-prefixed frame. It returns io.EOF only when the
// stream ends cleanly between frames.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("read frame header: %w", err)
		}
		return nil, err
	}

	size := binary.LittleEndian.Uint32(header[:])
	if size > MaxInboundFrame {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
	}

	frame := make([]byte, size)
	if _, err := io.ReadFull(r, frame); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}
	return frame, nil
}

// WriteFrame writes one length-prefixed frame.
func WriteFrame(w io.Writer, frame []byte) error {
	if len(frame) > MaxOutboundFrame {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(frame))
	}

	buf := make([]byte, 4+len(frame))
	binary.LittleEndian.PutUint32(buf[:4], uint32(len(frame)))
	copy(buf[4:], frame)

	_, err := w.Write(buf)
	return err
}
