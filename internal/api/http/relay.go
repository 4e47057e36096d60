package http

import (
	"errors"
	"net/http"

	"github.com/bewlybewly/bewly/backend/internal/api/gateway"
	"github.com/bewlybewly/bewly/backend/internal/relay"
	"github.com/bewlybewly/bewly/backend/internal/shared/codec"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaxMessageSize bounds an inbound relay message body.
const MaxMessageSize = 1 << 20

// Connect handles a connection event from a surface
func (h *Handlers) Connect(c *gin.Context) {
	h.gateway.Connect(gateway.TransportHTTP)
	c.JSON(http.StatusOK, h.gateway.Registry().Stats())
}

// Message relays one message. Handled replies carry the payload, failed
// ones carry null, and unhandled ones get 204 with no body.
func (h *Handlers) Message(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxMessageSize)
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "message too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read message"})
		return
	}

	msg, err := relay.DecodeMessage(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg.Cookie = surfaceCookie(c)

	data, send := h.gateway.Dispatch(c.Request.Context(), gateway.TransportHTTP, msg).Reply()
	if !send {
		c.Status(http.StatusNoContent)
		return
	}

	out, err := codec.Marshal(data)
	if err != nil {
		h.logger.Error("Failed to encode payload", zap.String("query", msg.Query), zap.Error(err))
		out = []byte("null")
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", out)
}

// Domains lists registered domains and the channel size
func (h *Handlers) Domains(c *gin.Context) {
	c.JSON(http.StatusOK, h.gateway.Registry().Stats())
}
