package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bewlybewly/bewly/backend/internal/api/gateway"
	"github.com/bewlybewly/bewly/backend/internal/api/middleware"
	"github.com/bewlybewly/bewly/backend/internal/infrastructure/monitoring"
	"github.com/bewlybewly/bewly/backend/internal/shared/id"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// MaxFrameSize bounds one inbound frame.
	MaxFrameSize = 1 << 20

	writeWait = 10 * time.Second
)

// Handler manages WebSocket connections
type Handler struct {
	gateway  *gateway.Gateway
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a WebSocket handler. Browser origins are checked
// against siteHost the same way CORS is; requests without an Origin header
// come from local tools and are accepted.
func NewHandler(gw *gateway.Gateway, siteHost string, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		gateway: gw,
		metrics: metrics,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || middleware.AllowedOrigin(origin, siteHost)
			},
		},
	}
}

// conn serializes writes to one socket
type conn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
}

func (c *conn) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	cookie := c.GetHeader(middleware.CookieHeader)
	if cookie == "" {
		cookie = c.GetHeader("Cookie")
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	ws.SetReadLimit(MaxFrameSize)

	connID := id.NewConnectionID()
	logger := h.logger.With(zap.String("conn", connID.String()))

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}
	h.gateway.Connect(gateway.TransportWS)
	logger.Debug("WebSocket connected")

	ctx, cancel := context.WithCancel(c.Request.Context())
	sock := &conn{ws: ws}

	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
		ws.Close()
		logger.Debug("WebSocket closed")
	}()

	for {
		kind, frame, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		wg.Add(1)
		go func(frame []byte) {
			defer wg.Done()
			out, ok := h.gateway.HandleFrame(ctx, gateway.TransportWS, frame, cookie)
			if !ok {
				return
			}
			if err := sock.write(out); err != nil {
				logger.Debug("WebSocket write failed", zap.Error(err))
			}
		}(frame)
	}
}
