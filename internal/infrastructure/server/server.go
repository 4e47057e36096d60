package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/bewlybewly/bewly/backend/internal/api/comms"
	"github.com/bewlybewly/bewly/backend/internal/api/gateway"
	apihttp "github.com/bewlybewly/bewly/backend/internal/api/http"
	"github.com/bewlybewly/bewly/backend/internal/api/middleware"
	"github.com/bewlybewly/bewly/backend/internal/api/ws"
	"github.com/bewlybewly/bewly/backend/internal/bootstrap"
	"github.com/bewlybewly/bewly/backend/internal/infrastructure/config"
	"github.com/bewlybewly/bewly/backend/internal/infrastructure/logging"
	"github.com/bewlybewly/bewly/backend/internal/infrastructure/monitoring"
	"github.com/bewlybewly/bewly/backend/internal/infrastructure/tracing"
	"github.com/bewlybewly/bewly/backend/internal/relay"
	"github.com/bewlybewly/bewly/backend/internal/relay/listeners"
	"github.com/bewlybewly/bewly/backend/internal/upstream"
)

const shutdownTimeout = 10 * time.Second

// Relay is the transport-independent core: registry, listeners and the
// upstream client behind a gateway.
type Relay struct {
	Gateway  *gateway.Gateway
	Upstream *upstream.Client
}

// NewRelay builds the registry with every domain registered. With
// RELAY_AUTO_CONNECT one connection event runs immediately.
func NewRelay(cfg *config.Config, logger *zap.Logger, metrics *monitoring.Metrics, tracer *tracing.Tracer) (*Relay, error) {
	opts := upstream.Options{
		Timeout:   cfg.Upstream.Timeout,
		UserAgent: cfg.Upstream.UserAgent,
		Override:  cfg.Upstream.Override,
		Breaker:   cfg.Upstream.BreakerEnabled,
		Logger:    logger,
	}
	if metrics != nil {
		opts.Observer = metrics
	}
	client, err := upstream.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream client: %w", err)
	}

	registry := relay.NewRegistry(logger)
	if err := listeners.SetupAll(registry, client, logger); err != nil {
		return nil, fmt.Errorf("failed to register listeners: %w", err)
	}

	gw := gateway.New(registry, metrics, tracer, logger)
	if cfg.Relay.AutoConnect {
		gw.Connect(gateway.TransportHTTP)
	}

	return &Relay{Gateway: gw, Upstream: client}, nil
}

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	relay      *Relay
	nc         *nats.Conn
	subscriber *comms.Subscriber
	tracer     *tracing.Tracer
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger := logging.NewFromLevel(cfg.Logging.Level, cfg.Logging.Development)

	logger.Info("Initializing relay server",
		zap.String("addr", cfg.Addr()),
		zap.String("site", cfg.Bootstrap.Host),
		zap.Bool("nats", cfg.NATS.Enabled),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("relay", logger.Logger)

	rl, err := NewRelay(cfg, logger.Logger, metrics, tracer)
	if err != nil {
		tracer.Close()
		return nil, err
	}
	logger.Info("Registered relay domains",
		zap.Strings("domains", rl.Gateway.Registry().Domains()),
		zap.Int("listeners", rl.Gateway.Registry().Channel().Len()),
	)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.Bootstrap.Host)))

	handlers := apihttp.NewHandlers(apihttp.Options{
		Gateway:   rl.Gateway,
		Bootstrap: bootstrap.New(cfg.Bootstrap.Host, cfg.Bootstrap.AssetBase),
		Mounter: bootstrap.ScriptMounter{
			AssetBase: cfg.Bootstrap.AssetBase,
			Script:    cfg.Bootstrap.AppScript,
		},
		Pages:   rl.Upstream,
		Metrics: metrics,
		Logger:  logger.Logger,
	})
	handlers.Register(router)

	wsHandler := ws.NewHandler(rl.Gateway, cfg.Bootstrap.Host, metrics, logger.Logger)
	router.GET("/stream", wsHandler.HandleConnection)

	// Serve the extension bundle the bootstrap links to
	if cfg.Bootstrap.AssetDir != "" {
		router.Static(cfg.Bootstrap.AssetBase, cfg.Bootstrap.AssetDir)
	}

	s := &Server{
		router: router,
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		relay:   rl,
		tracer:  tracer,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}

	if cfg.NATS.Enabled {
		s.startNATS()
	}

	logger.Info("Server initialized successfully")
	return s, nil
}

// startNATS attaches the request/reply transport. It is optional: a broker
// that cannot be reached is logged and the HTTP surfaces still start.
func (s *Server) startNATS() {
	cfg := s.config.NATS
	nc, err := comms.Connect(cfg.URL, "bewly-relay", s.logger.Logger)
	if err != nil {
		s.logger.Warn("Failed to connect to NATS", zap.String("url", cfg.URL), zap.Error(err))
		return
	}

	sub := comms.NewSubscriber(s.relay.Gateway, cfg.Subject, s.config.Upstream.Timeout, s.logger.Logger)
	if err := sub.Start(nc); err != nil {
		s.logger.Warn("Failed to subscribe on NATS", zap.String("subject", cfg.Subject), zap.Error(err))
		nc.Close()
		return
	}
	s.nc = nc
	s.subscriber = sub
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.router
}

// Relay returns the relay core
func (s *Server) Relay() *Relay {
	return s.relay
}

// Run serves HTTP until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

// Close releases the broker connection and flushes telemetry
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	if s.subscriber != nil {
		if err := s.subscriber.Stop(); err != nil {
			s.logger.Warn("Failed to drain NATS subscription", zap.Error(err))
		}
	}
	if s.nc != nil {
		s.nc.Close()
		s.logger.Info("Closed NATS connection")
	}

	s.tracer.Close()

	// Sync logger before exit
	_ = s.logger.Sync()

	return nil
}
