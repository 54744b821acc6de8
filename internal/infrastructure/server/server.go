package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/example/pipeline-demo/internal/api/http"
	"github.com/example/pipeline-demo/internal/api/middleware"
	"github.com/example/pipeline-demo/internal/api/ws"
	"github.com/example/pipeline-demo/internal/infrastructure/config"
	"github.com/example/pipeline-demo/internal/infrastructure/logging"
	"github.com/example/pipeline-demo/internal/infrastructure/monitoring"
	"github.com/example/pipeline-demo/internal/infrastructure/tracing"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	logger     *logging.Logger
	config     *config.Config
	echo       *ws.Handler
	legacyEcho *ws.Handler
}

// NewServer creates a new server instance. A nil logger is built from
// cfg.Logging.
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		l, err := logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			Development: cfg.Logging.Development,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build logger: %w", err)
		}
		logger = l
	}

	logger.Info("Initializing server",
		zap.String("addr", cfg.Addr()),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Bool("metrics", cfg.Metrics.Enabled),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New(logger.Component("tracer"))

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Recovery sits outside the tracer so a panic still gets its END line
	// before being turned into a 500.
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	if cfg.Metrics.Enabled {
		router.Use(monitoring.Middleware(metrics))
	}

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORS.AllowOrigins
	}
	router.Use(middleware.CORS(corsCfg))

	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	wsLogger := logger.Component("ws")
	echo := ws.NewHandler("ws",
		ws.NewEcho(ws.EchoPrefix, wsLogger.With(zap.String("endpoint", "ws"))),
		wsLogger, ws.WithMetrics(metrics))
	legacyEcho := ws.NewHandler("ws-old",
		ws.NewEcho(ws.LegacyEchoPrefix, wsLogger.With(zap.String("endpoint", "ws-old"))),
		wsLogger, ws.WithMetrics(metrics))

	handlers := apihttp.NewHandlers(logger.Component("http"),
		apihttp.WithSessionCounters(echo, legacyEcho))

	// Register routes
	handlers.Register(router)
	for _, h := range []*ws.Handler{echo, legacyEcho} {
		router.GET("/"+h.Endpoint(), h.HandleConnection)
	}
	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:    cfg.Addr(),
			Handler: router,
		},
		logger:     logger,
		config:     cfg,
		echo:       echo,
		legacyEcho: legacyEcho,
	}, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address and serves until Shutdown.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
	return ignoreClosed(s.httpServer.ListenAndServe())
}

// Serve serves on an existing listener until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info("Starting HTTP server", zap.String("addr", l.Addr().String()))
	return ignoreClosed(s.httpServer.Serve(l))
}

// Shutdown stops accepting connections and waits for in-flight requests.
// Hijacked websocket connections are not tracked by net/http and are
// left to their peers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...",
		zap.Int64("ws_sessions", s.echo.ActiveSessions()+s.legacyEcho.ActiveSessions()),
	)
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shut down HTTP server", zap.Error(err))
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

// Close gracefully shuts down the server within the configured timeout.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	err := s.Shutdown(ctx)

	// Sync logger before exit
	s.logger.Sync()
	return err
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
