package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/WebDesk/backend/internal/api/http"
	"github.com/GriffinCanCode/WebDesk/backend/internal/api/middleware"
	"github.com/GriffinCanCode/WebDesk/backend/internal/api/ws"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/window"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	handler    http.Handler
	httpServer *http.Server
	desktops   *desktop.Manager
	tracer     *tracing.Tracer
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	logger.Info("Initializing desktop server",
		zap.String("port", cfg.Server.Port),
		zap.Int("max_sessions", cfg.Desktop.MaxSessions),
	)

	cat, err := catalog.Load()
	if err != nil {
		return nil, err
	}

	// Metrics first, other components record into it
	metrics := monitoring.NewMetrics()
	tracer := tracing.New("webdesk", logger.Logger)

	desktops, err := desktop.NewManager(cat, DesktopConfig(cfg), logger.Named("desktop"))
	if err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to create desktop manager: %w", err)
	}
	desktops.WithMetrics(metrics)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(logger.GinMiddleware())
	corsHandler, err := middleware.CORS(cfg.Server.AllowedOrigins)
	if err != nil {
		tracer.Close()
		return nil, err
	}
	router.Use(corsHandler)
	router.Use(middleware.BodyLimit(utils.MaxJSONSize))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	apihttp.NewHandlers(desktops, metrics, logger.Named("http")).Register(router)
	router.GET("/sessions/:id/stream", ws.NewHandler(desktops, metrics, logger.Named("ws")).HandleConnection)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	handler, err := compress(router, cfg.Compression)
	if err != nil {
		tracer.Close()
		return nil, err
	}

	s := &Server{
		router:   router,
		handler:  handler,
		desktops: desktops,
		tracer:   tracer,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}
	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server initialized successfully")
	return s, nil
}

// DesktopConfig translates the environment configuration for the desktop
// domain.
func DesktopConfig(cfg *config.Config) desktop.Config {
	d := cfg.Desktop
	area := window.Area{
		MinX: d.PlacementMinX,
		MaxX: d.PlacementMaxX,
		MinY: d.PlacementMinY,
		MaxY: d.PlacementMaxY,
	}
	return desktop.Config{
		MaxSessions: d.MaxSessions,
		Window: window.Config{
			BaseZIndex:  d.BaseZIndex,
			DefaultSize: window.Size{Width: d.WindowWidth, Height: d.WindowHeight},
			Placement:   window.NewUniformPlacement(area, nil),
		},
		Username:          cfg.Auth.Username,
		Password:          cfg.Auth.Password,
		BcryptCost:        cfg.Auth.BcryptCost,
		MaxUnlockFailures: cfg.Auth.MaxFailures,
		UnlockCooldown:    cfg.Auth.Lockout,
	}
}

// compress gzips responses above the configured size. WebSocket upgrades
// go straight to the router so the connection can be hijacked.
func compress(router http.Handler, cfg config.CompressionConfig) (http.Handler, error) {
	if !cfg.Enabled {
		return router, nil
	}
	wrap, err := gzhttp.NewWrapper(gzhttp.MinSize(cfg.MinSize))
	if err != nil {
		return nil, fmt.Errorf("failed to configure compression: %w", err)
	}
	gz := wrap(router)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			router.ServeHTTP(w, r)
			return
		}
		gz.ServeHTTP(w, r)
	}), nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Desktops returns the session manager.
func (s *Server) Desktops() *desktop.Manager {
	return s.desktops
}

// Run starts the HTTP server and blocks until it stops. A clean Shutdown
// returns nil.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones, then ends
// every desktop session.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Error("HTTP shutdown incomplete", zap.Error(err))
	}

	s.desktops.Shutdown()
	s.tracer.Close()
	_ = s.logger.Sync()

	return err
}
