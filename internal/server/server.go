package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/erpbridge/xml-erp-bridge/internal/auth"
	"github.com/erpbridge/xml-erp-bridge/internal/config"
	"github.com/erpbridge/xml-erp-bridge/internal/handler"
	"github.com/erpbridge/xml-erp-bridge/internal/middleware"
	"github.com/erpbridge/xml-erp-bridge/internal/session"

	_ "github.com/erpbridge/xml-erp-bridge/docs"
)

// Dependencies are the collaborators the routes are wired to
type Dependencies struct {
	ScanHandler    *handler.ScanHandler
	ProcessHandler *handler.ProcessHandler
	Verifier       auth.Verifier
	AllowList      *auth.AllowList
	Sessions       *session.Store
	Logger         *logrus.Logger
}

// Server represents the HTTP server of the bridge
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	deps       Dependencies
	config     *config.Config
}

// NewServer creates and configures a new server instance
func NewServer(cfg *config.Config, deps Dependencies) *Server {
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.RequestResponseLogger(deps.Logger))

	server := &Server{
		router: router,
		deps:   deps,
		config: cfg,
		httpServer: &http.Server{
			Addr:         cfg.Address(),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}

	server.setupRoutes()
	return server
}

// GetRouter returns the gin router instance
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// setupRoutes configures all application routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	api.GET("/health", handler.Health)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(s.deps.Verifier, s.deps.AllowList, s.deps.Logger))
	{
		protected.GET("/me", handler.Me)
		protected.POST("/scan-xml", s.deps.ScanHandler.ScanXML)
		protected.POST("/process-invoice", s.deps.ProcessHandler.ProcessInvoice)
		protected.POST("/process-tahsilat", s.deps.ProcessHandler.ProcessTahsilat)
		protected.POST("/process-xml", s.deps.ProcessHandler.ProcessXML)
		protected.GET("/sessions/:id/export", s.deps.ScanHandler.ExportSession)
		protected.GET("/sessions/:id/dispatches", s.deps.ProcessHandler.ListDispatches)
	}

	// Access the Swagger UI at http://localhost:8080/api-docs/index.html
	swaggerHandler := ginSwagger.WrapHandler(swaggerFiles.Handler)
	s.router.GET("/api-docs/*any", swaggerHandler)

	s.router.GET("/api-docs", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api-docs/index.html")
	})
}

// Start serves requests and sweeps expired sessions until SIGINT/SIGTERM,
// then shuts down gracefully
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves requests until ctx is done
func (s *Server) Run(ctx context.Context) error {
	log := s.deps.Logger

	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	if s.deps.Sessions != nil {
		go s.deps.Sessions.Run(sweepCtx, s.config.SessionSweepInterval)
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", s.httpServer.Addr).Info("server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	cancelSweep()

	if err := s.Shutdown(); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited gracefully")
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
