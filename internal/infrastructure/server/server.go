package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Boo15mario/linutil-gui/internal/infrastructure/monitoring"
	"github.com/Boo15mario/linutil-gui/internal/logging"
	"github.com/Boo15mario/linutil-gui/internal/providers/terminal"
	"github.com/Boo15mario/linutil-gui/internal/service"
	"github.com/Boo15mario/linutil-gui/internal/shared/id"
)

const shutdownTimeout = 5 * time.Second

// Server exposes read-only runner status over HTTP: health, Prometheus
// metrics, sessions and registered services.
type Server struct {
	router   *gin.Engine
	manager  *terminal.Manager
	registry *service.Registry
	metrics  *monitoring.Metrics
	logger   *logging.Logger
	started  time.Time
}

// New creates a status server
func New(manager *terminal.Manager, registry *service.Registry, metrics *monitoring.Metrics, logger *logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:   gin.New(),
		manager:  manager,
		registry: registry,
		metrics:  metrics,
		logger:   logging.OrNop(logger),
		started:  time.Now(),
	}

	s.router.Use(gin.Recovery())
	s.router.Use(monitoring.Middleware(metrics))

	s.router.GET("/health", s.health)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))
	s.router.GET("/sessions", s.listSessions)
	s.router.GET("/sessions/:id", s.getSession)
	s.router.GET("/services", s.listServices)

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Status server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("Status server shutdown failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	active := 0
	sessions := s.manager.List()
	for _, info := range sessions {
		if info.Active {
			active++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"uptime_seconds":  int(time.Since(s.started).Seconds()),
		"sessions":        len(sessions),
		"active_sessions": active,
		"registry":        s.registry.Stats(),
	})
}

func (s *Server) listSessions(c *gin.Context) {
	sessions := s.manager.List()
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func (s *Server) getSession(c *gin.Context) {
	sessionID := c.Param("id")
	if _, err := id.ParseSessionID(sessionID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := s.manager.Get(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session.Info())
}

func (s *Server) listServices(c *gin.Context) {
	services := s.registry.List(nil)
	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"count":    len(services),
	})
}
