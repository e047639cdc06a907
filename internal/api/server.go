// Package api exposes the assessment session over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/naranjo-adr-assessor/internal/domain"
	"github.com/naranjo-adr-assessor/internal/middleware"
	"github.com/naranjo-adr-assessor/internal/session"
)

// ModelLister lists the models installed on a local model server.
type ModelLister interface {
	ListModels(ctx context.Context, endpointURL string) ([]string, error)
}

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	logger        *logrus.Logger
	session       *session.Session
	settings      domain.SettingsStore
	models        ModelLister
	router        *gin.Engine
	server        *http.Server
	now           func() time.Time
}

// NewServer creates a new HTTP server instance
func NewServer(configManager domain.ConfigManager, logger *logrus.Logger, sess *session.Session, settings domain.SettingsStore, models ModelLister) *Server {
	cfg := configManager.GetConfig()

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CorrelationID())
	router.Use(middleware.AccessLog(logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(""))

	server := &Server{
		configManager: configManager,
		logger:        logger,
		session:       sess,
		settings:      settings,
		models:        models,
		router:        router,
		now:           time.Now,
	}

	server.setupRoutes()

	return server
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/questions", s.handleQuestions)

		assessment := v1.Group("/assessment")
		assessment.GET("", s.handleGetAssessment)
		assessment.PUT("/locale", s.handleSetLocale)
		assessment.PUT("/patient", s.handleSetPatient)
		assessment.PUT("/event", s.handleSetEvent)
		assessment.PUT("/answers/:id", s.handleSetAnswer)
		assessment.POST("/reset", s.handleReset)
		assessment.POST("/history", s.handleAddHistory)
		assessment.DELETE("/history/:id", s.handleRemoveHistory)

		v1.GET("/report", s.handleReport)

		v1.GET("/analysis", s.handleGetAnalysis)
		v1.POST("/analysis", s.handleRunAnalysis)
		v1.DELETE("/analysis", s.handleClearAnalysis)

		tl := v1.Group("/timeline")
		tl.GET("", s.handleTimeline)
		tl.POST("/exposures", s.handleAddExposure)
		tl.DELETE("/exposures/:id", s.handleRemoveExposure)
		tl.POST("/notes", s.handleAddNote)
		tl.DELETE("/notes/:id", s.handleRemoveNote)

		v1.GET("/settings", s.handleGetSettings)
		v1.PUT("/settings", s.handleSaveSettings)
		v1.GET("/settings/models", s.handleListModels)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": s.now().UTC(),
	})
}
