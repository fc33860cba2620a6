package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storyreel/internal/brief"
	"storyreel/internal/config"
	"storyreel/internal/history"
	"storyreel/internal/logging"
	"storyreel/internal/pipeline"
	"storyreel/internal/session"
)

// Generator runs one scenario generation end to end.
type Generator interface {
	Generate(ctx context.Context, raw brief.RawInput) (*pipeline.Result, error)
}

// Server wires the HTTP surface to the pipeline, history store, and the
// session lock.
type Server struct {
	generator Generator
	store     *history.Store
	lock      *session.Lock
	defaults  config.Generation
	logger    *slog.Logger
}

// NewServer constructs a server. A nil logger disables request logging.
func NewServer(generator Generator, store *history.Store, lock *session.Lock, defaults config.Generation, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{
		generator: generator,
		store:     store,
		lock:      lock,
		defaults:  defaults,
		logger:    logging.NewComponentLogger(logger, "api"),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	api := router.Group("/api")
	{
		api.GET("/status", s.handleStatus)
		api.POST("/generate", s.handleGenerate)
		api.GET("/scenarios", s.handleListScenarios)
		api.GET("/scenarios/:id", s.handleGetScenario)
		api.DELETE("/scenarios/:id", s.handleRemoveScenario)
		api.DELETE("/scenarios", s.handleClearScenarios)
	}
	return router
}

// Serve runs the HTTP server until the context is canceled.
func (s *Server) Serve(ctx context.Context, bind string) error {
	srv := &http.Server{
		Addr:              bind,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		s.logger.Info("request handled",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(started)))
	}
}
