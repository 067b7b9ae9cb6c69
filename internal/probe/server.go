package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/mongo-probe/internal/probe/handler"
	"github.com/kart-io/mongo-probe/internal/probe/middleware"
	"github.com/kart-io/mongo-probe/pkg/component/mongodb"
)

// Server is the HTTP server of the probe service. It owns the gin
// engine, the shared MongoDB client, and the graceful shutdown flow.
type Server struct {
	opts   *Options
	engine *gin.Engine
	store  *mongodb.Client
}

// NewServer builds the probe HTTP server. store may be nil when the
// startup connection failed; initErr then carries the cause and the
// handlers answer with the structured error shape.
func NewServer(opts *Options, store *mongodb.Client, initErr error) *Server {
	gin.SetMode(ginMode(opts.Server.Mode))

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger())

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "route not found",
		})
	})

	// A nil *mongodb.Client must become a nil interface, not a typed
	// nil, so the handlers' guard works.
	var st handler.Store
	if store != nil {
		st = store
	}
	status := handler.NewStatusHandler(st, initErr, opts.Mongo.OperationTimeout)

	engine.GET("/check-connection", status.CheckConnection)
	engine.GET("/test-data", status.ListCollections)
	engine.GET("/healthz", status.Healthz)
	engine.GET("/version", handler.Version)

	return &Server{
		opts:   opts,
		engine: engine,
		store:  store,
	}
}

// Engine returns the underlying gin.Engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until a termination signal or a
// listener error, then shuts down gracefully and closes the MongoDB
// client.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.opts.Server.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.opts.Server.ReadTimeout,
		WriteTimeout: s.opts.Server.WriteTimeout,
		IdleTimeout:  s.opts.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logger.Infow("HTTP server listening", "addr", s.opts.Server.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			logger.Errorw("failed to close MongoDB client", "error", err)
		}
	}

	_ = logger.Flush()
	return nil
}

func ginMode(mode string) string {
	switch mode {
	case "debug":
		return gin.DebugMode
	case "test":
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}
