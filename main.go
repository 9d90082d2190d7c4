package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"expvote/internal/config"
	"expvote/internal/container"
	"expvote/internal/handler"
	"expvote/internal/service"
	"expvote/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resources holds all resources that need cleanup
type Resources struct {
	container *container.Container
	closer    *service.CloserService
	server    *http.Server
	log       *logger.Logger
	mu        sync.Mutex
	closed    bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error

	r.log.Info("Starting graceful shutdown...")

	// Stop accepting requests before the backends go away
	if r.server != nil {
		r.log.Info("Shutting down HTTP server...")
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	if r.closer != nil {
		r.log.Info("Stopping vote closer...")
		if err := r.closer.Stop(ctx); err != nil {
			r.log.WithError(err).Error("Failed to stop vote closer")
			errs = append(errs, fmt.Errorf("vote closer shutdown: %w", err))
		} else {
			r.log.Info("Vote closer stopped")
		}
	}

	if r.container != nil {
		healthCtx, healthCancel := context.WithTimeout(ctx, 2*time.Second)
		for name, check := range r.container.HealthChecks() {
			if err := check(healthCtx); err != nil {
				r.log.WithField("backend", name).WithError(err).Warn("Backend health check failed before closing")
			}
		}
		healthCancel()

		r.container.Close()
		r.log.Info("Backend connections closed")
	}

	if len(errs) > 0 {
		r.log.WithField("error_count", len(errs)).Error("Cleanup completed with errors")
		return fmt.Errorf("cleanup completed with %d errors: %w", len(errs), errors.Join(errs...))
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting expvote server")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ctx := context.Background()
	c, err := container.New(ctx, cfg, log, reg)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	router := handler.NewRouter(handler.RouterConfig{
		Voting:         c.Services.Voting,
		Accounts:       c.Services.Accounts,
		Tokens:         c.Tokens,
		HealthChecks:   c.HealthChecks(),
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         log,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	resources := &Resources{
		container: c,
		closer:    c.Services.Closer,
		server:    server,
		log:       log,
	}

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	if err := c.Services.Closer.Start(ctx); err != nil {
		log.WithError(err).Error("Failed to start vote closer")
		return
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}
