package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"visit-tracker/internal/config"
	"visit-tracker/internal/container"
	"visit-tracker/internal/handler"
	"visit-tracker/internal/middleware"
	"visit-tracker/internal/service"
	"visit-tracker/pkg/logger"
	"visit-tracker/pkg/redis"
	"visit-tracker/web"
)

// Resources holds all resources that need cleanup
type Resources struct {
	redisClient    *redis.Client
	visitorService service.VisitorService
	server         *http.Server
	log            *logger.Logger
	mu             sync.Mutex
	closed         bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errors []error

	r.log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first to stop accepting new requests
	if r.server != nil {
		r.log.Info("Shutting down HTTP server...")
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errors = append(errors, fmt.Errorf("HTTP server shutdown: %w", err))
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	// Stop visitor service (closes the remote backend)
	if r.visitorService != nil {
		r.log.Info("Stopping visitor service...")
		if err := r.visitorService.Stop(ctx); err != nil {
			r.log.WithError(err).Error("Failed to stop visitor service")
			errors = append(errors, fmt.Errorf("visitor service shutdown: %w", err))
		} else {
			r.log.Info("Visitor service stopped successfully")
		}
	}

	if r.redisClient != nil {
		r.log.Info("Closing Redis connection...")
		if err := r.redisClient.Close(); err != nil {
			r.log.WithError(err).Error("Failed to close Redis connection")
			errors = append(errors, fmt.Errorf("Redis close: %w", err))
		} else {
			r.log.Info("Redis connection closed successfully")
		}
	}

	if len(errors) > 0 {
		r.log.WithField("error_count", len(errors)).Error("Cleanup completed with errors")
		return fmt.Errorf("cleanup completed with %d errors: %v", len(errors), errors)
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.WithFields(map[string]interface{}{
		"port":           cfg.Port,
		"log_level":      cfg.LogLevel,
		"environment":    cfg.Environment,
		"data_dir":       cfg.DataDir,
		"remote_backend": cfg.RemoteBackend,
	}).Info("Starting visit-tracker server")

	// Create dependency injection container
	container, err := container.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	ctx := context.Background()

	// Seed local state files
	visitorService := container.GetVisitorService()
	if err := visitorService.Start(ctx); err != nil {
		log.WithError(err).Fatal("Failed to start visitor service")
	}
	if err := container.GetDatasetService().Init(); err != nil {
		log.WithError(err).Fatal("Failed to initialize dataset")
	}

	// Setup router
	router, err := setupRouter(container)
	if err != nil {
		log.WithError(err).Fatal("Failed to configure router")
	}

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	// Create resources manager for cleanup
	resources := &Resources{
		redisClient:    container.GetRedisClient(),
		visitorService: visitorService,
		server:         server,
		log:            log,
	}

	// Setup graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Make sure resources are released however main returns
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	// Wait for interrupt signal or server error
	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(container *container.Container) (*chi.Mux, error) {
	cfg := container.GetConfig()
	log := container.GetLogger()

	staticFS, err := web.Static()
	if err != nil {
		return nil, fmt.Errorf("failed to load static assets: %w", err)
	}

	r := chi.NewRouter()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins

	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.CORS(corsConfig, log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	healthHandler := handler.NewHealthHandler(container)
	visitorHandler := handler.NewVisitorHandler(container.GetVisitorService(), web.FS(), log)
	datasetHandler := handler.NewDatasetHandler(container.GetDatasetService(), log)

	r.Get("/health", healthHandler.Check)
	visitorHandler.RegisterRoutes(r)
	datasetHandler.RegisterRoutes(r)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.NotFound(handler.NotFound(log))

	log.Info("Router configured successfully")
	return r, nil
}
