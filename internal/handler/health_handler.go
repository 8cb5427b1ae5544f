package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"visit-tracker/internal/container"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	container *container.Container
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(container *container.Container) *HealthHandler {
	return &HealthHandler{
		container: container,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	Version       string    `json:"version"`
	Service       string    `json:"service"`
	RemoteBackend string    `json:"remote_backend"`
	StatsCache    string    `json:"stats_cache"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	cache := "disabled"
	if h.container.HasRedis() {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		cache = "healthy"
		if err := h.container.GetRedisClient().Health(ctx); err != nil {
			logger.WithError(err).Warn("Redis health check failed")
			cache = "unhealthy"
		}
	}

	response := HealthResponse{
		Status:        "healthy",
		Timestamp:     time.Now().UTC(),
		Version:       "1.0.0",
		Service:       "visit-tracker",
		RemoteBackend: h.container.Remote.Name(),
		StatsCache:    cache,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.WithError(err).Error("Failed to encode health check response")
		return
	}
}
