package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// StoragePinger is satisfied by the postgres pool and the mongo client adapter.
type StoragePinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	store   StoragePinger
	timeout time.Duration
	log     *slog.Logger
}

func NewHealthChecker(store StoragePinger, log *slog.Logger) *HealthChecker {
	pingTO := 3
	return &HealthChecker{
		store:   store,
		timeout: time.Duration(pingTO) * time.Second,
		log:     log,
	}
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	h.log.DebugContext(req.Context(), "Performing health checks...")

	status := make(map[string]string)
	overallStatus := http.StatusOK

	ctx, cancel := context.WithTimeout(req.Context(), h.timeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		status["storage"] = "unavailable"
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(req.Context(), "Health check failed: storage ping", "error", err)
	} else {
		status["storage"] = "ok"
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(overallStatus)
	if err := json.NewEncoder(writer).Encode(status); err != nil {
		h.log.ErrorContext(req.Context(), "Failed to write health check response", "error", err)
	}

	h.log.DebugContext(req.Context(), "Health checks completed", "status", overallStatus)
}
