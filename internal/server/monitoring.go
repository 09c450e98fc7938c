package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/UnknownOlympus/staffbook/internal/lib/logger/sl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMonitoringHandler serves /metrics from reg and /healthz from the storage ping.
func NewMonitoringHandler(log *slog.Logger, reg *prometheus.Registry, store StoragePinger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true, Registry: reg}))
	mux.Handle("/healthz", NewHealthChecker(store, log))

	return mux
}

// StartMonitoringServer runs the monitoring endpoints on port until ctx is cancelled.
func StartMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	store StoragePinger,
	port int,
) {
	readTO := 5
	srv := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(port)),
		Handler:           NewMonitoringHandler(log, reg, store),
		ReadHeaderTimeout: time.Duration(readTO) * time.Second,
	}

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	if err := serve(ctx, srv, time.Duration(readTO)*time.Second); err != nil {
		log.ErrorContext(ctx, "Monitoring server failed", sl.Err(err))
	}
	log.InfoContext(ctx, "Monitoring server stopped.")
}
