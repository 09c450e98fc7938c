package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/UnknownOlympus/staffbook/internal/auth"
	"github.com/UnknownOlympus/staffbook/internal/config"
	"github.com/UnknownOlympus/staffbook/internal/lib/logger/sl"
	"github.com/UnknownOlympus/staffbook/internal/metrics"
	"github.com/UnknownOlympus/staffbook/internal/repository"
	"github.com/UnknownOlympus/staffbook/internal/repository/mongorepo"
	"github.com/UnknownOlympus/staffbook/internal/server"
	"github.com/UnknownOlympus/staffbook/internal/services/employees"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	var wgr sync.WaitGroup
	delta := 2

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	store, err := openStorage(ctx, cfg, appMetrics)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.Storage.Driver, err)
	}
	defer store.release()

	staff := employees.NewStaff(logger, store.repo, appMetrics)
	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	if cfg.Env != envLocal {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(cfg.HTTP, logger, appMetrics, tokens, staff)

	wgr.Add(delta)

	go func() {
		defer wgr.Done()
		server.StartMonitoringServer(ctx, logger, reg, store.pinger, cfg.MetricsPort)
	}()

	go func() {
		defer wgr.Done()
		if serveErr := server.StartAPIServer(ctx, logger, cfg.HTTP, router); serveErr != nil {
			logger.ErrorContext(ctx, "API server failed", sl.Err(serveErr))
			stop()
		}
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.",
		"storage", cfg.Storage.Driver, "address", cfg.HTTP.Address)

	wgr.Wait()

	logger.InfoContext(ctx, "Application stopped gracefully...")
}

type storage struct {
	repo    repository.EmployeeRepoIface
	pinger  server.StoragePinger
	release func()
}

// openStorage connects to the configured driver and returns the employee repository on top of it.
func openStorage(ctx context.Context, cfg *config.Config, appMetrics *metrics.Metrics) (storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		client, err := mongorepo.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return storage{}, err
		}

		coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		if err = mongorepo.EnsureIndexes(ctx, coll); err != nil {
			_ = client.Disconnect(context.Background())
			return storage{}, err
		}

		return storage{
			repo:    mongorepo.NewEmployeeRepository(coll, appMetrics),
			pinger:  mongorepo.Pinger{Client: client},
			release: func() { _ = client.Disconnect(context.Background()) },
		}, nil
	case config.DriverPostgres:
		dtb, err := repository.NewDatabase(
			cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Dbname)
		if err != nil {
			return storage{}, err
		}

		return storage{
			repo:    repository.NewEmployeeRepository(dtb, appMetrics),
			pinger:  dtb,
			release: dtb.Close,
		}, nil
	default:
		return storage{}, fmt.Errorf("%w: unknown storage driver %q", config.ErrInvalidConfig, cfg.Storage.Driver)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: "", Value: slog.Value{}}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: "", Value: slog.Value{}}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}
