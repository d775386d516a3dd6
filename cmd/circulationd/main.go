package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/library-circulation-go/circulation/oteladapters"
	"github.com/AntonStoeckl/library-circulation-go/circulation/postgresstore"
	"github.com/AntonStoeckl/library-circulation-go/circulation/promadapters"
	"github.com/AntonStoeckl/library-circulation-go/library/httpapi"
	"github.com/AntonStoeckl/library-circulation-go/library/shell"
	"github.com/AntonStoeckl/library-circulation-go/library/shell/config"
	"github.com/AntonStoeckl/library-circulation-go/library/shell/settingscache"
)

const instrumentationName = "circulationd"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "token" {
		if err := issueToken(os.Args[2:]); err != nil {
			log.Fatalf("issuing token: %v", err)
		}

		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config.Load()); err != nil {
		log.Fatalf("circulationd: %v", err)
	}
}

// observability is what the store, the handlers and the server get instrumented with.
type observability struct {
	loggers          config.Loggers
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	registry         *prometheus.Registry
}

//nolint:funlen
func run(ctx context.Context, cfg config.AppConfig) error {
	loggers, err := config.NewLoggers(cfg.Logging, cfg.Observability)
	if err != nil {
		return err
	}
	defer func() { _ = loggers.Sync() }()

	obs := observability{loggers: loggers}

	if cfg.Observability.OTelEnabled {
		providers, err := config.NewObservabilityProviders(ctx, cfg.Observability)
		if err != nil {
			return err
		}
		defer func() {
			if err := providers.Shutdown(); err != nil {
				loggers.Logger.Warn("otel shutdown failed", "error", err.Error())
			}
		}()

		obs.tracingCollector = oteladapters.NewTracingCollector(otel.Tracer(instrumentationName))
		obs.metricsCollector = oteladapters.NewMetricsCollector(otel.Meter(instrumentationName))
	}

	if cfg.Observability.PrometheusEnabled {
		obs.registry = prometheus.NewRegistry()
		obs.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		obs.metricsCollector = promadapters.NewMetricsCollector(obs.registry)
	}

	store, closeStore, err := config.NewStore(ctx, cfg.Postgres, storeOptions(obs)...)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.Postgres.MigrateOnStart {
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}
	}

	var (
		settingsSource shell.LoadsSettings = store
		cache          *settingscache.Cache
	)

	if cfg.Redis.Enabled {
		client, err := config.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer closeRedis(client, loggers)

		cache, err = settingscache.New(store, client,
			settingscache.WithTTL(cfg.Redis.SettingsTTL),
			settingscache.WithLogger(loggers.Logger),
		)
		if err != nil {
			return err
		}

		settingsSource = cache
	}

	settings := shell.NewSettingsProvider(settingsSource, shell.WithSettingsLogger(loggers.Logger))

	handlers, err := newHandlers(store, settings, cache, cfg.Retry, obs)
	if err != nil {
		return err
	}

	serverOptions := []httpapi.Option{
		httpapi.WithLogger(loggers.Logger),
		httpapi.WithHealthCheck(store.Ping),
		httpapi.WithRequestTimeout(cfg.Server.RequestTimeout),
	}
	if obs.registry != nil {
		serverOptions = append(serverOptions, httpapi.WithMetricsGatherer(obs.registry))
	}

	server, err := httpapi.New(handlers, cfg.Auth.JWTSecret, serverOptions...)
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		loggers.Logger.Info("http server listening", "addr", cfg.Server.HTTPAddr)
		serveErr <- server.Start(cfg.Server.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		loggers.Logger.Info("shutting down")
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func storeOptions(obs observability) []postgresstore.Option {
	options := []postgresstore.Option{
		postgresstore.WithLogger(obs.loggers.Logger),
		postgresstore.WithContextualLogger(obs.loggers.ContextualLogger),
	}

	if obs.metricsCollector != nil {
		options = append(options, postgresstore.WithMetrics(obs.metricsCollector))
	}

	if obs.tracingCollector != nil {
		options = append(options, postgresstore.WithTracing(obs.tracingCollector))
	}

	return options
}

func closeRedis(client *redis.Client, loggers config.Loggers) {
	if err := client.Close(); err != nil {
		loggers.Logger.Warn("closing redis client failed", "error", err.Error())
	}
}
