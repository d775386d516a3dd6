package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/oteladapters"
	"github.com/AntonStoeckl/library-circulation-go/circulation/zapadapters"
)

// Loggers bundles the plain and contextual loggers for one backend.
type Loggers struct {
	Logger           circulation.Logger
	ContextualLogger circulation.ContextualLogger
	Sync             func() error
}

// NewLoggers builds the loggers selected by LOG_BACKEND.
// With OTel enabled the slog backend also bridges records into the OpenTelemetry log pipeline.
func NewLoggers(cfg LoggingConfig, observability ObservabilityConfig) (Loggers, error) {
	switch cfg.Backend {
	case LogBackendZap:
		zapLogger, err := zapadapters.NewZapLogger(cfg.Level, cfg.Format, observability.ServiceName)
		if err != nil {
			return Loggers{}, fmt.Errorf("creating zap logger: %w", err)
		}

		logger := zapadapters.NewLogger(zapLogger)

		return Loggers{Logger: logger, ContextualLogger: logger, Sync: logger.Sync}, nil

	case LogBackendSlog, "":
		logger := slog.New(newSlogHandler(cfg)).With("service_name", observability.ServiceName)
		loggers := Loggers{Logger: logger, ContextualLogger: logger, Sync: func() error { return nil }}

		if observability.OTelEnabled {
			loggers.ContextualLogger = oteladapters.NewSlogBridgeLogger(observability.ServiceName)
		}

		return loggers, nil

	default:
		return Loggers{}, fmt.Errorf("unknown log backend %q", cfg.Backend)
	}
}

func newSlogHandler(cfg LoggingConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level)}

	if cfg.Format == "console" || cfg.Format == "text" {
		return slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.NewJSONHandler(os.Stdout, opts)
}

func slogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
