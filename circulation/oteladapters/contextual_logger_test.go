package oteladapters_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/embedded"

	"github.com/AntonStoeckl/library-circulation-go/circulation/oteladapters"
)

type recordingLogger struct {
	embedded.Logger
	records []log.Record
}

func (r *recordingLogger) Emit(_ context.Context, record log.Record) {
	r.records = append(r.records, record)
}

func (r *recordingLogger) Enabled(context.Context, log.Record) bool {
	return true
}

func attributesOf(record log.Record) map[string]log.Value {
	attrs := map[string]log.Value{}
	record.WalkAttributes(func(kv log.KeyValue) bool {
		attrs[kv.Key] = kv.Value
		return true
	})

	return attrs
}

func Test_SlogBridgeLoggerWithHandler_WritesToHandler(t *testing.T) {
	// setup
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(
		slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)

	// act
	logger.DebugContext(context.Background(), "loaded loan", "loan_id", "42")
	logger.WarnContext(context.Background(), "command rejected", "error_code", "MAX_RENEWALS_REACHED")

	// assert
	assert.Contains(t, buf.String(), `"msg":"loaded loan"`)
	assert.Contains(t, buf.String(), `"error_code":"MAX_RENEWALS_REACHED"`)
}

func Test_SlogBridgeLogger_OnGlobalProvider_DoesNotPanic(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("test")

	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "changeset committed", "statement_count", 5)
		logger.ErrorContext(context.Background(), "commit failed", "error", "boom")
	})
}

func Test_OTelLogger_EmitsTypedAttributes(t *testing.T) {
	// setup
	recorder := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(recorder)

	// act
	logger.InfoContext(
		context.Background(),
		"changeset committed",
		"owner_id", "b6f2",
		"statement_count", 5,
		"duration_ms", 1.5,
		"retried", true,
		"error", errors.New("none"),
		"dangling",
	)

	// assert
	require.Len(t, recorder.records, 1)
	record := recorder.records[0]
	assert.Equal(t, "changeset committed", record.Body().AsString())
	assert.Equal(t, log.SeverityInfo, record.Severity())

	attrs := attributesOf(record)
	assert.Len(t, attrs, 5)
	assert.Equal(t, "b6f2", attrs["owner_id"].AsString())
	assert.Equal(t, int64(5), attrs["statement_count"].AsInt64())
	assert.InDelta(t, 1.5, attrs["duration_ms"].AsFloat64(), 0.0001)
	assert.True(t, attrs["retried"].AsBool())
	assert.Equal(t, "none", attrs["error"].AsString())
}

func Test_OTelLogger_MapsSeverities(t *testing.T) {
	// setup
	recorder := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(recorder)
	ctx := context.Background()

	// act
	logger.DebugContext(ctx, "d")
	logger.InfoContext(ctx, "i")
	logger.WarnContext(ctx, "w")
	logger.ErrorContext(ctx, "e")

	// assert
	require.Len(t, recorder.records, 4)
	assert.Equal(t, log.SeverityDebug, recorder.records[0].Severity())
	assert.Equal(t, log.SeverityInfo, recorder.records[1].Severity())
	assert.Equal(t, log.SeverityWarn, recorder.records[2].Severity())
	assert.Equal(t, log.SeverityError, recorder.records[3].Severity())
}
