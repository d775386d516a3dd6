// Package oteladapters implements the circulation observability interfaces on top of OpenTelemetry.
//
// MetricsCollector maps durations to histograms, increments to counters and values to gauges.
// TracingCollector opens one span per store operation or command. SlogBridgeLogger and OTelLogger
// are two ContextualLogger implementations that carry trace and span ids into log records.
//
//	meter := otel.Meter("circulation")
//	tracer := otel.Tracer("circulation")
//	store, err := postgresstore.NewStoreFromPGXPool(
//		pool,
//		postgresstore.WithMetrics(oteladapters.NewMetricsCollector(meter)),
//		postgresstore.WithTracing(oteladapters.NewTracingCollector(tracer)),
//		postgresstore.WithContextualLogger(oteladapters.NewSlogBridgeLogger("circulation")),
//	)
package oteladapters
