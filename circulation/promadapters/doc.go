// Package promadapters implements circulation.MetricsCollector with Prometheus vectors.
//
// Vectors are created and registered on first use. Their label names are the keys of the
// first observation; later observations with other label keys are dropped.
package promadapters
