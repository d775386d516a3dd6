package helper

import (
	"context"
	"sync"
	"time"
)

// MetricsCollectorSpy captures every metrics call for inspection in tests.
// It implements circulation.ContextualMetricsCollector.
type MetricsCollectorSpy struct {
	mu        sync.Mutex
	durations []SpyMetricRecord
	counters  []SpyMetricRecord
	values    []SpyMetricRecord
}

// SpyMetricRecord is one captured call.
type SpyMetricRecord struct {
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
}

// NewMetricsCollectorSpy returns an empty spy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func copyLabels(labels map[string]string) map[string]string {
	c := make(map[string]string, len(labels))
	for k, v := range labels {
		c[k] = v
	}

	return c
}

// RecordDuration captures a duration.
func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durations = append(s.durations, SpyMetricRecord{Metric: metric, Duration: duration, Labels: copyLabels(labels)})
}

// IncrementCounter captures a counter increment.
func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters = append(s.counters, SpyMetricRecord{Metric: metric, Value: 1, Labels: copyLabels(labels)})
}

// RecordValue captures a gauge value.
func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = append(s.values, SpyMetricRecord{Metric: metric, Value: value, Labels: copyLabels(labels)})
}

// RecordDurationContext captures a duration.
func (s *MetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.RecordDuration(metric, duration, labels)
}

// IncrementCounterContext captures a counter increment.
func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.IncrementCounter(metric, labels)
}

// RecordValueContext captures a gauge value.
func (s *MetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.RecordValue(metric, value, labels)
}

// CounterRecords returns a copy of the captured counter increments.
func (s *MetricsCollectorSpy) CounterRecords() []SpyMetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyMetricRecord(nil), s.counters...)
}

// DurationRecords returns a copy of the captured durations.
func (s *MetricsCollectorSpy) DurationRecords() []SpyMetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyMetricRecord(nil), s.durations...)
}

// Reset drops everything captured so far.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durations, s.counters, s.values = nil, nil, nil
}

// HasCounterRecordForMetric starts a fluent match over all counter records of metric.
//
//	assert.True(t, spy.HasCounterRecordForMetric(m).WithStatus("success").Assert())
func (s *MetricsCollectorSpy) HasCounterRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matcherFor(metric, s.CounterRecords())
}

// HasDurationRecordForMetric starts a fluent match over all duration records of metric.
func (s *MetricsCollectorSpy) HasDurationRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matcherFor(metric, s.DurationRecords())
}

// HasValueRecordForMetric starts a fluent match over all value records of metric.
func (s *MetricsCollectorSpy) HasValueRecordForMetric(metric string) *MetricRecordMatcher {
	s.mu.Lock()
	values := append([]SpyMetricRecord(nil), s.values...)
	s.mu.Unlock()

	return s.matcherFor(metric, values)
}

// CountCounterRecordsForMetric returns the number of increments of metric.
func (s *MetricsCollectorSpy) CountCounterRecordsForMetric(metric string) int {
	return len(s.HasCounterRecordForMetric(metric).candidates)
}

func (s *MetricsCollectorSpy) matcherFor(metric string, records []SpyMetricRecord) *MetricRecordMatcher {
	candidates := make([]SpyMetricRecord, 0, len(records))
	for _, r := range records {
		if r.Metric == metric {
			candidates = append(candidates, r)
		}
	}

	return &MetricRecordMatcher{candidates: candidates}
}

// MetricRecordMatcher narrows the candidate records label by label.
type MetricRecordMatcher struct {
	candidates []SpyMetricRecord
}

// WithLabel keeps the records whose label key equals value.
func (m *MetricRecordMatcher) WithLabel(key, value string) *MetricRecordMatcher {
	kept := m.candidates[:0:0]
	for _, r := range m.candidates {
		if v, ok := r.Labels[key]; ok && v == value {
			kept = append(kept, r)
		}
	}
	m.candidates = kept

	return m
}

// WithStatus keeps the records with the given status label.
func (m *MetricRecordMatcher) WithStatus(status string) *MetricRecordMatcher {
	return m.WithLabel("status", status)
}

// WithErrorType keeps the records with the given error_type label.
func (m *MetricRecordMatcher) WithErrorType(errorType string) *MetricRecordMatcher {
	return m.WithLabel("error_type", errorType)
}

// WithOperation keeps the records with the given operation label.
func (m *MetricRecordMatcher) WithOperation(operation string) *MetricRecordMatcher {
	return m.WithLabel("operation", operation)
}

// Assert reports whether at least one record matched the whole chain.
func (m *MetricRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}
