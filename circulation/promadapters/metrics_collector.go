package promadapters

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

const suffixSeconds = "_seconds"

// DefaultDurationBuckets covers a single indexed lookup up to a slow commit under contention.
var DefaultDurationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// DefaultValueBuckets covers row counts and retry attempts.
var DefaultValueBuckets = []float64{0, 1, 2, 3, 5, 10, 25, 50, 100, 500}

// MetricsCollector implements circulation.MetricsCollector on a prometheus.Registerer.
// RecordDuration feeds histograms, IncrementCounter feeds counters and RecordValue feeds
// gauges, except that names ending in _seconds are observed on histograms.
type MetricsCollector struct {
	registerer      prometheus.Registerer
	durationBuckets []float64

	mu         sync.Mutex
	histograms map[string]*prometheus.HistogramVec
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
}

// Option configures a MetricsCollector.
type Option func(*MetricsCollector)

// WithDurationBuckets replaces DefaultDurationBuckets.
func WithDurationBuckets(buckets []float64) Option {
	return func(m *MetricsCollector) {
		m.durationBuckets = buckets
	}
}

// NewMetricsCollector returns a collector that registers its vectors on registerer.
func NewMetricsCollector(registerer prometheus.Registerer, options ...Option) *MetricsCollector {
	m := &MetricsCollector{
		registerer:      registerer,
		durationBuckets: DefaultDurationBuckets,
		histograms:      make(map[string]*prometheus.HistogramVec),
		counters:        make(map[string]*prometheus.CounterVec),
		gauges:          make(map[string]*prometheus.GaugeVec),
	}

	for _, option := range options {
		option(m)
	}

	return m
}

// RecordDuration observes duration in seconds.
func (m *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	histogram := m.histogram(metric, labels, m.durationBuckets)
	if histogram == nil {
		return
	}

	if observer, err := histogram.GetMetricWith(labels); err == nil {
		observer.Observe(duration.Seconds())
	}
}

// IncrementCounter adds one.
func (m *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	counter := m.counter(metric, labels)
	if counter == nil {
		return
	}

	if c, err := counter.GetMetricWith(labels); err == nil {
		c.Inc()
	}
}

// RecordValue sets a gauge, or observes a histogram for names ending in _seconds.
func (m *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	if strings.HasSuffix(metric, suffixSeconds) {
		if histogram := m.histogram(metric, labels, m.durationBuckets); histogram != nil {
			if observer, err := histogram.GetMetricWith(labels); err == nil {
				observer.Observe(value)
			}
		}

		return
	}

	gauge := m.gauge(metric, labels)
	if gauge == nil {
		return
	}

	if g, err := gauge.GetMetricWith(labels); err == nil {
		g.Set(value)
	}
}

func (m *MetricsCollector) histogram(name string, labels map[string]string, buckets []float64) *prometheus.HistogramVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	if vec, exists := m.histograms[name]; exists {
		return vec
	}

	vec := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: name, Help: help(name), Buckets: buckets},
		labelNames(labels),
	)

	registered, ok := register(m.registerer, vec).(*prometheus.HistogramVec)
	if !ok {
		return nil
	}

	m.histograms[name] = registered

	return registered
}

func (m *MetricsCollector) counter(name string, labels map[string]string) *prometheus.CounterVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	if vec, exists := m.counters[name]; exists {
		return vec
	}

	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help(name)}, labelNames(labels))

	registered, ok := register(m.registerer, vec).(*prometheus.CounterVec)
	if !ok {
		return nil
	}

	m.counters[name] = registered

	return registered
}

func (m *MetricsCollector) gauge(name string, labels map[string]string) *prometheus.GaugeVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	if vec, exists := m.gauges[name]; exists {
		return vec
	}

	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help(name)}, labelNames(labels))

	registered, ok := register(m.registerer, vec).(*prometheus.GaugeVec)
	if !ok {
		return nil
	}

	m.gauges[name] = registered

	return registered
}

// register returns the collector that ended up registered, the existing one if another
// MetricsCollector on the same registerer was first, nil if registration failed.
func register(registerer prometheus.Registerer, collector prometheus.Collector) prometheus.Collector {
	err := registerer.Register(collector)
	if err == nil {
		return collector
	}

	var alreadyRegistered prometheus.AlreadyRegisteredError
	if errors.As(err, &alreadyRegistered) {
		return alreadyRegistered.ExistingCollector
	}

	return nil
}

func labelNames(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func help(name string) string {
	return "circulation metric " + name
}

var _ circulation.MetricsCollector = (*MetricsCollector)(nil)
