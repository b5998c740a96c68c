package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "dream"

// Collector tracks generation traffic.
//
// Metrics:
//   - dream_generation_attempts_total: calls made to the generation service
//   - dream_rate_limited_total: calls rejected with a rate limit
//   - dream_analyses_total: finished analyses by outcome
//   - dream_generation_duration_seconds: wall time of one retry loop, sleeps included
//
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	attempts    *prometheus.CounterVec
	rateLimited *prometheus.CounterVec
	analyses    *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewCollector creates and registers the metrics with the provided registry.
func NewCollector(registry *prometheus.Registry) *Collector {
	c := &Collector{
		registry: registry,
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generation_attempts_total",
				Help:      "Total number of calls made to the generation service",
			},
			[]string{"model"},
		),
		rateLimited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_total",
				Help:      "Total number of generation calls rejected with a rate limit",
			},
			[]string{"model"},
		),
		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Total number of dream analyses by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_duration_seconds",
				Help:      "Duration of a generation including retries",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40},
			},
		),
	}

	registry.MustRegister(c.attempts, c.rateLimited, c.analyses, c.duration)
	return c
}

// NewDefaultRegistry returns a registry with the Go and process collectors attached.
func NewDefaultRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Collector) RecordAttempt(model string) {
	if c == nil {
		return
	}
	c.attempts.WithLabelValues(model).Inc()
}

func (c *Collector) RecordRateLimit(model string) {
	if c == nil {
		return
	}
	c.rateLimited.WithLabelValues(model).Inc()
}

func (c *Collector) RecordAnalysis(outcome string) {
	if c == nil {
		return
	}
	c.analyses.WithLabelValues(outcome).Inc()
}

func (c *Collector) ObserveGeneration(d time.Duration) {
	if c == nil {
		return
	}
	c.duration.Observe(d.Seconds())
}
