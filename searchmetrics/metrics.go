// Package searchmetrics exports decode statistics to Prometheus.
//
// A Collector implements search.Observer:
//
//	reg := prometheus.NewRegistry()
//	m := searchmetrics.New(reg, "poreprefix")
//	res, err := search.Decode(y, prefixtree.DNA, search.WithObserver(m))
//
// Metrics (namespace prefix omitted):
//
//	decode_total{variant,outcome}        counter
//	decode_expansions{variant}           histogram
//	decode_evaluations{variant}          histogram
//	decode_duration_seconds{variant}     histogram
//
// outcome is one of ok, truncated, no_viable, canceled, error.
package searchmetrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/poreprefix/search"
)

// Outcome label values.
const (
	OutcomeOK        = "ok"
	OutcomeTruncated = "truncated"
	OutcomeNoViable  = "no_viable"
	OutcomeCanceled  = "canceled"
	OutcomeError     = "error"
)

// Collector records search.Stats into Prometheus metrics.
// It is safe for concurrent use.
type Collector struct {
	decodes     *prometheus.CounterVec
	expansions  *prometheus.HistogramVec
	evaluations *prometheus.HistogramVec
	duration    *prometheus.HistogramVec
}

// New creates a Collector and registers its metrics with reg
// (prometheus.DefaultRegisterer when nil). Registering two Collectors with
// the same namespace on one registry panics, as promauto does.
func New(reg prometheus.Registerer, namespace string) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	sizeBuckets := prometheus.ExponentialBuckets(1, 4, 10) // 1 to ~262k

	return &Collector{
		decodes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_total",
			Help:      "Decodes by variant and outcome",
		}, []string{"variant", "outcome"}),
		expansions: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decode_expansions",
			Help:      "Prefix tree expansions per decode",
			Buckets:   sizeBuckets,
		}, []string{"variant"}),
		evaluations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decode_evaluations",
			Help:      "Prefix tree nodes evaluated per decode",
			Buckets:   sizeBuckets,
		}, []string{"variant"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decode_duration_seconds",
			Help:      "Decode wall time in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16), // 0.1ms to ~3s
		}, []string{"variant"}),
	}
}

// ObserveDecode implements search.Observer.
func (c *Collector) ObserveDecode(s search.Stats) {
	variant := string(s.Variant)
	c.decodes.WithLabelValues(variant, Outcome(s)).Inc()
	c.expansions.WithLabelValues(variant).Observe(float64(s.Expanded))
	c.evaluations.WithLabelValues(variant).Observe(float64(s.Evaluated))
	c.duration.WithLabelValues(variant).Observe(s.Duration.Seconds())
}

// Outcome classifies a decode for the outcome label.
func Outcome(s search.Stats) string {
	switch {
	case s.Err == nil && s.Truncated:
		return OutcomeTruncated
	case s.Err == nil:
		return OutcomeOK
	case errors.Is(s.Err, search.ErrNoViableDecode):
		return OutcomeNoViable
	case errors.Is(s.Err, context.Canceled), errors.Is(s.Err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}

var _ search.Observer = (*Collector)(nil)
