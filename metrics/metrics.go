// Package metrics exposes search activity to Prometheus.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nstehr/ordnance/optimizer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels how a search ended.
type Outcome string

const (
	OutcomeOK        Outcome = "ok"
	OutcomeEmpty     Outcome = "empty" // ran to completion, nothing survived
	OutcomeInvariant Outcome = "invariant_violation"
	OutcomeError     Outcome = "error" // rejected before enumeration
)

// Collector bundles the search metrics and the gatherer that serves them.
type Collector struct {
	gatherer prometheus.Gatherer

	Searches  *prometheus.CounterVec
	Designs   *prometheus.CounterVec
	Durations *prometheus.HistogramVec
	AxisSize  *prometheus.GaugeVec
}

// NewCollector registers the metrics against reg, defaulting to the global
// registry when nil. Registering twice against the same registry returns the
// existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	searches, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ordnance_searches_total",
		Help: "Total number of design searches, labeled by outcome.",
	}, []string{"outcome"}), "ordnance_searches_total")
	if err != nil {
		return nil, err
	}

	designs, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ordnance_designs_total",
		Help: "Composed designs, labeled by what the constraint policy did with them.",
	}, []string{"result"}), "ordnance_designs_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ordnance_search_duration_seconds",
		Help:    "Wall time of a full search in seconds.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"outcome"}), "ordnance_search_duration_seconds")
	if err != nil {
		return nil, err
	}

	axes, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ordnance_axis_candidates",
		Help: "Candidates on each axis of the most recent search.",
	}, []string{"axis"}), "ordnance_axis_candidates")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:  gatherer,
		Searches:  searches,
		Designs:   designs,
		Durations: durations,
		AxisSize:  axes,
	}, nil
}

// ObserveSearch records one finished search. A nil Collector is a no-op.
func (c *Collector) ObserveSearch(outcome Outcome, elapsed time.Duration, counts optimizer.Counts, stats optimizer.Stats) {
	if c == nil {
		return
	}
	c.Searches.WithLabelValues(string(outcome)).Inc()
	c.Durations.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())
	if outcome == OutcomeError {
		return
	}

	c.AxisSize.WithLabelValues("payload").Set(float64(counts.Payload))
	c.AxisSize.WithLabelValues("propulsion").Set(float64(counts.Propulsion))
	c.AxisSize.WithLabelValues("agility").Set(float64(counts.Agility))

	c.Designs.WithLabelValues("accepted").Add(float64(stats.Accepted))
	c.Designs.WithLabelValues("no_fuel").Add(float64(stats.SkippedNoFuel))
	c.Designs.WithLabelValues("range").Add(float64(stats.RejectedRange))
	c.Designs.WithLabelValues("cth").Add(float64(stats.RejectedCth))
	c.Designs.WithLabelValues("filter").Add(float64(stats.RejectedFilter))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
