// Package metrics exposes Prometheus collectors over simulation progress:
// steps taken, cumulative reward, live path count, and cells burned. It is
// ambient observability, not part of the core step semantics of spec §4.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector groups the counters/gauges one simulation run reports.
type Collector struct {
	StepsTotal       prometheus.Counter
	CumulativeReward prometheus.Gauge
	LivePaths        prometheus.Gauge
	CellsBurnedTotal prometheus.Counter
	MapGenRetries    prometheus.Counter
}

// NewCollector registers a fresh set of collectors against reg. Pass
// prometheus.NewRegistry() for an isolated registry (tests, multiple driver
// instances in one process) or nil to use the default global registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Collector{
		StepsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "wildfireevac",
			Name:      "steps_total",
			Help:      "Number of simulation steps advanced.",
		}),
		CumulativeReward: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "wildfireevac",
			Name:      "cumulative_reward",
			Help:      "Reward accumulated across the current episode.",
		}),
		LivePaths: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "wildfireevac",
			Name:      "live_paths",
			Help:      "Number of evacuation paths still live.",
		}),
		CellsBurnedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "wildfireevac",
			Name:      "cells_burned_total",
			Help:      "Cumulative count of populated cells newly caught by fire.",
		}),
		MapGenRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "wildfireevac",
			Name:      "map_gen_retries_total",
			Help:      "Number of rejected path candidates retried by the map generator.",
		}),
	}
}
