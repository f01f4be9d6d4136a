package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exports run progress to Prometheus. A nil *Metrics records nothing.
type Metrics struct {
	generations        prometheus.Counter
	candidates         prometheus.Counter
	cacheHits          prometheus.Counter
	runs               *prometheus.CounterVec
	bestFitness        prometheus.Gauge
	generationDuration prometheus.Histogram
}

// NewMetrics registers the engine collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		generations: f.NewCounter(prometheus.CounterOpts{
			Namespace: "genetix",
			Name:      "generations_total",
			Help:      "Completed generations across all runs.",
		}),
		candidates: f.NewCounter(prometheus.CounterOpts{
			Namespace: "genetix",
			Name:      "candidates_created_total",
			Help:      "Candidate expressions created, including the initial population.",
		}),
		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: "genetix",
			Name:      "fitness_cache_hits_total",
			Help:      "Fitness evaluations answered from the cache.",
		}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "genetix",
			Name:      "runs_total",
			Help:      "Terminated runs by final state.",
		}, []string{"state"}),
		bestFitness: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "genetix",
			Name:      "best_fitness",
			Help:      "Best fitness of the latest generation.",
		}),
		generationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "genetix",
			Name:      "generation_duration_seconds",
			Help:      "Wall time per generation.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
	}
}

func (m *Metrics) generation(p Progress, created int, d time.Duration) {
	if m == nil {
		return
	}
	m.generations.Inc()
	m.candidates.Add(float64(created))
	m.bestFitness.Set(p.BestFitness)
	m.generationDuration.Observe(d.Seconds())
}

func (m *Metrics) created(n int) {
	if m == nil {
		return
	}
	m.candidates.Add(float64(n))
}

func (m *Metrics) cacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) terminated(s State) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(s.String()).Inc()
}
