package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"nuitbot/internal/models"
)

var (
	once sync.Once

	generationLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nuitbot_generation_latency_ms",
		Help:    "Latency of inference calls in milliseconds",
		Buckets: []float64{100, 250, 500, 1000, 2000, 4000, 8000, 15000, 30000, 60000},
	}, []string{"provider"})

	generations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nuitbot_generations_total",
		Help: "Generation outcomes by provider",
	}, []string{"provider", "outcome"})

	criterionHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nuitbot_criterion_hits_total",
		Help: "Evaluated replies that satisfied each criterion",
	}, []string{"criterion"})

	evaluations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nuitbot_evaluations_total",
		Help: "Replies evaluated",
	})

	rateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nuitbot_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
)

func ensureRegistered() {
	once.Do(func() {
		prometheus.MustRegister(generationLatency, generations, criterionHits, evaluations, rateLimited)
	})
}

// Register makes sure the collectors are known to the default registry,
// so /metrics lists them before the first observation.
func Register() {
	ensureRegistered()
}

// ObserveGeneration records latency and outcome of one inference call.
func ObserveGeneration(provider string, start time.Time, err error) {
	ensureRegistered()
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	generationLatency.WithLabelValues(provider).Observe(float64(time.Since(start).Milliseconds()))
	generations.WithLabelValues(provider, outcome).Inc()
}

// ObserveEvaluation counts an evaluation and every criterion it satisfied.
func ObserveEvaluation(e models.Evaluation, criteria []string) {
	ensureRegistered()
	evaluations.Inc()
	for _, c := range criteria {
		if e.Get(c) {
			criterionHits.WithLabelValues(c).Inc()
		}
	}
}

// IncRateLimited counts a rejected request.
func IncRateLimited() {
	ensureRegistered()
	rateLimited.Inc()
}
