package renderer

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var (
	// bdptSamples counts eye and light subpath pairs traced by the BDPT renderer
	bdptSamples = promauto.NewCounter(prometheus.CounterOpts{
		Name: "raytracer_bdpt_samples_total",
		Help: "Subpath pairs traced by the bidirectional renderer",
	})

	bdptSplats = promauto.NewCounter(prometheus.CounterOpts{
		Name: "raytracer_bdpt_splats_total",
		Help: "Light tracing contributions splatted to the film",
	})

	// mutationsTotal counts Metropolis proposals by outcome.
	// Labels: "accepted", "rejected", "invalid"
	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raytracer_mlt_mutations_total",
		Help: "Metropolis proposals by outcome",
	}, []string{"result"})

	acceptanceProbability = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "raytracer_mlt_acceptance",
		Help:    "Acceptance probability of valid proposals",
		Buckets: []float64{0, 0.01, 0.05, 0.1, 0.25, 0.5, 0.75, 0.9, 1},
	})

	chainDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "raytracer_mlt_chain_duration_seconds",
		Help:    "Wall time of one Markov chain",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})
)

var (
	tracerOnce sync.Once
	tracer     trace.Tracer
)

// getTracer returns the OTel tracer, initializing it lazily so that a
// tracer provider installed at startup is picked up.
func getTracer() trace.Tracer {
	tracerOnce.Do(func() {
		tracer = otel.Tracer("renderer")
	})
	return tracer
}
