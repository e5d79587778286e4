package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Evaluation outcomes used as the "outcome" label.
const (
	OutcomeOK            = "ok"
	OutcomeInvalid       = "invalid"
	OutcomeUnconfigured  = "unconfigured"
	OutcomeDegenerate    = "degenerate"
	OutcomeConfiguration = "configuration"
	OutcomeError         = "error"
)

// EvaluationCollector exposes metrics about SNR model evaluations.
type EvaluationCollector struct {
	gatherer prometheus.Gatherer

	Evaluations        *prometheus.CounterVec
	EvaluationDuration prometheus.Histogram
	SNR                prometheus.Histogram
	PixelsInAperture   prometheus.Histogram
}

// NewEvaluationCollector registers the evaluation metrics against reg.
func NewEvaluationCollector(reg prometheus.Registerer) (*EvaluationCollector, error) {
	reg, gatherer := resolveRegistry(reg)

	evaluations, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "solary_evaluations_total",
		Help: "Number of observation evaluations, labeled by outcome.",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "solary_evaluation_duration_seconds",
		Help:    "Time spent evaluating the SNR model for one observation.",
		Buckets: []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3},
	}))
	if err != nil {
		return nil, err
	}

	snr, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "solary_evaluation_snr",
		Help:    "Distribution of object signal-to-noise ratios of successful evaluations.",
		Buckets: []float64{1, 3, 5, 10, 20, 50, 100, 500},
	}))
	if err != nil {
		return nil, err
	}

	pixels, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "solary_evaluation_aperture_pixels",
		Help:    "Number of pixels inside the photometric aperture.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	}))
	if err != nil {
		return nil, err
	}

	return &EvaluationCollector{
		gatherer:           gatherer,
		Evaluations:        evaluations,
		EvaluationDuration: duration,
		SNR:                snr,
		PixelsInAperture:   pixels,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *EvaluationCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// Handler exposes a /metrics handler for the collector's registry.
func (c *EvaluationCollector) Handler() http.Handler {
	return handlerFor(c.Gatherer())
}

// ObserveSuccess records a successful evaluation.
func (c *EvaluationCollector) ObserveSuccess(snr float64, pixels int, d time.Duration) {
	if c == nil {
		return
	}
	c.Evaluations.WithLabelValues(OutcomeOK).Inc()
	c.EvaluationDuration.Observe(d.Seconds())
	c.SNR.Observe(snr)
	c.PixelsInAperture.Observe(float64(pixels))
}

// ObserveFailure records a failed evaluation under outcome.
func (c *EvaluationCollector) ObserveFailure(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	if outcome == "" || outcome == OutcomeOK {
		outcome = OutcomeError
	}
	c.Evaluations.WithLabelValues(outcome).Inc()
	c.EvaluationDuration.Observe(d.Seconds())
}
