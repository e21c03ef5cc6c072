// Package metrics records detection outcomes for batch runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Recorder holds the detection metrics on its own registry so that several
// runs in one process do not share counters.
type Recorder struct {
	registry *prometheus.Registry

	detectionsTotal   *prometheus.CounterVec
	detectionDuration prometheus.Histogram
	symbolModules     *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		detectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dmdetect_detections_total",
				Help: "Total number of processed images by outcome",
			},
			[]string{"outcome"}, // outcome: found, not_found, error
		),
		detectionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dmdetect_detection_duration_seconds",
				Help:    "Time spent binarizing and detecting one image",
				Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		symbolModules: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dmdetect_symbol_modules",
				Help:    "Module count along each side of detected symbols",
				Buckets: []float64{8, 10, 12, 16, 20, 26, 32, 48, 64, 96, 144},
			},
			[]string{"axis"}, // axis: x, y
		),
	}
}

// Observe records one processed image. dimX and dimY are ignored unless
// the outcome is OutcomeFound.
func (r *Recorder) Observe(outcome string, elapsed time.Duration, dimX, dimY int) {
	r.detectionsTotal.WithLabelValues(outcome).Inc()
	r.detectionDuration.Observe(elapsed.Seconds())
	if outcome == OutcomeFound {
		r.symbolModules.WithLabelValues("x").Observe(float64(dimX))
		r.symbolModules.WithLabelValues("y").Observe(float64(dimY))
	}
}

// Detections returns the counter for an outcome.
func (r *Recorder) Detections(outcome string) prometheus.Counter {
	return r.detectionsTotal.WithLabelValues(outcome)
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the metrics in the text exposition format, for the
// node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
