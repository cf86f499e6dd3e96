/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/friendsincode/grimnir_rotation/internal/rotation"
)

// Registry holds the rotation metrics. It is separate from the default
// registry so textfile exports carry no Go runtime series.
var Registry = prometheus.NewRegistry()

var (
	validationRuns = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "grimnir_rotation_validations_total",
		Help: "Total rotation validation runs",
	})

	invalidatedTracks = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "grimnir_rotation_invalidated_tracks_total",
		Help: "Tracks flagged out of rotation by rule",
	}, []string{"rule"})

	backSteps = promauto.With(Registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "grimnir_rotation_back_steps",
		Help:    "Backward re-scan steps per validation run",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})

	validationDuration = promauto.With(Registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "grimnir_rotation_validation_duration_seconds",
		Help:    "Validation run duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
	})

	appendChecks = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "grimnir_rotation_append_checks_total",
		Help: "Append feasibility checks by result",
	}, []string{"result"})
)

// ObserveRun records a completed validation run.
func ObserveRun(stats rotation.Stats, elapsed time.Duration) {
	validationRuns.Inc()
	for rule, n := range stats.ByRule {
		invalidatedTracks.WithLabelValues(string(rule)).Add(float64(n))
	}
	backSteps.Observe(float64(stats.BackSteps))
	validationDuration.Observe(elapsed.Seconds())
}

// ObserveAppend records an append feasibility check.
func ObserveAppend(accepted bool) {
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	appendChecks.WithLabelValues(result).Inc()
}

// WriteTextfile writes the current metrics for a node exporter textfile collector.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, Registry)
}
