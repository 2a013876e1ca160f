// Package metrics exposes prometheus counters for pipeline outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GenerationOutcomes counts finished generation requests by outcome:
	// success, empty_output, upstream_failure, timeout, storage_error, denied.
	GenerationOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scribe",
		Name:      "generation_outcomes_total",
		Help:      "Finished note generation requests by outcome.",
	}, []string{"outcome"})

	// IngestOutcomes counts transcript ingestion attempts by outcome:
	// success, duplicate, invalid, denied, storage_error.
	IngestOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scribe",
		Name:      "transcript_ingest_outcomes_total",
		Help:      "Transcript ingestion attempts by outcome.",
	}, []string{"outcome"})

	// GenerationDuration observes end-to-end generation latency in seconds.
	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scribe",
		Name:      "generation_duration_seconds",
		Help:      "End-to-end note generation latency.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 9),
	})
)
