package moderation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Decisions counts moderation outcomes by action.
	Decisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "descubre_moderation_decisions_total",
		Help: "Total moderation decisions by action",
	}, []string{"action"})

	// SanctionsApplied counts account sanctions by level.
	SanctionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "descubre_moderation_sanctions_total",
		Help: "Total account sanctions applied by level",
	}, []string{"level"})

	// ToxicityFallbacks counts zero-score fallbacks of the external scorer.
	ToxicityFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "descubre_moderation_toxicity_fallbacks_total",
		Help: "Total times the external toxicity scorer degraded to basic filters",
	})

	// DetectorLatency records per-detector latency.
	DetectorLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "descubre_moderation_detector_latency_seconds",
		Help:    "Latency of individual moderation detectors",
		Buckets: prometheus.DefBuckets,
	}, []string{"detector"})

	// AppealsResolved counts resolved appeals by outcome.
	AppealsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "descubre_moderation_appeals_resolved_total",
		Help: "Total appeals resolved by outcome",
	}, []string{"status"})
)
