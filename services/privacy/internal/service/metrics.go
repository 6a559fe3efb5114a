package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScoreCalculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "privacy_score_calculations_total",
		Help: "Privacy scores computed, by subscription plan",
	}, []string{"plan"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "privacy_view_cache_lookups_total",
		Help: "Cached view lookups, by view and result",
	}, []string{"view", "result"})

	GuideToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "privacy_guide_toggles_total",
		Help: "Guide completion toggles, by resulting state",
	}, []string{"state"})

	StatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "privacy_status_changes_total",
		Help: "Status changes received for submitted URLs, by outcome",
	}, []string{"outcome"})

	URLsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "privacy_urls_submitted_total",
		Help: "URLs accepted for deindexing",
	})

	WriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "privacy_write_failures_total",
		Help: "Persistence writes that failed, by operation",
	}, []string{"operation"})

	CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "privacy_cache_errors_total",
		Help: "View cache calls that failed, by operation",
	}, []string{"operation"})
)
