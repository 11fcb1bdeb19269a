package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autohub_api_requests_total",
			Help: "Upstream marketplace API calls by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "autohub_api_request_duration_seconds",
			Help:    "Latency of upstream marketplace API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	LeadSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autohub_lead_submissions_total",
			Help: "Lead form submissions by form and outcome",
		},
		[]string{"form", "outcome"},
	)

	CarouselVersionChanges = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "autohub_carousel_version_changes_total",
			Help: "Number of times the carousel slide set was replaced",
		},
	)

	FencedResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autohub_fenced_responses_total",
			Help: "Listing responses dropped because a newer request superseded them",
		},
		[]string{"listing"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autohub_cache_lookups_total",
			Help: "Cache lookups by cache name and result",
		},
		[]string{"cache", "result"},
	)
)
