// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

// Package metrics defines the Prometheus instrumentation for the view
// server. All metrics are registered with the default registry and
// exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts API requests by method, route and status.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clusterview_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	// APIRequestDuration observes API request latency.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clusterview_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// APIActiveRequests gauges in-flight API requests.
	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clusterview_api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	// ViewsSaved counts persisted views by kind.
	ViewsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clusterview_views_saved_total",
			Help: "Total number of views saved",
		},
		[]string{"kind"},
	)

	// MediaFetchErrors counts failed remote media downloads.
	MediaFetchErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clusterview_media_fetch_errors_total",
			Help: "Total number of failed media fetches",
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
