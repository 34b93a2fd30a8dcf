// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "video_platform_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "video_platform_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	AssemblyDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "video_platform_assembly_duration_seconds",
		Help:    "Duration of read model assembly in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"assembler"})

	ViewsRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "video_platform_views_recorded_total",
		Help: "Watch history upserts, split by whether the view counter was incremented",
	}, []string{"first_view"})

	MediaOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "video_platform_media_operations_total",
		Help: "Media provider calls",
	}, []string{"operation", "result"})

	OrphanedMedia = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "video_platform_orphaned_media_total",
		Help: "Stored media objects handed to the cleanup queue",
	})

	EventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "video_platform_events_published_total",
		Help: "Domain events published to the broker",
	}, []string{"routing_key", "result"})

	ErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "video_platform_errors_total",
		Help: "Service errors by category",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(AssemblyDuration)
	prometheus.MustRegister(ViewsRecorded)
	prometheus.MustRegister(MediaOperations)
	prometheus.MustRegister(OrphanedMedia)
	prometheus.MustRegister(EventsPublished)
	prometheus.MustRegister(ErrorsTotal)
}

// ObserveAssembly records how long an assembler ran since start.
func ObserveAssembly(assembler string, start time.Time) {
	AssemblyDuration.WithLabelValues(assembler).Observe(time.Since(start).Seconds())
}

// Result returns the result label for err.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
