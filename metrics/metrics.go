// Package metrics exposes Prometheus collectors for the HTTP layer and the
// background task pool.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Collector struct {
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	Tasks        *prometheus.CounterVec
	TaskRetries  *prometheus.CounterVec
}

var (
	globalCollector *Collector
	collectorOnce   sync.Once
)

// GetCollector returns the process-wide collector, registering the metrics
// with the default registry on first use.
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		globalCollector = &Collector{
			HTTPRequests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "meetups_http_requests_total",
					Help: "The total number of handled HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "meetups_http_request_duration_seconds",
					Help:    "HTTP request duration in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "path"},
			),
			Tasks: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "meetups_worker_tasks_total",
					Help: "The total number of processed background tasks",
				},
				[]string{"task", "outcome"},
			),
			TaskRetries: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "meetups_worker_task_retries_total",
					Help: "The total number of background task retries",
				},
				[]string{"task"},
			),
		}
	})
	return globalCollector
}

// RecordHTTPRequest counts a handled request and observes its duration
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	c := GetCollector()
	c.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTask counts a finished background task by outcome ("ok" or "failed")
func RecordTask(task, outcome string) {
	GetCollector().Tasks.WithLabelValues(task, outcome).Inc()
}

// RecordTaskRetry counts a background task retry
func RecordTaskRetry(task string) {
	GetCollector().TaskRetries.WithLabelValues(task).Inc()
}
