// Package observability carries the HTTP and scheduler telemetry: zap
// request logging and prometheus metrics.
package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics captures request counts and latency by route.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics() *HTTPMetrics {
	return newHTTPMetrics(prometheus.DefaultRegisterer)
}

func newHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	factory := promauto.With(reg)
	return &HTTPMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "subsense_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "subsense_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// GinMiddleware records one observation per request. Unmatched routes are
// collapsed into a single label to keep cardinality bounded.
func (m *HTTPMetrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}

// SchedulerMetrics captures reminder job health signals.
type SchedulerMetrics struct {
	runs     *prometheus.CounterVec
	duration prometheus.Histogram
	recorded prometheus.Counter
}

var (
	schedulerMetricsOnce sync.Once
	schedulerMetrics     *SchedulerMetrics
)

// Scheduler returns the singleton scheduler metrics registry.
func Scheduler() *SchedulerMetrics {
	schedulerMetricsOnce.Do(func() {
		schedulerMetrics = newSchedulerMetrics(prometheus.DefaultRegisterer)
	})
	return schedulerMetrics
}

func newSchedulerMetrics(reg prometheus.Registerer) *SchedulerMetrics {
	factory := promauto.With(reg)
	return &SchedulerMetrics{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "subsense_scheduler_runs_total",
			Help: "Scheduler job runs by job and outcome.",
		}, []string{"job", "status"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "subsense_scheduler_run_duration_seconds",
			Help:    "Scheduler job run latency.",
			Buckets: prometheus.DefBuckets,
		}),
		recorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "subsense_reminders_recorded_total",
			Help: "Reminder events recorded by the scan job.",
		}),
	}
}

func (m *SchedulerMetrics) ObserveRun(job string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.runs.WithLabelValues(job, status).Inc()
	m.duration.Observe(duration.Seconds())
}

func (m *SchedulerMetrics) AddRemindersRecorded(n int) {
	if n > 0 {
		m.recorded.Add(float64(n))
	}
}
