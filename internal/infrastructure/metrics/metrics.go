// Package metrics holds the Prometheus collectors for the HTTP layer and the
// task list domain. A nil *Metrics is valid and records nothing.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tasklists"

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics owns a private registry and every collector registered on it.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	taskListsCreated  prometheus.Counter
	tasksCreated      prometheus.Counter
	dueDateRejections prometheus.Counter
	missingTaskLists  prometheus.Counter
	cacheLookups      *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		taskListsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasklists_created_total",
			Help:      "Task lists created",
		}),
		tasksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_created_total",
			Help:      "Tasks created",
		}),
		dueDateRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_due_date_rejections_total",
			Help:      "Tasks rejected because the due date falls before the period end",
		}),
		missingTaskLists: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_list_missing_references_total",
			Help:      "Listed tasks whose task list no longer exists",
		}),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "task_list_cache_lookups_total",
				Help:      "Task list name cache lookups by result",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestDuration,
		m.taskListsCreated,
		m.tasksCreated,
		m.dueDateRejections,
		m.missingTaskLists,
		m.cacheLookups,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, path, fmt.Sprintf("%d", status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func (m *Metrics) TaskListCreated() {
	if m == nil {
		return
	}
	m.taskListsCreated.Inc()
}

func (m *Metrics) TaskCreated() {
	if m == nil {
		return
	}
	m.tasksCreated.Inc()
}

func (m *Metrics) DueDateRejected() {
	if m == nil {
		return
	}
	m.dueDateRejections.Inc()
}

func (m *Metrics) MissingTaskList() {
	if m == nil {
		return
	}
	m.missingTaskLists.Inc()
}

// CacheLookup records n lookups with the given result.
func (m *Metrics) CacheLookup(result string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.cacheLookups.WithLabelValues(result).Add(float64(n))
}
