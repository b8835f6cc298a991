// Package metrics contains prometheus metrics of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "veil"

// Metrics is a set of service metrics. Nil *Metrics is valid and records nothing.
type Metrics struct {
	reg *prometheus.Registry

	resolutions     *prometheus.CounterVec
	resolveFailures *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	permissionTasks *prometheus.CounterVec
	eventsDropped   *prometheus.CounterVec
	eventsSaved     prometheus.Counter
}

// New creates metrics registered in their own registry with go and process collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "avatar_resolutions_total",
			Help:      "Total number of avatar resolutions by result type.",
		}, []string{"type"}),
		resolveFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "avatar_resolve_failures_total",
			Help:      "Total number of degraded avatar resolutions by failure code.",
		}, []string{"code"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Total number of access cache lookups.",
		}, []string{"kind", "status"}),
		permissionTasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "permission_tasks_total",
			Help:      "Total number of enqueued permission tasks.",
		}, []string{"action", "status"}),
		eventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telemetry_events_dropped_total",
			Help:      "Total number of dropped telemetry events.",
		}, []string{"reason"}),
		eventsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telemetry_events_saved_total",
			Help:      "Total number of saved telemetry events.",
		}),
	}

	m.reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		m.resolutions,
		m.resolveFailures,
		m.cacheLookups,
		m.permissionTasks,
		m.eventsDropped,
		m.eventsSaved,
	)

	return m
}

// Handler returns http handler exposing metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Resolved ...
func (m *Metrics) Resolved(resultType string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(resultType).Inc()
}

// ResolveFailed ...
func (m *Metrics) ResolveFailed(code string) {
	if m == nil {
		return
	}
	m.resolveFailures.WithLabelValues(code).Inc()
}

// CacheLookup ...
func (m *Metrics) CacheLookup(kind string, hit bool) {
	if m == nil {
		return
	}

	status := "miss"
	if hit {
		status = "hit"
	}
	m.cacheLookups.WithLabelValues(kind, status).Inc()
}

// PermissionTask ...
func (m *Metrics) PermissionTask(action string, err error) {
	if m == nil {
		return
	}

	status := "ok"
	if err != nil {
		status = "failed"
	}
	m.permissionTasks.WithLabelValues(action, status).Inc()
}

// EventDropped is part of telemetry.Metrics interface.
func (m *Metrics) EventDropped(reason string) {
	if m == nil {
		return
	}
	m.eventsDropped.WithLabelValues(reason).Inc()
}

// EventsSaved is part of telemetry.Metrics interface.
func (m *Metrics) EventsSaved(n int) {
	if m == nil {
		return
	}
	m.eventsSaved.Add(float64(n))
}
