// Package metrics exports Prometheus counters for setting changes,
// persistence and the remote API.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"linkcfg/pkg/settings"
)

// Metrics holds all collectors of a process.
type Metrics struct {
	SettingChanges   *prometheus.CounterVec
	CommandsExecuted *prometheus.CounterVec
	StoreCommits     prometheus.Counter
	StoreErrors      *prometheus.CounterVec

	RequestsTotal *prometheus.CounterVec
	WSConnections prometheus.Gauge

	registry *prometheus.Registry
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SettingChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "linkcfg_setting_changes_total",
			Help: "Number of setting value changes",
		}, []string{"key"}),
		CommandsExecuted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "linkcfg_commands_executed_total",
			Help: "Number of executed command settings",
		}, []string{"key"}),
		StoreCommits: f.NewCounter(prometheus.CounterOpts{
			Name: "linkcfg_store_commits_total",
			Help: "Number of successful persistence commits",
		}),
		StoreErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "linkcfg_store_errors_total",
			Help: "Number of failed persistence operations",
		}, []string{"op"}),
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "linkcfg_http_requests_total",
			Help: "Number of remote API requests",
		}, []string{"method", "status"}),
		WSConnections: f.NewGauge(prometheus.GaugeOpts{
			Name: "linkcfg_ws_connections",
			Help: "Number of open change stream connections",
		}),
	}
}

// Registry returns the Prometheus registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Attach counts every change of r. The returned function detaches.
func (m *Metrics) Attach(r *settings.Registry) (detach func()) {
	r.AddListener(onChange, m)
	return func() { r.RemoveListener(onChange, m) }
}

func onChange(s *settings.Setting, data any) {
	m := data.(*Metrics)
	if s.IsCommand() {
		m.CommandsExecuted.WithLabelValues(s.Key).Inc()
		return
	}
	m.SettingChanges.WithLabelValues(s.Key).Inc()
}

// Middleware counts API requests by method and status.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.RequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}
