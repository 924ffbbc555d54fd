// Package metrics exposes the Prometheus instruments of the booking service
// on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/shareit/internal/domain"
)

// Metrics holds the booking counters and the HTTP latency histogram.
// It satisfies service.Observer.
type Metrics struct {
	reg       *prometheus.Registry
	created   prometheus.Counter
	decisions *prometheus.CounterVec
	conflicts prometheus.Counter
	duration  *prometheus.HistogramVec
}

// New registers every instrument on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		created: f.NewCounter(prometheus.CounterOpts{
			Name: "shareit_bookings_created_total",
			Help: "Total number of bookings created.",
		}),
		decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "shareit_booking_decisions_total",
			Help: "Total number of owner decisions, by resulting status.",
		}, []string{"status"}),
		conflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "shareit_booking_conflicts_total",
			Help: "Total number of booking requests refused for overlapping an existing booking.",
		}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shareit_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route pattern, and status.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.3, 0.6, 1, 3},
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) BookingCreated()  { m.created.Inc() }
func (m *Metrics) BookingConflict() { m.conflicts.Inc() }

func (m *Metrics) BookingDecided(status domain.BookingStatus) {
	m.decisions.WithLabelValues(string(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Middleware observes request latency. The route label is the chi route
// pattern, not the raw path, so ids do not explode the label set.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.duration.WithLabelValues(r.Method, route, strconv.Itoa(status(ww))).
			Observe(time.Since(start).Seconds())
	})
}

// status is the code sent to the client; 200 when the handler never wrote.
func status(ww chimiddleware.WrapResponseWriter) int {
	if ww.Status() == 0 {
		return http.StatusOK
	}
	return ww.Status()
}
