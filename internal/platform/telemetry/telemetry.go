// Package telemetry exposes Prometheus metrics for the HTTP server, model
// predictions, passcode issuance and outgoing mail.
package telemetry

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thyrotrack/thyrotrack/internal/platform/middleware"
)

const namespace = "thyrotrack"

// Collector owns a dedicated registry so tests can build as many as they like.
type Collector struct {
	Registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlight        prometheus.Gauge

	PredictionsTotal *prometheus.CounterVec
	OTPIssuedTotal   *prometheus.CounterVec
	EmailsSentTotal  *prometheus.CounterVec
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Collector{
		Registry: reg,

		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method", "route", "status"}),

		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		PredictionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "predictions_total",
			Help:      "Model predictions served, by model.",
		}, []string{"model"}),

		OTPIssuedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "otp_issued_total",
			Help:      "One-time passcodes issued, by purpose.",
		}, []string{"purpose"}),

		EmailsSentTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mail",
			Name:      "emails_sent_total",
			Help:      "Outgoing emails by template and delivery status.",
		}, []string{"template", "status"}),
	}
}

// Prediction counts one served prediction. Safe on a nil Collector.
func (m *Collector) Prediction(model string) {
	if m == nil {
		return
	}
	m.PredictionsTotal.WithLabelValues(model).Inc()
}

// OTPIssued counts one issued passcode. Safe on a nil Collector.
func (m *Collector) OTPIssued(purpose string) {
	if m == nil {
		return
	}
	m.OTPIssuedTotal.WithLabelValues(purpose).Inc()
}

// EmailSent counts one delivery attempt. Safe on a nil Collector.
func (m *Collector) EmailSent(template string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.EmailsSentTotal.WithLabelValues(template, status).Inc()
}

// Middleware records request counts and latency by route pattern.
func (m *Collector) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.InFlight.Inc()
			start := time.Now()

			err := next(c)

			m.InFlight.Dec()
			status := c.Response().Status
			if err != nil {
				status = middleware.StatusOf(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			labels := []string{c.Request().Method, route, strconv.Itoa(status)}
			m.RequestsTotal.WithLabelValues(labels...).Inc()
			m.RequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Collector) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}
