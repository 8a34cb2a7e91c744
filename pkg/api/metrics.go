package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Codec metrics
	recordsDecodedTotal   prometheus.Counter
	decodeErrorsTotal     *prometheus.CounterVec
	payloadBytesTotal     *prometheus.CounterVec
	validationRunsTotal   *prometheus.CounterVec
	schemaViolationsTotal *prometheus.CounterVec

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec

	// Health check metrics
	healthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dmapio_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dmapio_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dmapio_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		recordsDecodedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "dmapio_records_decoded_total",
				Help: "Total number of DMap records decoded",
			},
		),

		decodeErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dmapio_decode_errors_total",
				Help: "Total number of DMap decode failures",
			},
			[]string{"kind"},
		),

		payloadBytesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dmapio_payload_bytes_total",
				Help: "Total uploaded payload bytes by compression",
			},
			[]string{"compression"},
		),

		validationRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dmapio_validation_runs_total",
				Help: "Total number of schema validation runs",
			},
			[]string{"product", "status"},
		),

		schemaViolationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dmapio_schema_violations_total",
				Help: "Total number of schema violations found",
			},
			[]string{"product"},
		),

		authRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dmapio_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),

		healthChecksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dmapio_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDecode records a decode run
func (m *Metrics) RecordDecode(records int, errKind string) {
	m.recordsDecodedTotal.Add(float64(records))
	if errKind != "" {
		m.decodeErrorsTotal.WithLabelValues(errKind).Inc()
	}
}

// RecordPayload records an uploaded payload
func (m *Metrics) RecordPayload(compression string, bytes int) {
	m.payloadBytesTotal.WithLabelValues(compression).Add(float64(bytes))
}

// RecordValidation records a schema validation run
func (m *Metrics) RecordValidation(product string, violations int) {
	status := statusSuccess
	if violations > 0 {
		status = statusError
		m.schemaViolationsTotal.WithLabelValues(product).Add(float64(violations))
	}
	m.validationRunsTotal.WithLabelValues(product, status).Inc()
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.healthChecksTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		// Wrap the response writer to capture the status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		handler(rw, r)

		duration := time.Since(start)
		m.RecordHTTPRequest(method, endpoint, rw.statusCode, duration)
	}
}

// InstrumentAuthMiddleware instruments the authentication middleware
func (m *Metrics) InstrumentAuthMiddleware(next func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")
			hasAPIKey := apiKey != ""

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next(h).ServeHTTP(rw, r)

			if hasAPIKey {
				m.RecordAuthRequest(rw.statusCode != http.StatusUnauthorized)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
