package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "modelq"

// unmatchedRoute labels requests chi could not route, keeping raw paths out
// of the label space.
const unmatchedRoute = "unmatched"

// httpMetrics groups the collectors of the HTTP layer.
type httpMetrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	inflight     *prometheus.GaugeVec
	waitTimeouts *prometheus.CounterVec
}

func newHTTPMetrics() *httpMetrics {
	return &httpMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, including time spent queued",
			// Completions wait behind the queue, so the tail reaches minutes.
			Buckets: prometheus.ExponentialBuckets(0.005, 3, 12),
		}, []string{"route", "method"}),
		inflight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "HTTP requests being served, by method",
		}, []string{"method"}),
		waitTimeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "wait_timeouts_total",
			Help:      "Requests answered with 504 while still queued",
		}, []string{"op"}),
	}
}

func (m *httpMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.requests, m.duration, m.inflight, m.waitTimeouts}
}

var metrics = newHTTPMetrics()

func init() {
	prometheus.MustRegister(metrics.collectors()...)
}

// statusRecorder captures the status code; handlers that only Write get 200.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.status == 0 {
		sr.status = code
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	return sr.ResponseWriter.Write(b)
}

func (sr *statusRecorder) code() int {
	if sr.status == 0 {
		return http.StatusOK
	}
	return sr.status
}

// MetricsMiddleware records count, latency and in-flight gauges per route.
// It must wrap the chi router so the route pattern is resolved by the time
// the request completes.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g := metrics.inflight.WithLabelValues(r.Method)
		g.Inc()
		defer g.Dec()

		sr := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(sr, r)

		route := routeLabel(r)
		metrics.requests.WithLabelValues(route, r.Method, strconv.Itoa(sr.code())).Inc()
		metrics.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

func routeLabel(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}

// IncrementWaitTimeout counts a handler giving up on a queued request.
func IncrementWaitTimeout(op string) {
	if op == "" {
		op = "unspecified"
	}
	metrics.waitTimeouts.WithLabelValues(op).Inc()
}
