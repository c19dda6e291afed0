// Package telemetry exposes prometheus metrics for board operations and
// HTTP request timing. The collectors are registered on the default
// registry and served by promhttp in main.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	opsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "calcboard_board_operations_total",
		Help: "Board operations by op and outcome.",
	}, []string{"op", "outcome"})

	storageFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "calcboard_storage_failures_total",
		Help: "Storage adapter read/write failures.",
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "calcboard_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})
)

// RecordOp counts one board operation. outcome is "ok", "validation",
// "not_found", "unauthorized" or "storage".
func RecordOp(op, outcome string) {
	opsTotal.WithLabelValues(op, outcome).Inc()
}

// RecordStorageFailure counts one failed adapter call.
func RecordStorageFailure() {
	storageFailures.Inc()
}

// Middleware wraps next and observes request latency by method and
// response status.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(srw, r)
		requestDuration.
			WithLabelValues(r.Method, strconv.Itoa(srw.status)).
			Observe(time.Since(start).Seconds())
	})
}

// statusRecorder captures the response status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
