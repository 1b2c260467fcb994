package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/predboard/pkg/metrics"
)

// MetricsMiddleware records request count, latency and error class for
// every request served by next under the endpoint label.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		observe(endpoint, r.Method, rec.status, float64(time.Since(start).Microseconds())/1000)
	}
}

func observe(endpoint, method string, status int, durationMs float64) {
	code := strconv.Itoa(status)
	metrics.RecordHTTPRequest(endpoint, method, code)
	metrics.RecordHTTPRequestDuration(endpoint, method, code, durationMs)

	if status < http.StatusBadRequest {
		return
	}
	class := errorClass(status)
	metrics.RecordErrorByEndpoint(endpoint, method, class)
	metrics.RecordErrorByType(class, errorSeverity(status))
	metrics.RecordErrorLatency("http", class, durationMs)
}

// errorClass buckets an error status into a low-cardinality label.
func errorClass(status int) string {
	switch status {
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusConflict:
		return "conflict"
	case http.StatusRequestEntityTooLarge:
		return "too_large"
	}
	if status >= http.StatusInternalServerError {
		return "server_error"
	}
	return "client_error"
}

// errorSeverity ranks server faults above refused admin access above the
// rest of the client errors.
func errorSeverity(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "high"
	case status == http.StatusForbidden:
		return "medium"
	default:
		return "low"
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
