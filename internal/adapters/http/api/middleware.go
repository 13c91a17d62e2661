package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/weekplan/pkg/metrics"
)

// MetricsMiddleware records request count and latency per endpoint. Error
// responses are counted under the code the handler put in the body, so a
// rejected interval and a store outage land in different series.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Milliseconds())
		statusCodeStr := strconv.Itoa(wrapped.statusCode)

		metrics.RecordHTTPRequest(endpoint, r.Method, statusCodeStr)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, statusCodeStr, durationMs)

		if wrapped.statusCode >= http.StatusBadRequest {
			metrics.RecordHTTPError(endpoint, r.Method, errorType(wrapped))
		}
	}
}

// errorType prefers the body's error code and falls back to the status.
func errorType(rw *responseWriter) string {
	if rw.errorCode != "" {
		return rw.errorCode
	}
	switch code := rw.statusCode; {
	case code >= http.StatusInternalServerError:
		return "server_error"
	case code == http.StatusConflict:
		// Only the submission guard answers 409: the form already has a save in flight.
		return "submission_pending"
	case code == http.StatusNotFound:
		return "not_found"
	case code == http.StatusMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "client_error"
	}
}

// noteError tags the response with the code written in its error body.
func noteError(w http.ResponseWriter, code string) {
	if rw, ok := w.(*responseWriter); ok {
		rw.errorCode = code
	}
}

// responseWriter captures the status and error code of a response.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	errorCode  string
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("failed to write response: %w", err)
	}
	return n, nil
}
