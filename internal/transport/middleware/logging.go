package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/task-management/pkg/logger"
)

const filtered = "[FILTERED]"

// maxLoggedBody caps how much of a form body is read for logging.
const maxLoggedBody = 64 << 10

// sensitiveFields are matched as substrings of lower-cased header and form keys.
var sensitiveFields = []string{
	"password",
	"token",
	"authorization",
	"cookie",
	"secret",
	"session",
	"credential",
}

// LoggingMiddleware logs every request and its outcome through the request
// logger, with credentials masked.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger.From(r.Context())

		log.Info("incoming request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
			"headers", filterSensitiveHeaders(r.Header),
			"form", readForm(r),
		)

		ww := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(ww, r)

		status := ww.Status()
		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}

		log.Log(r.Context(), level, "response",
			"status_code", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"response_size", ww.size,
			"location", ww.Header().Get("Location"),
		)
	})
}

// responseWriter records the status code and body size.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.statusCode == 0 {
		rw.statusCode = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func (rw *responseWriter) Status() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}
	return rw.statusCode
}

// readForm returns the masked url-encoded body and puts the bytes back for the
// handler. Other content types are not logged.
func readForm(r *http.Request) map[string]string {
	if r.Body == nil || !strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
	rest := r.Body
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(body), rest), rest}
	if err != nil {
		return nil
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil
	}
	return filterSensitiveValues(values)
}

func filterSensitiveHeaders(headers http.Header) map[string]string {
	return filterSensitiveValues(map[string][]string(headers))
}

func filterSensitiveValues(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for name, v := range values {
		if isSensitive(name) {
			out[name] = filtered
			continue
		}
		out[name] = strings.Join(v, ", ")
	}
	return out
}

func isSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}
