package middleware

import (
	"net/http"
	"time"

	"catalog-admin-go/pkg/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLog writes one structured record per request. 5xx responses are
// logged at error level, 4xx at warn.
func RequestLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(started).Milliseconds(),
				"request_id", chimw.GetReqID(r.Context()),
			}

			switch {
			case status >= http.StatusInternalServerError:
				log.Error("http: request", args...)
			case status >= http.StatusBadRequest:
				log.Warn("http: request", args...)
			default:
				log.Info("http: request", args...)
			}
		})
	}
}
