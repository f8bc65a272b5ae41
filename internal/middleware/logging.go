package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger returns a middleware that logs every HTTP request.
// It logs the method, path, status code, response size, duration, and request ID.
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimiddleware.GetReqID(r.Context()),
			}

			switch {
			case ww.Status() >= http.StatusInternalServerError:
				slog.Error("request failed", attrs...)
			case ww.Status() >= http.StatusBadRequest:
				slog.Warn("request rejected", attrs...)
			default:
				slog.Info("request ok", attrs...)
			}
		})
	}
}
