package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Ethan1812/pdf-edit-online/kit"
	"github.com/Ethan1812/pdf-edit-online/observability"
)

// RequestLogger emits one slog line per request and, when events is non-nil,
// persists the request to the observability store. Same non-blocking policy
// as the event logger itself. The request id and remote address are placed in
// the context so downstream event records can carry them.
func RequestLogger(logger *slog.Logger, events *observability.EventLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			ctx := kit.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
			ctx = kit.WithRemoteAddr(ctx, r.RemoteAddr)
			r = r.WithContext(ctx)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", duration.Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()))

			if events != nil {
				events.LogRequest(r.Context(), middleware.GetReqID(r.Context()),
					r.Method, r.URL.Path, ww.Status(), duration, r.RemoteAddr)
			}
		})
	}
}
