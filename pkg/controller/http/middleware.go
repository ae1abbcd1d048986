package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/secmon-lab/recmu/pkg/utils/logging"
)

// requestLogger embeds a logger tagged with the request ID into the request
// context so that panel and query logs can be correlated with access logs
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.Default()
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			logger = logger.With("request_id", reqID)
		}
		ctx := logging.With(r.Context(), logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
