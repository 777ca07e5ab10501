package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/upb/secure-access-gateway/internal/observability"
)

// RequestLogger logs one structured line per request and records its latency.
// It also copies chi's request ID into the context under RequestIDKey.
func RequestLogger(logger *zap.Logger, metrics *observability.Metrics) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := chimiddleware.GetReqID(r.Context())
			if requestID != "" {
				r = r.WithContext(WithRequestID(r.Context(), requestID))
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			metrics.ObserveRequest(r.Method, status, elapsed)

			logger.Info("request completed",
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", elapsed))
		})
	}
}
