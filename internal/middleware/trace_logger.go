package middleware

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// loggerKey is the context key for the request-scoped logger.
type loggerKey struct{}

// WithTraceLogger returns middleware that attaches a trace-id annotated
// logger to the request context when a span is active.
func WithTraceLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			span := trace.SpanFromContext(r.Context())
			if span.SpanContext().IsValid() {
				tracedLogger := logger.With(
					zap.String("trace_id", span.SpanContext().TraceID().String()),
					zap.String("span_id", span.SpanContext().SpanID().String()),
				)
				ctx := context.WithValue(r.Context(), loggerKey{}, tracedLogger)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoggerFromRequest retrieves the request-scoped logger, falling back to the
// provided logger when none is attached.
func LoggerFromRequest(r *http.Request, fallback *zap.Logger) *zap.Logger {
	if logger, ok := r.Context().Value(loggerKey{}).(*zap.Logger); ok {
		return logger
	}
	return fallback
}
