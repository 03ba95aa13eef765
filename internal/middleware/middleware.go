package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// Chain applies middleware in declaration order: the first listed runs
// outermost.
func Chain(handler http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// Standard returns the middleware stack every request passes through
func Standard(logger *zap.Logger) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		RequestID,
		Recovery(logger),
		StructuredLogger(logger),
		SecurityHeaders,
		CORS,
	}
}
