package middleware

import (
	"net/http"

	"bridgegen/internal/contextutils"

	"github.com/gofrs/uuid"
)

// RequestIDHeader is the header carrying the request correlation ID
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request a correlation ID, honoring one
// supplied by the client.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			if v4, err := uuid.NewV4(); err == nil {
				requestID = v4.String()
			}
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := contextutils.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
