package middleware

import (
	"net/http"
	"strings"

	"bridgegen/internal/contextutils"
	"bridgegen/internal/models"
	"bridgegen/internal/services"
)

// authMiddleware attaches request-scoped identity from bearer tokens.
// Identity lives only on the request context; there is no shared
// session state.
type authMiddleware struct {
	auth services.AuthService
}

// NewAuthMiddleware creates the auth middleware
func NewAuthMiddleware(auth services.AuthService) *authMiddleware {
	return &authMiddleware{auth: auth}
}

// Optional attaches the identity when a valid token is present but
// lets anonymous requests through.
func (m *authMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := m.claimsFrom(r); claims != nil {
			ctx := contextutils.WithUserID(r.Context(), claims.UserID)
			ctx = contextutils.WithUserRole(ctx, claims.Role)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// Required rejects requests without a valid token
func (m *authMiddleware) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := m.claimsFrom(r)
		if claims == nil {
			writeAuthError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		ctx := contextutils.WithUserID(r.Context(), claims.UserID)
		ctx = contextutils.WithUserRole(ctx, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests from non-admin roles
func (m *authMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.Required(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := contextutils.GetUserRole(r.Context())
		if role != models.RoleModerator && role != models.RoleOrganizer {
			writeAuthError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func (m *authMiddleware) claimsFrom(r *http.Request) *services.TokenClaims {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil
	}

	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return nil
	}

	claims, err := m.auth.VerifyToken(r.Context(), token)
	if err != nil {
		return nil
	}
	return claims
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"success":false,"error":{"type":"UNAUTHORIZED","message":"` + message + `"}}`))
}
