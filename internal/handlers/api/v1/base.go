package v1

import (
	"encoding/json"
	"net/http"
	"strconv"

	"bridgegen/internal/contextutils"
	"bridgegen/internal/models"
	"bridgegen/internal/response"

	"github.com/gorilla/mux"
)

// decodeJSON parses the request body into dest
func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

// pathID extracts a numeric path variable
func pathID(r *http.Request, name string) (int64, bool) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// currentUserID returns the authenticated user, or writes a 401
func currentUserID(b *response.Builder, w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID := contextutils.GetUserID(r.Context())
	if userID == nil {
		b.BadRequest(w, r, "authentication required")
		return 0, false
	}
	return *userID, true
}

// isAdmin reports whether the request carries an admin role
func isAdmin(r *http.Request) bool {
	role := contextutils.GetUserRole(r.Context())
	return role == models.RoleModerator || role == models.RoleOrganizer
}

// queryInt parses an integer query parameter with a default
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
