package v1

import (
	"net/http"

	"bridgegen/internal/response"
	"bridgegen/internal/services"
)

// AuthController handles registration and login
type AuthController struct {
	auth    services.AuthService
	builder *response.Builder
}

// NewAuthController creates a new auth controller
func NewAuthController(auth services.AuthService, builder *response.Builder) *AuthController {
	return &AuthController{auth: auth, builder: builder}
}

// Register handles POST /api/v1/auth/register
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		c.builder.BadRequest(w, r, "invalid request body")
		return
	}

	user, err := c.auth.Register(r.Context(), &req)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Created(w, r, user)
}

// Login handles POST /api/v1/auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		c.builder.BadRequest(w, r, "invalid request body")
		return
	}

	result, err := c.auth.Login(r.Context(), &req)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, result)
}

// Me handles GET /api/v1/auth/me
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(c.builder, w, r)
	if !ok {
		return
	}

	user, err := c.auth.GetUser(r.Context(), userID)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, user)
}
