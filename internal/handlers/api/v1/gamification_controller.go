package v1

import (
	"net/http"

	"bridgegen/internal/response"
	"bridgegen/internal/services"
)

// GamificationController handles badge and achievement endpoints
type GamificationController struct {
	gamification services.GamificationService
	builder      *response.Builder
}

// NewGamificationController creates a new gamification controller
func NewGamificationController(gamification services.GamificationService, builder *response.Builder) *GamificationController {
	return &GamificationController{gamification: gamification, builder: builder}
}

// ===============================
// USER-FACING ENDPOINTS
// ===============================

// Catalog handles GET /api/v1/badges
func (c *GamificationController) Catalog(w http.ResponseWriter, r *http.Request) {
	badges, err := c.gamification.GetBadgeCatalog(r.Context())
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, badges)
}

// Achievements handles GET /api/v1/achievements — the public list of
// active achievement rules.
func (c *GamificationController) Achievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := c.gamification.ListAchievements(r.Context(), true)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, achievements)
}

// UserBadges handles GET /api/v1/users/{id}/badges?sort=newest|rarity|alphabetical
func (c *GamificationController) UserBadges(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid user ID")
		return
	}

	earned, err := c.gamification.GetUserBadges(r.Context(), userID, r.URL.Query().Get("sort"))
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, earned)
}

// MyBadges handles GET /api/v1/me/badges?sort=newest|rarity|alphabetical
func (c *GamificationController) MyBadges(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(c.builder, w, r)
	if !ok {
		return
	}

	earned, err := c.gamification.GetUserBadges(r.Context(), userID, r.URL.Query().Get("sort"))
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, earned)
}

// MyAchievements handles GET /api/v1/me/achievements
func (c *GamificationController) MyAchievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(c.builder, w, r)
	if !ok {
		return
	}

	earned, err := c.gamification.GetUserAchievements(r.Context(), userID)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, earned)
}

// MyStats handles GET /api/v1/me/stats
func (c *GamificationController) MyStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(c.builder, w, r)
	if !ok {
		return
	}

	stats, err := c.gamification.GetUserStats(r.Context(), userID)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, stats)
}

// ===============================
// ADMIN ENDPOINTS
// ===============================

// CreateBadge handles POST /api/v1/admin/badges
func (c *GamificationController) CreateBadge(w http.ResponseWriter, r *http.Request) {
	var req services.BadgeRequest
	if err := decodeJSON(r, &req); err != nil {
		c.builder.BadRequest(w, r, "invalid request body")
		return
	}

	badge, err := c.gamification.CreateBadge(r.Context(), &req)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Created(w, r, badge)
}

// UpdateBadge handles PUT /api/v1/admin/badges/{id}
func (c *GamificationController) UpdateBadge(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid badge ID")
		return
	}

	var req services.BadgeRequest
	if err := decodeJSON(r, &req); err != nil {
		c.builder.BadRequest(w, r, "invalid request body")
		return
	}

	badge, err := c.gamification.UpdateBadge(r.Context(), id, &req)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, badge)
}

// DeleteBadge handles DELETE /api/v1/admin/badges/{id}
func (c *GamificationController) DeleteBadge(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid badge ID")
		return
	}

	if err := c.gamification.DeleteBadge(r.Context(), id); err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.NoContent(w)
}

// ListAchievements handles GET /api/v1/admin/achievements
func (c *GamificationController) ListAchievements(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	achievements, err := c.gamification.ListAchievements(r.Context(), activeOnly)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, achievements)
}

// CreateAchievement handles POST /api/v1/admin/achievements
func (c *GamificationController) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	var req services.AchievementRequest
	if err := decodeJSON(r, &req); err != nil {
		c.builder.BadRequest(w, r, "invalid request body")
		return
	}

	achievement, err := c.gamification.CreateAchievement(r.Context(), &req)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Created(w, r, achievement)
}

// UpdateAchievement handles PUT /api/v1/admin/achievements/{id}
func (c *GamificationController) UpdateAchievement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid achievement ID")
		return
	}

	var req services.AchievementRequest
	if err := decodeJSON(r, &req); err != nil {
		c.builder.BadRequest(w, r, "invalid request body")
		return
	}

	achievement, err := c.gamification.UpdateAchievement(r.Context(), id, &req)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, achievement)
}

// DeleteAchievement handles DELETE /api/v1/admin/achievements/{id}
func (c *GamificationController) DeleteAchievement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid achievement ID")
		return
	}

	if err := c.gamification.DeleteAchievement(r.Context(), id); err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.NoContent(w)
}
