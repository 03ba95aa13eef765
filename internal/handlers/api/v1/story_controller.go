package v1

import (
	"context"
	"net/http"

	"bridgegen/internal/response"
	"bridgegen/internal/services"
)

// StoryController handles the story lifecycle and engagement endpoints
type StoryController struct {
	stories services.StoryService
	builder *response.Builder
}

// NewStoryController creates a new story controller
func NewStoryController(stories services.StoryService, builder *response.Builder) *StoryController {
	return &StoryController{stories: stories, builder: builder}
}

// Create handles POST /api/v1/stories
func (c *StoryController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(c.builder, w, r)
	if !ok {
		return
	}

	var req services.CreateStoryRequest
	if err := decodeJSON(r, &req); err != nil {
		c.builder.BadRequest(w, r, "invalid request body")
		return
	}
	req.AuthorID = userID

	result, err := c.stories.CreateStory(r.Context(), &req)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Created(w, r, result)
}

// Get handles GET /api/v1/stories/{id}
func (c *StoryController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid story ID")
		return
	}

	story, err := c.stories.GetStory(r.Context(), id)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, story)
}

// List handles GET /api/v1/stories
func (c *StoryController) List(w http.ResponseWriter, r *http.Request) {
	req := &services.ListStoriesRequest{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		SortBy:   r.URL.Query().Get("sort"),
		Page:     queryInt(r, "page", 1),
		PerPage:  queryInt(r, "per_page", 20),
	}

	page, err := c.stories.ListStories(r.Context(), req)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	response.Paginated(c.builder, w, r, page)
}

// Update handles PATCH /api/v1/stories/{id}
func (c *StoryController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(c.builder, w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid story ID")
		return
	}

	var req services.UpdateStoryRequest
	if err := decodeJSON(r, &req); err != nil {
		c.builder.BadRequest(w, r, "invalid request body")
		return
	}
	req.StoryID = id
	req.UserID = userID
	req.IsAdmin = isAdmin(r)

	story, err := c.stories.UpdateStory(r.Context(), &req)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, story)
}

// Delete handles DELETE /api/v1/stories/{id}
func (c *StoryController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(c.builder, w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid story ID")
		return
	}

	if err := c.stories.DeleteStory(r.Context(), userID, id, isAdmin(r)); err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.NoContent(w)
}

// Restore handles POST /api/v1/stories/{id}/restore
func (c *StoryController) Restore(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(c.builder, w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid story ID")
		return
	}

	story, err := c.stories.RestoreStory(r.Context(), userID, id)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, story)
}

// ListDeleted handles GET /api/v1/stories/deleted
func (c *StoryController) ListDeleted(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(c.builder, w, r)
	if !ok {
		return
	}

	stories, err := c.stories.ListDeletedStories(r.Context(), userID)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, stories)
}

// ===============================
// ENGAGEMENT
// ===============================

// Like handles POST /api/v1/stories/{id}/like
func (c *StoryController) Like(w http.ResponseWriter, r *http.Request) {
	c.engage(w, r, c.stories.LikeStory)
}

// Unlike handles DELETE /api/v1/stories/{id}/like
func (c *StoryController) Unlike(w http.ResponseWriter, r *http.Request) {
	c.engage(w, r, c.stories.UnlikeStory)
}

// Share handles POST /api/v1/stories/{id}/share
func (c *StoryController) Share(w http.ResponseWriter, r *http.Request) {
	c.engage(w, r, c.stories.ShareStory)
}

func (c *StoryController) engage(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, userID, storyID int64) (*services.EngagementResult, error),
) {
	userID, ok := currentUserID(c.builder, w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid story ID")
		return
	}

	result, err := action(r.Context(), userID, id)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, result)
}

// ===============================
// MODERATION
// ===============================

// Flag handles POST /api/v1/stories/{id}/flag
func (c *StoryController) Flag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid story ID")
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r, &req); err != nil {
		c.builder.BadRequest(w, r, "invalid request body")
		return
	}

	if err := c.stories.FlagStory(r.Context(), id, req.Reason); err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.NoContent(w)
}

// Unflag handles DELETE /api/v1/stories/{id}/flag (admin)
func (c *StoryController) Unflag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid story ID")
		return
	}

	if err := c.stories.UnflagStory(r.Context(), id); err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.NoContent(w)
}

// ListFlagged handles GET /api/v1/admin/stories/flagged (admin)
func (c *StoryController) ListFlagged(w http.ResponseWriter, r *http.Request) {
	stories, err := c.stories.ListFlaggedStories(r.Context())
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, stories)
}
