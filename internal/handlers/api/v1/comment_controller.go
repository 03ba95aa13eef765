package v1

import (
	"net/http"

	"bridgegen/internal/response"
	"bridgegen/internal/services"
)

// CommentController handles story comment endpoints
type CommentController struct {
	comments services.CommentService
	auth     services.AuthService
	builder  *response.Builder
}

// NewCommentController creates a new comment controller
func NewCommentController(comments services.CommentService, auth services.AuthService, builder *response.Builder) *CommentController {
	return &CommentController{comments: comments, auth: auth, builder: builder}
}

// Create handles POST /api/v1/stories/{id}/comments
func (c *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(c.builder, w, r)
	if !ok {
		return
	}
	storyID, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid story ID")
		return
	}

	var req services.CreateCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		c.builder.BadRequest(w, r, "invalid request body")
		return
	}
	req.StoryID = storyID
	req.AuthorID = userID

	user, err := c.auth.GetUser(r.Context(), userID)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	req.AuthorName = user.Username

	result, err := c.comments.CreateComment(r.Context(), &req)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Created(w, r, result)
}

// List handles GET /api/v1/stories/{id}/comments
func (c *CommentController) List(w http.ResponseWriter, r *http.Request) {
	storyID, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid story ID")
		return
	}

	comments, err := c.comments.ListComments(r.Context(), storyID)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, comments)
}

// Delete handles DELETE /api/v1/comments/{id}
func (c *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(c.builder, w, r)
	if !ok {
		return
	}
	commentID, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid comment ID")
		return
	}

	if err := c.comments.DeleteComment(r.Context(), userID, commentID, isAdmin(r)); err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.NoContent(w)
}
