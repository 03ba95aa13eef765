package v1

import (
	"net/http"

	"bridgegen/internal/response"
	"bridgegen/internal/services"
)

// MediaController handles media upload endpoints
type MediaController struct {
	media   services.MediaService
	maxSize int64
	builder *response.Builder
}

// NewMediaController creates a new media controller
func NewMediaController(media services.MediaService, maxSize int64, builder *response.Builder) *MediaController {
	return &MediaController{media: media, maxSize: maxSize, builder: builder}
}

// Upload handles POST /api/v1/media
func (c *MediaController) Upload(w http.ResponseWriter, r *http.Request) {
	if c.media == nil {
		c.builder.Error(w, r, services.NewBusinessError("media uploads are not configured", "MEDIA_DISABLED"))
		return
	}
	if _, ok := currentUserID(c.builder, w, r); !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, c.maxSize)
	if err := r.ParseMultipartForm(c.maxSize); err != nil {
		c.builder.BadRequest(w, r, "invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		c.builder.BadRequest(w, r, "a file field is required")
		return
	}
	defer file.Close()

	result, err := c.media.Upload(r.Context(), &services.UploadRequest{
		Reader:   file,
		Filename: header.Filename,
		Size:     header.Size,
		Folder:   r.FormValue("folder"),
	})
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Created(w, r, result)
}
