package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"bridgegen/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

var allowedMediaExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".webp", ".mp4", ".mov", ".mp3", ".wav",
}

// mediaService implements MediaService backed by Cloudinary
type mediaService struct {
	client *cloudinary.Cloudinary
	config *config.MediaConfig
	logger *zap.Logger
}

// NewMediaService creates a new media service
func NewMediaService(cfg *config.MediaConfig, logger *zap.Logger) (MediaService, error) {
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media client: %w", err)
	}
	return &mediaService{
		client: client,
		config: cfg,
		logger: logger,
	}, nil
}

// Upload stores a media file and returns its hosted location. Transient
// upload failures retry with exponential backoff.
func (s *mediaService) Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(req.Filename))
	if !slices.Contains(allowedMediaExtensions, ext) {
		return nil, NewValidationError(fmt.Sprintf("unsupported file type: %s", ext), nil)
	}
	if req.Size > s.config.MaxFileSize {
		return nil, NewValidationError(
			fmt.Sprintf("file exceeds the %d MB limit", s.config.MaxFileSize/(1024*1024)), nil)
	}

	folder := s.config.UploadFolder
	if req.Folder != "" {
		folder = fmt.Sprintf("%s/%s", s.config.UploadFolder, req.Folder)
	}

	params := uploader.UploadParams{
		Folder:         folder,
		ResourceType:   "auto",
		UseFilename:    api.Bool(false),
		UniqueFilename: api.Bool(true),
	}

	var result *uploader.UploadResult
	operation := func() error {
		uploadCtx, cancel := context.WithTimeout(ctx, s.config.UploadTimeout)
		defer cancel()

		var err error
		result, err = s.client.Upload.Upload(uploadCtx, req.Reader, params)
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(s.config.MaxRetries)),
		ctx,
	)
	notify := func(err error, next time.Duration) {
		s.logger.Warn("Media upload failed, retrying",
			zap.String("filename", req.Filename),
			zap.Duration("next_attempt_in", next),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		s.logger.Error("Media upload failed",
			zap.String("filename", req.Filename),
			zap.Error(err),
		)
		return nil, WrapInternalError("failed to upload media", err)
	}

	s.logger.Info("Media uploaded",
		zap.String("public_id", result.PublicID),
		zap.Int("bytes", result.Bytes),
	)

	return &UploadResult{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
		Format:   result.Format,
		Bytes:    int64(result.Bytes),
	}, nil
}

// Delete removes a hosted media file
func (s *mediaService) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return NewValidationError("public ID is required", nil)
	}

	deleteCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := s.client.Upload.Destroy(deleteCtx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return WrapInternalError("failed to delete media", err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		s.logger.Warn("Media deletion result was not OK",
			zap.String("public_id", publicID),
			zap.String("result", result.Result),
		)
	}
	return nil
}
