package response

import (
	"encoding/json"
	"net/http"
	"time"

	"bridgegen/internal/contextutils"
	"bridgegen/internal/models"
	"bridgegen/internal/services"

	"go.uber.org/zap"
)

// ===============================
// RESPONSE TYPES
// ===============================

// APIResponse represents a standardized API response envelope
type APIResponse struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp int64        `json:"timestamp,omitempty"`
}

// ErrorDetail represents error information in API responses
type ErrorDetail struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ===============================
// RESPONSE BUILDER
// ===============================

// Builder writes API responses with consistent envelopes
type Builder struct {
	logger          *zap.Logger
	maskInternal    bool
	includeMetadata bool
}

// NewBuilder creates a response builder
func NewBuilder(logger *zap.Logger, production bool) *Builder {
	return &Builder{
		logger:          logger,
		maskInternal:    production,
		includeMetadata: true,
	}
}

// Success writes a successful response
func (b *Builder) Success(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	b.write(w, r, status, &APIResponse{
		Success: true,
		Data:    data,
	})
}

// Created writes a 201 response
func (b *Builder) Created(w http.ResponseWriter, r *http.Request, data interface{}) {
	b.Success(w, r, http.StatusCreated, data)
}

// NoContent writes a 204 response
func (b *Builder) NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Paginated writes a paginated listing response
func Paginated[T any](b *Builder, w http.ResponseWriter, r *http.Request, page *models.PaginatedResponse[T]) {
	b.Success(w, r, http.StatusOK, page)
}

// Error writes an error response, translating service errors to their
// HTTP status. Internal causes are masked in production.
func (b *Builder) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	detail := &ErrorDetail{
		Type:    "INTERNAL_ERROR",
		Message: "An unexpected error occurred",
	}

	if se, ok := services.AsServiceError(err); ok {
		status = se.GetStatusCode()
		detail.Type = se.Type
		detail.Code = se.Code
		detail.Details = se.Details
		if status < http.StatusInternalServerError || !b.maskInternal {
			detail.Message = se.Message
		}
	} else if !b.maskInternal {
		detail.Message = err.Error()
	}

	if status >= http.StatusInternalServerError {
		b.logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", contextutils.GetRequestID(r.Context())),
			zap.Error(err),
		)
	}

	b.write(w, r, status, &APIResponse{
		Success: false,
		Error:   detail,
	})
}

// BadRequest writes a 400 response with a plain message
func (b *Builder) BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	b.Error(w, r, services.NewValidationError(message, nil))
}

func (b *Builder) write(w http.ResponseWriter, r *http.Request, status int, resp *APIResponse) {
	if b.includeMetadata {
		resp.RequestID = contextutils.GetRequestID(r.Context())
		resp.Timestamp = time.Now().Unix()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		b.logger.Error("Failed to encode response", zap.Error(err))
	}
}
