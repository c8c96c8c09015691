package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"imagequery/internal/domain"
	"imagequery/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrMissingAsset), errors.Is(err, domain.ErrMissingUserPrompt):
		return http.StatusBadRequest, "SUBMIT_PRECONDITION", domain.SubmitNotice
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND", "form session not found; reload the page"
	case errors.Is(err, domain.ErrAssetNotFound):
		return http.StatusNotFound, "ASSET_NOT_FOUND", "asset not found"
	case errors.Is(err, domain.ErrUnknownModel):
		return http.StatusBadRequest, "UNKNOWN_MODEL", "unknown model; allowed: haiku, sonnet"
	case errors.Is(err, domain.ErrInvalidParameter):
		return http.StatusBadRequest, "INVALID_PARAMETER", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get(middleware.ContextKeyRequestID)
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}

// sessionFromContext extracts the page session ID.
// Returns false if it is missing (error response already written).
func sessionFromContext(c *gin.Context) (uuid.UUID, bool) {
	id, err := middleware.GetSessionID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_SESSION", "missing form session")
		return uuid.Nil, false
	}
	return id, true
}
