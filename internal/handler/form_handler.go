package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"imagequery/internal/domain"
	"imagequery/internal/service"
)

// FormHandler exposes the extraction form controller as a JSON API.
type FormHandler struct {
	formService service.FormService
}

// NewFormHandler creates a new FormHandler.
func NewFormHandler(formService service.FormService) *FormHandler {
	return &FormHandler{formService: formService}
}

// Get handles GET /api/v1/form
// @Summary Get form state
// @Description Current state of the caller's form session
// @Tags form
// @Produce json
// @Success 200 {object} FormEnvelope "Form state"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Router /form [get]
func (h *FormHandler) Get(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		return
	}

	state, err := h.formService.Snapshot(c.Request.Context(), sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, toFormView(state))
}

// UploadAsset handles POST /api/v1/form/asset
// @Summary Select an image
// @Description Replace the selected image. The previous result is kept.
// @Tags form
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image to extract from"
// @Success 200 {object} FormEnvelope "Form state"
// @Failure 400 {object} ErrorResponseBody "Missing or unreadable image"
// @Router /form/asset [post]
func (h *FormHandler) UploadAsset(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		return
	}

	input, err := readUpload(c, "image")
	if err != nil {
		if isMissingFile(err) {
			RespondError(c, http.StatusBadRequest, "MISSING_FILE", "image field is required")
			return
		}
		log.Printf("formHandler.UploadAsset: reading upload for session %s: %v", sessionID, err)
		RespondError(c, http.StatusBadRequest, "INVALID_UPLOAD", "the uploaded image could not be read")
		return
	}

	state, err := h.formService.SelectAsset(c.Request.Context(), sessionID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, toFormView(state))
}

// UpdatePrompt handles PUT /api/v1/form/prompt
// @Summary Update prompts
// @Tags form
// @Accept json
// @Produce json
// @Param body body UpdatePromptRequest true "Prompts"
// @Success 200 {object} FormEnvelope "Form state"
// @Failure 400 {object} ErrorResponseBody "Invalid body"
// @Router /form/prompt [put]
func (h *FormHandler) UpdatePrompt(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		return
	}

	var req UpdatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	state, err := h.formService.UpdatePrompt(c.Request.Context(), sessionID, domain.Prompt{
		System: req.SystemPrompt,
		User:   req.UserPrompt,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, toFormView(state))
}

// UpdateModel handles PUT /api/v1/form/model
// @Summary Select a model
// @Tags form
// @Accept json
// @Produce json
// @Param body body UpdateModelRequest true "Model"
// @Success 200 {object} FormEnvelope "Form state"
// @Failure 400 {object} ErrorResponseBody "Unknown model"
// @Router /form/model [put]
func (h *FormHandler) UpdateModel(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		return
	}

	var req UpdateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	state, err := h.formService.UpdateModel(c.Request.Context(), sessionID, req.Model)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, toFormView(state))
}

// UpdateParameters handles PATCH /api/v1/form/parameters
// @Summary Update generation parameters
// @Description Only the fields present in the body change. No range checks are applied.
// @Tags form
// @Accept json
// @Produce json
// @Param body body UpdateParametersRequest true "Parameters"
// @Success 200 {object} FormEnvelope "Form state"
// @Failure 400 {object} ErrorResponseBody "Invalid parameter"
// @Router /form/parameters [patch]
func (h *FormHandler) UpdateParameters(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		return
	}

	var req UpdateParametersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	state, err := h.formService.UpdateParameters(c.Request.Context(), sessionID, service.ParametersInput{
		TopP:        req.TopP,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, toFormView(state))
}

// Submit handles POST /api/v1/form/submit
// @Summary Submit the form
// @Description Sends one extraction request and waits for it. Service failures
// @Description are reported in data.result, not as an HTTP error.
// @Tags form
// @Produce json
// @Success 200 {object} FormEnvelope "Form state with the new result"
// @Failure 400 {object} ErrorResponseBody "Missing image or user prompt"
// @Router /form/submit [post]
func (h *FormHandler) Submit(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		return
	}

	state, err := h.formService.Submit(c.Request.Context(), sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, toFormView(state))
}

// Reset handles DELETE /api/v1/form
// @Summary Drop the form session
// @Tags form
// @Produce json
// @Success 200 {object} Response "Session dropped"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Router /form [delete]
func (h *FormHandler) Reset(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		return
	}

	if err := h.formService.Reset(c.Request.Context(), sessionID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "session reset"})
}

// ServeAsset handles GET /asset/:id, the preview URL of the selected image.
func (h *FormHandler) ServeAsset(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid asset ID")
		return
	}

	asset, err := h.formService.GetAsset(c.Request.Context(), sessionID, assetID)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, asset.ContentType, asset.Data)
}

// readUpload reads one multipart file field fully into memory.
func readUpload(c *gin.Context, field string) (service.AssetInput, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return service.AssetInput{}, err
	}
	file, err := header.Open()
	if err != nil {
		return service.AssetInput{}, fmt.Errorf("opening %s: %w", field, err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return service.AssetInput{}, fmt.Errorf("reading %s: %w", field, err)
	}

	return service.AssetInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func isMissingFile(err error) bool {
	return errors.Is(err, http.ErrMissingFile)
}
