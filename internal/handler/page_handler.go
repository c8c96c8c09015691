package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"imagequery/internal/domain"
	"imagequery/internal/service"
	"imagequery/internal/web"
)

// PageHandler serves the single-page form.
type PageHandler struct {
	formService service.FormService
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(formService service.FormService) *PageHandler {
	return &PageHandler{formService: formService}
}

type modelOption struct {
	Value    string
	Name     string
	Selected bool
}

type pageData struct {
	Form   FormView
	Models []modelOption
	Notice string
}

// Show handles GET /
func (h *PageHandler) Show(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		return
	}

	state, err := h.formService.Snapshot(c.Request.Context(), sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}

	h.render(c, http.StatusOK, state, "")
}

// Post handles POST /. The whole form is posted at once: every field is
// applied to the session first, then action=submit runs the extraction.
func (h *PageHandler) Post(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if notice := h.applyFields(ctx, c, sessionID); notice != "" {
		h.renderCurrent(c, http.StatusBadRequest, sessionID, notice)
		return
	}

	if c.PostForm("action") != "submit" {
		h.renderCurrent(c, http.StatusOK, sessionID, "")
		return
	}

	state, err := h.formService.Submit(ctx, sessionID)
	if err != nil {
		if domain.IsPreconditionError(err) {
			h.renderCurrent(c, http.StatusBadRequest, sessionID, domain.SubmitNotice)
			return
		}
		HandleError(c, err)
		return
	}

	h.render(c, http.StatusOK, state, "")
}

// applyFields pushes the posted field values into the session. It returns a
// notice for the user when a value could not be applied.
func (h *PageHandler) applyFields(ctx context.Context, c *gin.Context, sessionID uuid.UUID) string {
	if _, err := h.formService.UpdatePrompt(ctx, sessionID, domain.Prompt{
		System: c.PostForm("system_prompt"),
		User:   c.PostForm("user_prompt"),
	}); err != nil {
		return noticeFor(err)
	}

	if model, ok := c.GetPostForm("model"); ok {
		if _, err := h.formService.UpdateModel(ctx, sessionID, model); err != nil {
			return noticeFor(err)
		}
	}

	params, notice := parseParameters(c)
	if notice != "" {
		return notice
	}
	if _, err := h.formService.UpdateParameters(ctx, sessionID, params); err != nil {
		return noticeFor(err)
	}

	input, err := readUpload(c, "image")
	switch {
	case err == nil:
		if _, err := h.formService.SelectAsset(ctx, sessionID, input); err != nil {
			return noticeFor(err)
		}
	case !isMissingFile(err):
		log.Printf("pageHandler.Post: reading upload for session %s: %v", sessionID, err)
		return "The selected image could not be read."
	}

	return ""
}

// parseParameters reads the knobs that were posted. Only unparseable values
// are rejected.
func parseParameters(c *gin.Context) (service.ParametersInput, string) {
	var in service.ParametersInput

	if raw := strings.TrimSpace(c.PostForm("top_p")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, "Top P must be a number."
		}
		in.TopP = &v
	}
	if raw := strings.TrimSpace(c.PostForm("temperature")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, "Temperature must be a number."
		}
		in.Temperature = &v
	}
	if raw := strings.TrimSpace(c.PostForm("max_tokens")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return in, "Max Tokens must be a whole number."
		}
		in.MaxTokens = &v
	}

	return in, ""
}

func noticeFor(err error) string {
	_, _, msg := MapDomainError(err)
	return msg
}

func (h *PageHandler) renderCurrent(c *gin.Context, status int, sessionID uuid.UUID, notice string) {
	state, err := h.formService.Snapshot(c.Request.Context(), sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.render(c, status, state, notice)
}

func (h *PageHandler) render(c *gin.Context, status int, state *domain.FormState, notice string) {
	models := make([]modelOption, 0, len(domain.ModelTiers))
	for _, tier := range domain.ModelTiers {
		models = append(models, modelOption{
			Value:    string(tier),
			Name:     tier.DisplayName(),
			Selected: tier == state.Model,
		})
	}

	c.HTML(status, web.PageTemplate, pageData{
		Form:   toFormView(state),
		Models: models,
		Notice: notice,
	})
}
