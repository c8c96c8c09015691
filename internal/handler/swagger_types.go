package handler

import (
	"time"

	"github.com/google/uuid"

	"imagequery/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// UpdatePromptRequest represents the prompt update body.
type UpdatePromptRequest struct {
	SystemPrompt string `json:"system_prompt" example:"You are an invoice reader. Answer in JSON."`
	UserPrompt   string `json:"user_prompt" example:"Extract the invoice number and total."`
}

// UpdateModelRequest represents the model selection body.
type UpdateModelRequest struct {
	Model string `json:"model" binding:"required" example:"haiku" enums:"haiku,sonnet"`
}

// UpdateParametersRequest represents a partial generation parameter update.
// Omitted fields keep their current value.
type UpdateParametersRequest struct {
	TopP        *float64 `json:"top_p" example:"0.7"`
	Temperature *float64 `json:"temperature" example:"0.5"`
	MaxTokens   *int     `json:"max_tokens" example:"1000"`
}

// --- Response Types ---

// AssetView describes the selected image without its bytes.
type AssetView struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"file_name" example:"receipt.png"`
	ContentType string    `json:"content_type" example:"image/png"`
	Size        int64     `json:"size" example:"48213"`
	PreviewURL  string    `json:"preview_url" example:"/asset/6f1c..."`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// FormView is the client-facing form state.
type FormView struct {
	SessionID  uuid.UUID                   `json:"session_id"`
	Status     domain.FormStatus           `json:"status" example:"submittable"`
	CanSubmit  bool                        `json:"can_submit"`
	Asset      *AssetView                  `json:"asset,omitempty"`
	Prompt     domain.Prompt               `json:"prompt"`
	Model      domain.ModelTier            `json:"model" example:"haiku"`
	ModelLabel string                      `json:"model_label" example:"Claude 3 Haiku"`
	Parameters domain.GenerationParameters `json:"parameters"`
	Result     domain.ExtractionResult     `json:"result"`
	InFlight   int                         `json:"in_flight"`
}

// Response is the generic success envelope used in swagger annotations.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
}

// FormEnvelope is the success envelope carrying a FormView.
type FormEnvelope struct {
	Success bool     `json:"success" example:"true"`
	Data    FormView `json:"data"`
}

// ErrorResponseBody is the error envelope used in swagger annotations.
type ErrorResponseBody struct {
	Success bool     `json:"success" example:"false"`
	Error   APIError `json:"error"`
}

func toFormView(st *domain.FormState) FormView {
	view := FormView{
		SessionID:  st.SessionID,
		Status:     st.Status(),
		CanSubmit:  st.CanSubmit(),
		Prompt:     st.Prompt,
		Model:      st.Model,
		ModelLabel: st.Model.Label(),
		Parameters: st.Parameters,
		Result:     st.Result,
		InFlight:   st.InFlight,
	}
	if st.Asset != nil {
		view.Asset = &AssetView{
			ID:          st.Asset.ID,
			FileName:    st.Asset.FileName,
			ContentType: st.Asset.ContentType,
			Size:        st.Asset.Size,
			PreviewURL:  st.Asset.PreviewURL(),
			UploadedAt:  st.Asset.UploadedAt,
		}
	}
	return view
}
