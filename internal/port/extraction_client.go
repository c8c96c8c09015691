package port

import (
	"context"
	"encoding/json"
)

// ExtractionInput carries everything serialized into one extraction request.
type ExtractionInput struct {
	ImageBytes   []byte
	FileName     string
	ContentType  string
	SystemPrompt string
	UserPrompt   string
	ModelName    string
	MaxTokens    int
	Temperature  float64
	TopP         float64
}

// ExtractionOutput holds the extracted_data value of a successful response.
type ExtractionOutput struct {
	ExtractedData json.RawMessage
	StatusCode    int
}

// ExtractionClient abstracts the remote extraction service.
// Failures are reported as domain.ErrUnexpectedResponseFormat,
// *domain.ServerError or an error wrapping domain.ErrNoResponse.
type ExtractionClient interface {
	Extract(ctx context.Context, input ExtractionInput) (*ExtractionOutput, error)
}
