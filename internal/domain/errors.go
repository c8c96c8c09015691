package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAsset      = errors.New("no image selected")
	ErrMissingUserPrompt = errors.New("user prompt is empty")
	ErrSessionNotFound   = errors.New("form session not found")
	ErrAssetNotFound     = errors.New("asset not found")
	ErrUnknownModel      = errors.New("unknown model")
	ErrInvalidParameter  = errors.New("invalid generation parameter")

	ErrUnexpectedResponseFormat = errors.New("unexpected response format")
	ErrServerRejected           = errors.New("extraction service returned an error")
	ErrNoResponse               = errors.New("no response from extraction service")
)

// SubmitNotice is shown when a submission is blocked before any request is sent.
const SubmitNotice = "Please provide both a document and a user prompt."

// Display strings for failed submissions.
const (
	MsgUnexpectedFormat = "Error: Unexpected response format."
	MsgUnknownServer    = "Error: Unknown error from server."
	MsgNoResponse       = "Error: No response from the server."
)

// ServerError carries a non-2xx response from the extraction service.
// Detail is empty when the body had no usable detail field.
type ServerError struct {
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("extraction service error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("extraction service error (status %d): %s", e.StatusCode, e.Detail)
}

func (e *ServerError) Unwrap() error {
	return ErrServerRejected
}

// IsPreconditionError reports whether err blocked a submission locally.
func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrMissingAsset) || errors.Is(err, ErrMissingUserPrompt)
}

// DisplayMessage turns a failed extraction into the text shown in place of results.
// Anything that is not a recognised response failure counts as no response.
func DisplayMessage(err error) string {
	var serverErr *ServerError
	switch {
	case errors.As(err, &serverErr):
		if serverErr.Detail == "" {
			return MsgUnknownServer
		}
		return "Error: " + serverErr.Detail
	case errors.Is(err, ErrUnexpectedResponseFormat):
		return MsgUnexpectedFormat
	default:
		return MsgNoResponse
	}
}
