package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Asset is the image held in memory pending submission.
type Asset struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Data        []byte    `json:"-"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// PreviewURL is the page-relative URL serving the asset bytes.
// A new asset always gets a new URL.
func (a *Asset) PreviewURL() string {
	return "/asset/" + a.ID.String()
}

// Prompt holds the two prompt texts. Only User is required on submit.
type Prompt struct {
	System string `json:"system_prompt"`
	User   string `json:"user_prompt"`
}

// GenerationParameters are the numeric knobs forwarded to the model.
// No cross-field or range invariant is enforced.
type GenerationParameters struct {
	TopP        float64 `json:"top_p"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// DefaultGenerationParameters returns the parameters a fresh form starts with.
func DefaultGenerationParameters() GenerationParameters {
	return GenerationParameters{TopP: 0.7, Temperature: 0.5, MaxTokens: 1000}
}

// ExtractionResult is either absent, a success JSON text or an error message.
type ExtractionResult struct {
	Kind    ResultKind `json:"kind"`
	JSON    string     `json:"json,omitempty"`
	Message string     `json:"message,omitempty"`
}

// SuccessResult pretty-prints raw with two-space indentation.
func SuccessResult(raw json.RawMessage) (ExtractionResult, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return ExtractionResult{}, fmt.Errorf("indenting extracted data: %w", err)
	}
	return ExtractionResult{Kind: ResultSuccess, JSON: buf.String()}, nil
}

// ErrorResult wraps a display message.
func ErrorResult(message string) ExtractionResult {
	return ExtractionResult{Kind: ResultError, Message: message}
}

// IsZero reports whether no submission has completed yet.
func (r ExtractionResult) IsZero() bool {
	return r.Kind == "" || r.Kind == ResultNone
}

// FormState is the complete state of one page session. Transition methods
// have value receivers and return the next state; the receiver is unchanged.
type FormState struct {
	SessionID  uuid.UUID            `json:"session_id"`
	Asset      *Asset               `json:"asset,omitempty"`
	Prompt     Prompt               `json:"prompt"`
	Model      ModelTier            `json:"model"`
	Parameters GenerationParameters `json:"parameters"`
	Result     ExtractionResult     `json:"result"`
	InFlight   int                  `json:"in_flight"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// NewFormState returns the initial state for a session.
func NewFormState(sessionID uuid.UUID) FormState {
	return FormState{
		SessionID:  sessionID,
		Model:      DefaultModelTier,
		Parameters: DefaultGenerationParameters(),
		Result:     ExtractionResult{Kind: ResultNone},
		UpdatedAt:  time.Now(),
	}
}

// Status derives the lifecycle state from the fields.
func (s FormState) Status() FormStatus {
	switch {
	case s.InFlight > 0:
		return FormStatusInFlight
	case s.Asset == nil:
		return FormStatusIdle
	case s.Prompt.User == "":
		return FormStatusReady
	default:
		return FormStatusSubmittable
	}
}

// CanSubmit reports whether the submit preconditions hold.
func (s FormState) CanSubmit() bool {
	return s.CheckSubmit() == nil
}

// CheckSubmit returns the first failed submit precondition.
func (s FormState) CheckSubmit() error {
	if s.Asset == nil {
		return ErrMissingAsset
	}
	if s.Prompt.User == "" {
		return ErrMissingUserPrompt
	}
	return nil
}

// WithAsset replaces the asset. The previous result is kept.
func (s FormState) WithAsset(a *Asset) FormState {
	s.Asset = a
	return s.touch()
}

// WithPrompt replaces both prompts.
func (s FormState) WithPrompt(p Prompt) FormState {
	s.Prompt = p
	return s.touch()
}

func (s FormState) WithSystemPrompt(text string) FormState {
	s.Prompt.System = text
	return s.touch()
}

func (s FormState) WithUserPrompt(text string) FormState {
	s.Prompt.User = text
	return s.touch()
}

func (s FormState) WithModel(m ModelTier) FormState {
	s.Model = m
	return s.touch()
}

// WithMaxTokens sets the token limit. The value is kept as given.
func (s FormState) WithMaxTokens(n int) FormState {
	s.Parameters.MaxTokens = n
	return s.touch()
}

// WithParameter sets one of the fractional knobs. maxTokens goes through
// WithMaxTokens so it never passes through a float.
func (s FormState) WithParameter(name ParameterName, value float64) (FormState, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return s, fmt.Errorf("%s: %w", name, ErrInvalidParameter)
	}
	switch name {
	case ParamTopP:
		s.Parameters.TopP = value
	case ParamTemperature:
		s.Parameters.Temperature = value
	case ParamMaxTokens:
		return s, fmt.Errorf("%s is set with WithMaxTokens: %w", name, ErrInvalidParameter)
	default:
		return s, fmt.Errorf("unknown parameter %q: %w", name, ErrInvalidParameter)
	}
	return s.touch(), nil
}

// BeginSubmission marks one more request as outstanding.
func (s FormState) BeginSubmission() FormState {
	s.InFlight++
	return s.touch()
}

// CompleteSubmission records the outcome of one outstanding request,
// overwriting whatever result was there before.
func (s FormState) CompleteSubmission(r ExtractionResult) FormState {
	if s.InFlight > 0 {
		s.InFlight--
	}
	s.Result = r
	return s.touch()
}

func (s FormState) touch() FormState {
	s.UpdatedAt = time.Now()
	return s
}
