package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"imagequery/internal/domain"
	"imagequery/internal/port"
)

// AssetInput is the DTO for selecting a new image.
type AssetInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ParametersInput updates only the knobs that are set.
type ParametersInput struct {
	TopP        *float64
	Temperature *float64
	MaxTokens   *int
}

// FormService is the extraction form controller. Every operation is scoped
// to one page session.
type FormService interface {
	NewSession(ctx context.Context) (*domain.FormState, error)
	Snapshot(ctx context.Context, sessionID uuid.UUID) (*domain.FormState, error)
	Reset(ctx context.Context, sessionID uuid.UUID) error
	SelectAsset(ctx context.Context, sessionID uuid.UUID, input AssetInput) (*domain.FormState, error)
	GetAsset(ctx context.Context, sessionID, assetID uuid.UUID) (*domain.Asset, error)
	UpdatePrompt(ctx context.Context, sessionID uuid.UUID, prompt domain.Prompt) (*domain.FormState, error)
	UpdateModel(ctx context.Context, sessionID uuid.UUID, model string) (*domain.FormState, error)
	UpdateParameters(ctx context.Context, sessionID uuid.UUID, input ParametersInput) (*domain.FormState, error)
	Submit(ctx context.Context, sessionID uuid.UUID) (*domain.FormState, error)
}

type formService struct {
	sessions  port.SessionStore
	extractor port.ExtractionClient
}

// NewFormService creates a new FormService implementation.
func NewFormService(sessions port.SessionStore, extractor port.ExtractionClient) FormService {
	return &formService{
		sessions:  sessions,
		extractor: extractor,
	}
}

func (s *formService) NewSession(ctx context.Context) (*domain.FormState, error) {
	state, err := s.sessions.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	log.Printf("formService.NewSession: session %s created", state.SessionID)
	return state, nil
}

func (s *formService) Snapshot(ctx context.Context, sessionID uuid.UUID) (*domain.FormState, error) {
	return s.sessions.Get(ctx, sessionID)
}

func (s *formService) Reset(ctx context.Context, sessionID uuid.UUID) error {
	log.Printf("formService.Reset: dropping session %s", sessionID)
	return s.sessions.Delete(ctx, sessionID)
}

func (s *formService) SelectAsset(ctx context.Context, sessionID uuid.UUID, input AssetInput) (*domain.FormState, error) {
	contentType := input.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(input.Data)
	}

	asset := &domain.Asset{
		ID:          uuid.New(),
		FileName:    input.FileName,
		ContentType: contentType,
		Size:        int64(len(input.Data)),
		Data:        input.Data,
		UploadedAt:  time.Now().UTC(),
	}

	log.Printf("formService.SelectAsset: session %s selected %s (%s, %d bytes)",
		sessionID, asset.FileName, asset.ContentType, asset.Size)

	return s.sessions.Update(ctx, sessionID, func(st domain.FormState) (domain.FormState, error) {
		return st.WithAsset(asset), nil
	})
}

func (s *formService) GetAsset(ctx context.Context, sessionID, assetID uuid.UUID) (*domain.Asset, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Asset == nil || state.Asset.ID != assetID {
		return nil, domain.ErrAssetNotFound
	}
	return state.Asset, nil
}

func (s *formService) UpdatePrompt(ctx context.Context, sessionID uuid.UUID, prompt domain.Prompt) (*domain.FormState, error) {
	return s.sessions.Update(ctx, sessionID, func(st domain.FormState) (domain.FormState, error) {
		return st.WithPrompt(prompt), nil
	})
}

func (s *formService) UpdateModel(ctx context.Context, sessionID uuid.UUID, model string) (*domain.FormState, error) {
	tier, err := domain.ParseModelTier(model)
	if err != nil {
		return nil, err
	}
	return s.sessions.Update(ctx, sessionID, func(st domain.FormState) (domain.FormState, error) {
		return st.WithModel(tier), nil
	})
}

func (s *formService) UpdateParameters(ctx context.Context, sessionID uuid.UUID, input ParametersInput) (*domain.FormState, error) {
	return s.sessions.Update(ctx, sessionID, func(st domain.FormState) (domain.FormState, error) {
		var err error
		if input.TopP != nil {
			if st, err = st.WithParameter(domain.ParamTopP, *input.TopP); err != nil {
				return st, err
			}
		}
		if input.Temperature != nil {
			if st, err = st.WithParameter(domain.ParamTemperature, *input.Temperature); err != nil {
				return st, err
			}
		}
		if input.MaxTokens != nil {
			st = st.WithMaxTokens(*input.MaxTokens)
		}
		return st, nil
	})
}

// Submit sends the current form to the extraction service. Submissions are
// not serialized: concurrent calls each send a request and the last one to
// finish owns the result.
func (s *formService) Submit(ctx context.Context, sessionID uuid.UUID) (*domain.FormState, error) {
	var snapshot domain.FormState
	_, err := s.sessions.Update(ctx, sessionID, func(st domain.FormState) (domain.FormState, error) {
		if err := st.CheckSubmit(); err != nil {
			return st, err
		}
		snapshot = st
		return st.BeginSubmission(), nil
	})
	if err != nil {
		if domain.IsPreconditionError(err) {
			log.Printf("formService.Submit: session %s blocked: %v", sessionID, err)
		}
		return nil, err
	}

	input := buildExtractionInput(&snapshot)

	// The call is not tied to the caller: leaving the page does not cancel it.
	start := time.Now()
	out, extractErr := s.extractor.Extract(context.WithoutCancel(ctx), input)
	result := toResult(out, extractErr)

	if extractErr != nil {
		log.Printf("formService.Submit: session %s extraction failed after %s: %v",
			sessionID, time.Since(start), extractErr)
	} else {
		log.Printf("formService.Submit: session %s extraction succeeded in %s", sessionID, time.Since(start))
	}

	return s.sessions.Update(context.WithoutCancel(ctx), sessionID, func(st domain.FormState) (domain.FormState, error) {
		return st.CompleteSubmission(result), nil
	})
}

func buildExtractionInput(st *domain.FormState) port.ExtractionInput {
	return port.ExtractionInput{
		ImageBytes:   st.Asset.Data,
		FileName:     st.Asset.FileName,
		ContentType:  st.Asset.ContentType,
		SystemPrompt: st.Prompt.System,
		UserPrompt:   st.Prompt.User,
		ModelName:    st.Model.Label(),
		MaxTokens:    st.Parameters.MaxTokens,
		Temperature:  st.Parameters.Temperature,
		TopP:         st.Parameters.TopP,
	}
}

func toResult(out *port.ExtractionOutput, err error) domain.ExtractionResult {
	if err != nil {
		return domain.ErrorResult(domain.DisplayMessage(err))
	}
	result, err := domain.SuccessResult(out.ExtractedData)
	if err != nil {
		return domain.ErrorResult(domain.MsgUnexpectedFormat)
	}
	return result
}
