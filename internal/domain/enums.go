package domain

import "strings"

// ModelTier identifies which extraction model the service should run.
type ModelTier string

const (
	ModelHaiku  ModelTier = "haiku"
	ModelSonnet ModelTier = "sonnet"
)

// DefaultModelTier is the tier a fresh form starts with.
const DefaultModelTier = ModelHaiku

// ModelLabels maps a tier to the model_name label the extraction service expects.
var ModelLabels = map[ModelTier]string{
	ModelHaiku:  "Claude 3 Haiku",
	ModelSonnet: "Claude 3.5 Sonnet",
}

// ModelTiers lists the selectable tiers in display order.
var ModelTiers = []ModelTier{ModelHaiku, ModelSonnet}

// Label returns the wire label for the tier, or "" for an unknown tier.
func (m ModelTier) Label() string {
	return ModelLabels[m]
}

// DisplayName is the short name shown in the model select.
func (m ModelTier) DisplayName() string {
	switch m {
	case ModelHaiku:
		return "Claude Haiku"
	case ModelSonnet:
		return "Claude Sonnet"
	default:
		return string(m)
	}
}

// ParseModelTier accepts either the tier key or its wire label.
func ParseModelTier(s string) (ModelTier, error) {
	s = strings.TrimSpace(s)
	for _, tier := range ModelTiers {
		if strings.EqualFold(s, string(tier)) || s == tier.Label() {
			return tier, nil
		}
	}
	return "", ErrUnknownModel
}

// ParameterName names one of the generation knobs.
type ParameterName string

const (
	ParamTopP        ParameterName = "topP"
	ParamTemperature ParameterName = "temperature"
	ParamMaxTokens   ParameterName = "maxTokens"
)

// ResultKind tells which branch of an ExtractionResult is populated.
type ResultKind string

const (
	ResultNone    ResultKind = "none"
	ResultSuccess ResultKind = "success"
	ResultError   ResultKind = "error"
)

// FormStatus is the derived lifecycle state of a form.
type FormStatus string

const (
	FormStatusIdle        FormStatus = "idle"
	FormStatusReady       FormStatus = "ready"
	FormStatusSubmittable FormStatus = "submittable"
	FormStatusInFlight    FormStatus = "in_flight"
)
