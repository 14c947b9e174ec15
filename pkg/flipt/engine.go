package flipt

import "context"

// FlagType is the kind of a Flipt flag.
type FlagType string

const (
	BooleanFlag FlagType = "boolean"
	VariantFlag FlagType = "variant"
)

// EvaluationRequest is what adapters send to the engine.
type EvaluationRequest struct {
	FlagKey  string
	EntityID string
	Context  map[string]string
}

// BooleanEvaluation is the engine's answer for a boolean flag.
type BooleanEvaluation struct {
	FlagKey string
	Enabled bool
	Reason  string
}

// VariantEvaluation is the engine's answer for a variant flag.
type VariantEvaluation struct {
	FlagKey           string
	Match             bool
	VariantKey        string
	VariantAttachment string
	Reason            string
}

// FlagSummary describes one flag known to the engine.
type FlagSummary struct {
	Key         string
	Enabled     bool
	Type        FlagType
	Description string
}

// Engine is one initialized connection to the evaluation engine, scoped to a
// namespace and a set of credentials.
type Engine interface {
	EvaluateBoolean(ctx context.Context, req EvaluationRequest) (BooleanEvaluation, error)
	EvaluateVariant(ctx context.Context, req EvaluationRequest) (VariantEvaluation, error)
	ListFlags(ctx context.Context) ([]FlagSummary, error)
}

// Refresher is implemented by engines that can re-sync a cached connection.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// EngineFactory initializes an Engine for the given settings. It may block on I/O.
type EngineFactory func(ctx context.Context, s Settings) (Engine, error)
