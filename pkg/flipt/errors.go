package flipt

import "errors"

// Predefined errors for the flipt package.
var (
	// ErrInvalidContext indicates the identify result is missing, not an object, or has no id.
	// Its message is stable and safe to match on.
	ErrInvalidContext = errors.New("flipt: invalid or missing context from identify")

	// ErrClientInitialization indicates the evaluation engine client could not be created.
	ErrClientInitialization = errors.New("flipt: failed to initialize evaluation client")

	// ErrClientRefresh indicates a cached client failed to re-sync with the engine.
	ErrClientRefresh = errors.New("flipt: failed to refresh evaluation client")

	// ErrEvaluation indicates the engine rejected or could not complete an evaluation.
	ErrEvaluation = errors.New("flipt: evaluation failed")

	// ErrInvalidConfig indicates the configuration could not be resolved.
	ErrInvalidConfig = errors.New("flipt: invalid configuration")
)

// Reasons reported by ContextError.
const (
	ReasonMissing   = "missing"
	ReasonNotObject = "not_object"
	ReasonMissingID = "missing_id"
)

// ContextError is returned by Validate. Its message is always ErrInvalidContext's;
// Reason tells which check failed.
type ContextError struct {
	Reason string
}

// Error implements the error interface.
func (e *ContextError) Error() string {
	return ErrInvalidContext.Error()
}

// Is reports ErrInvalidContext as the sentinel for every ContextError.
func (e *ContextError) Is(target error) bool {
	return target == ErrInvalidContext
}
