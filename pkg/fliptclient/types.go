package fliptclient

// Flag types as reported by Flipt.
const (
	BooleanFlagType = "BOOLEAN_FLAG_TYPE"
	VariantFlagType = "VARIANT_FLAG_TYPE"
)

// EvaluationRequest is the body of the boolean and variant evaluation endpoints.
type EvaluationRequest struct {
	NamespaceKey string            `json:"namespaceKey"`
	FlagKey      string            `json:"flagKey"`
	EntityID     string            `json:"entityId"`
	Context      map[string]string `json:"context"`
	RequestID    string            `json:"requestId,omitempty"`
}

// BooleanEvaluationResponse is returned by POST /evaluate/v1/boolean.
type BooleanEvaluationResponse struct {
	FlagKey               string  `json:"flagKey"`
	EntityID              string  `json:"entityId"`
	Enabled               bool    `json:"enabled"`
	Reason                string  `json:"reason"`
	RequestDurationMillis float64 `json:"requestDurationMillis"`
	Timestamp             string  `json:"timestamp"`
}

// VariantEvaluationResponse is returned by POST /evaluate/v1/variant.
type VariantEvaluationResponse struct {
	FlagKey               string   `json:"flagKey"`
	EntityID              string   `json:"entityId"`
	Match                 bool     `json:"match"`
	SegmentKeys           []string `json:"segmentKeys,omitempty"`
	Reason                string   `json:"reason"`
	VariantKey            string   `json:"variantKey"`
	VariantAttachment     string   `json:"variantAttachment"`
	RequestDurationMillis float64  `json:"requestDurationMillis"`
	Timestamp             string   `json:"timestamp"`
}

// Variant is a flag variant as returned by the flag listing endpoint.
type Variant struct {
	Key         string `json:"key"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Attachment  string `json:"attachment,omitempty"`
}

// Flag is a flag definition as returned by GET /api/v1/namespaces/{ns}/flags.
type Flag struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Enabled      bool      `json:"enabled"`
	Type         string    `json:"type"`
	NamespaceKey string    `json:"namespaceKey"`
	Variants     []Variant `json:"variants,omitempty"`
}

// FlagList is a single page of the flag listing endpoint.
type FlagList struct {
	Flags         []Flag `json:"flags"`
	NextPageToken string `json:"nextPageToken"`
	TotalCount    int    `json:"totalCount"`
}

// Namespace is returned by GET /api/v1/namespaces/{ns}.
type Namespace struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Protected   bool   `json:"protected"`
}
