package flags

// ProviderData is the discovery document describing known flags.
type ProviderData struct {
	Definitions map[string]FlagDefinition `json:"definitions"`
	Hints       []Hint                    `json:"hints"`
}

// FlagDefinition describes one flag for tooling.
type FlagDefinition struct {
	// Origin is a human-navigable URL to the flag in its backend.
	Origin      string   `json:"origin,omitempty"`
	Description string   `json:"description,omitempty"`
	Options     []Option `json:"options"`
}

// Option is a selectable flag value.
type Option struct {
	Value any    `json:"value"`
	Label string `json:"label,omitempty"`
}

// Hint is a non-fatal diagnostic reported alongside definitions.
type Hint struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// EmptyProviderData returns provider data with non-nil, empty collections.
func EmptyProviderData() ProviderData {
	return ProviderData{Definitions: map[string]FlagDefinition{}, Hints: []Hint{}}
}

// MergeProviderData combines several documents. Later definitions replace earlier
// ones field by field: empty fields never overwrite populated ones. Hints are concatenated.
func MergeProviderData(items ...ProviderData) ProviderData {
	out := EmptyProviderData()
	for _, item := range items {
		for key, def := range item.Definitions {
			existing, ok := out.Definitions[key]
			if !ok {
				out.Definitions[key] = def
				continue
			}
			if def.Origin != "" {
				existing.Origin = def.Origin
			}
			if def.Description != "" {
				existing.Description = def.Description
			}
			if len(def.Options) > 0 {
				existing.Options = def.Options
			}
			out.Definitions[key] = existing
		}
		out.Hints = append(out.Hints, item.Hints...)
	}
	return out
}
