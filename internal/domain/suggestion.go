package domain

// Suggestion is one exercise suggestion for a client's next session.
// Suggestions are transient: fetched on demand, never persisted.
type Suggestion struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SuggestionResult carries the fetched suggestions together with a flag
// telling the caller whether the fixed fallback list was used instead of
// live catalog data. A fallback is a degraded success, not an error.
type SuggestionResult struct {
	Items        []Suggestion `json:"items"`
	UsedFallback bool         `json:"usedFallback"`
}
