package exam

import "encoding/json"

// ResultEntry is one answered question in the analysis payload.
type ResultEntry struct {
	Question       string          `json:"question"`
	SelectedOption string          `json:"selected_option"`
	Weights        json.RawMessage `json:"weights"`
}

// UserContext identifies whose results these are and when they were
// aggregated.
type UserContext struct {
	ID          int64  `json:"id"`
	CompletedAt string `json:"completed_at"`
}

// ResultPayload is the canonical shape consumed by the analysis stage:
// answer history keyed by test slug, entries in question order. It
// carries no pass/fail judgement; interpreting the weights is entirely
// the consumer's business.
type ResultPayload struct {
	UserContext UserContext              `json:"user_context"`
	Tests       map[string][]ResultEntry `json:"tests_data"`
}
