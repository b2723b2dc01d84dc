// Package domain holds the classification contract shared by every
// component: the two categories, the strategy tags and the result structure
// returned to callers.
package domain

// Category is one of exactly two values. No "unknown" state is ever
// returned externally.
type Category string

const (
	CategoryProductive   Category = "productive"
	CategoryUnproductive Category = "unproductive"
)

// Valid reports whether c is one of the two accepted categories.
func (c Category) Valid() bool {
	return c == CategoryProductive || c == CategoryUnproductive
}

// Label returns the user-facing Portuguese label for the category.
func (c Category) Label() string {
	if c == CategoryProductive {
		return "Produtivo"
	}

	return "Improdutivo"
}

// Strategy identifies which component produced the returned classification.
type Strategy string

const (
	StrategyRemote         Strategy = "remote"
	StrategyRules          Strategy = "rules"
	StrategyHeuristic      Strategy = "heuristic"
	StrategyRemoteFallback Strategy = "remote-fallback"
	StrategyFallback       Strategy = "fallback"
	StrategyNone           Strategy = "none"
)

// Result is the universal output contract. One is created fresh per request
// and never mutated after return.
type Result struct {
	Category       Category `json:"category"`
	Confidence     float64  `json:"confidence"`
	ShortReason    string   `json:"short_reason"`
	UserMessage    string   `json:"user_message"`
	Strategy       Strategy `json:"used_strategy"`
	MatchedIntents []string `json:"matched_intents,omitempty"`
}

// ClampConfidence forces v into [0, 1].
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}
