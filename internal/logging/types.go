package logging

import (
	"time"

	"github.com/danielpatrickdp/persona-harness/internal/eval"
)

// #region verdict-entry
// VerdictEntry is a single row in the verdict_log table.
type VerdictEntry struct {
	TurnID      string
	Session     string
	Category    string
	Score       int
	FinalPass   bool
	VerdictJSON string
	CreatedAt   time.Time
}
// #endregion verdict-entry

// #region verdict-record
// VerdictRecord captures everything that fed the scoring of a single turn.
// Serialized as JSON into verdict_log.verdict_json so a turn can be re-scored
// and diffed after the pattern tables change.
type VerdictRecord struct {
	TurnID     string  `json:"turn_id"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Input      string  `json:"input"`
	Response   string  `json:"response"`

	// Prompt settings active for the turn
	Depth       string   `json:"depth"`
	Topics      []string `json:"topics,omitempty"`
	StyleActive bool     `json:"style_active"`
	QuoteIDs    []string `json:"quote_ids,omitempty"`

	// Gate output
	Score eval.CombinedScore `json:"score"`
}
// #endregion verdict-record
