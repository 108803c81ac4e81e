package retrieval

import (
	"github.com/danielpatrickdp/persona-harness/internal/category"
)

// #region style-types

// Example is one curated exchange: what the user said, the persona's
// interior reasoning, and the reply.
type Example struct {
	Input     string `json:"input"`
	Pondering string `json:"pondering"`
	Response  string `json:"response"`
}

// ResponsePattern bundles the static guidance for one category.
type ResponsePattern struct {
	Category   category.Category `json:"category"`
	Examples   []Example         `json:"examples"`
	Techniques []string          `json:"techniques"`
	Avoid      []string          `json:"avoid"`
}

// StyleContext is the retrieved guidance for a single turn.
type StyleContext struct {
	Match        category.Match
	Pattern      ResponsePattern
	Examples     []Example // selected subset of Pattern.Examples
	UsedPhrases  []string  // tracked phrases already spoken this conversation
	LastResponse string    // most recent assistant reply, wrapper tags removed
	Reminder     string    // category override block, empty for most categories
}

// #endregion style-types

// #region knowledge-config

// KnowledgeConfig holds limits for quote retrieval.
type KnowledgeConfig struct {
	SimilarityThreshold float32 // min similarity passed to the search backend
	TopK                int     // max results requested
	MaxQuoteLen         int     // max chars per quote
	MaxSharedKeywords   int     // a quote sharing more content words than this with a kept quote is a near-duplicate
}

// DefaultKnowledgeConfig returns sensible defaults for quote retrieval.
func DefaultKnowledgeConfig() KnowledgeConfig {
	return KnowledgeConfig{
		SimilarityThreshold: 0.3,
		TopK:                3,
		MaxQuoteLen:         600,
		MaxSharedKeywords:   6,
	}
}

// #endregion knowledge-config

// #region knowledge-result

// Quote is a single retrieved passage in the persona's own words.
type Quote struct {
	ID    string
	Text  string
	Score float32
}

// KnowledgeResult captures the outcome of the quote retrieval pipeline.
type KnowledgeResult struct {
	Skipped   bool    // category does not take quotes
	Found     int     // results returned by the backend
	Retrieved []Quote // quotes after the consistency check
	Reason    string
}

// Texts returns the quote texts in retrieval order.
func (r KnowledgeResult) Texts() []string {
	out := make([]string, len(r.Retrieved))
	for i, q := range r.Retrieved {
		out[i] = q.Text
	}
	return out
}

// #endregion knowledge-result
