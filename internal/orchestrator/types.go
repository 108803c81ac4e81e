package orchestrator

// #region imports
import (
	"math/rand"
	"time"

	"github.com/danielpatrickdp/persona-harness/internal/category"
	"github.com/danielpatrickdp/persona-harness/internal/dialogue"
	"github.com/danielpatrickdp/persona-harness/internal/eval"
	"github.com/danielpatrickdp/persona-harness/internal/projection"
	"github.com/danielpatrickdp/persona-harness/internal/retrieval"
)

// #endregion

// #region config

// Config tunes the turn pipeline.
type Config struct {
	// StyleDisabled is the kill switch: prompts carry persona, depth, topics
	// and quotes but no per-category style guidance.
	StyleDisabled bool
	Knowledge     retrieval.KnowledgeConfig
	// Rand picks style examples. Nil seeds a private source from the clock.
	Rand *rand.Rand
}

// DefaultConfig returns the pipeline defaults.
func DefaultConfig() Config {
	return Config{Knowledge: retrieval.DefaultKnowledgeConfig()}
}

// #endregion

// #region turn-request

// TurnRequest is one chat turn: the conversation so far, ending with the
// user's message, and the prompt settings the session chose.
type TurnRequest struct {
	Session string
	History []dialogue.Message
	Depth   projection.Depth
	Topics  []projection.Topic
}

// #endregion

// #region prompt-result

// PromptResult is the composed system prompt and what went into it.
type PromptResult struct {
	Input     string
	Match     category.Match
	Knowledge retrieval.KnowledgeResult
	Style     string
	Prompt    string
}

// #endregion

// #region turn-result

// TurnResult is a completed turn. Raw is the generator output; Response is
// the user-facing part and is what gets scored.
type TurnResult struct {
	TurnID    string
	Prompt    PromptResult
	Raw       string
	Pondering string
	Response  string
	Score     eval.CombinedScore
}

// #endregion

// #region outcome-record

// OutcomeRecord is one scored turn as stored in category memory.
type OutcomeRecord struct {
	TurnID    string
	Category  category.Category
	Score     int
	FinalPass bool
	CreatedAt time.Time
}

// CategoryStat summarizes the recorded outcomes of one category.
// AvgScore is decay-weighted so recent turns dominate.
type CategoryStat struct {
	Category category.Category `json:"category"`
	AvgScore float64           `json:"avg_score"`
	PassRate float64           `json:"pass_rate"`
	Count    int               `json:"count"`
}

// #endregion
