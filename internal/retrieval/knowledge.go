package retrieval

import (
	"context"
	"fmt"
	"log"

	"github.com/danielpatrickdp/persona-harness/internal/category"
	"github.com/danielpatrickdp/persona-harness/internal/codec"
)

// #region retriever

// KnowledgeRetriever pulls the persona's own past words from a quote store.
type KnowledgeRetriever struct {
	searcher codec.Searcher
	config   KnowledgeConfig
}

// NewKnowledgeRetriever creates a KnowledgeRetriever over searcher.
func NewKnowledgeRetriever(searcher codec.Searcher, config KnowledgeConfig) *KnowledgeRetriever {
	return &KnowledgeRetriever{searcher: searcher, config: config}
}

// #endregion retriever

// #region retrieve

// takesQuotes reports whether a category benefits from quoted material.
// Greetings and pushback get short direct replies instead.
func takesQuotes(c category.Category) bool {
	return c != category.Greeting && c != category.Pushback
}

// Retrieve runs the quote pipeline:
//  1. category gate: greetings and pushback skip retrieval
//  2. similarity search, threshold enforced by the backend
//  3. consistency check on what came back
func (r *KnowledgeRetriever) Retrieve(ctx context.Context, input string, cat category.Category) (KnowledgeResult, error) {
	result := KnowledgeResult{}

	if r == nil || r.searcher == nil {
		result.Skipped = true
		result.Reason = "no quote store configured"
		return result, nil
	}
	if !takesQuotes(cat) {
		result.Skipped = true
		result.Reason = fmt.Sprintf("category %s does not take quotes", cat)
		return result, nil
	}

	found, err := r.searcher.Search(ctx, input, r.config.TopK, r.config.SimilarityThreshold)
	if err != nil {
		return result, fmt.Errorf("quote search: %w", err)
	}
	result.Found = len(found)
	if result.Found == 0 {
		result.Reason = "no quotes above similarity threshold"
		return result, nil
	}

	result.Retrieved = r.consistencyCheck(found)
	if len(result.Retrieved) == 0 {
		result.Reason = "all quotes failed consistency check"
	} else {
		result.Reason = fmt.Sprintf("retrieved %d quotes (found=%d)", len(result.Retrieved), result.Found)
	}
	log.Printf("[RETRIEVAL] %s: %s", cat, result.Reason)
	return result, nil
}

// #endregion retrieve

// #region consistency-check

// consistencyCheck drops empty and overlong quotes, repeated IDs, and quotes
// that say nearly the same thing as one already kept.
func (r *KnowledgeRetriever) consistencyCheck(results []codec.SearchResult) []Quote {
	seen := make(map[string]bool)
	var kept [][]string
	var valid []Quote

	for _, sr := range results {
		if sr.Text == "" {
			continue
		}
		if r.config.MaxQuoteLen > 0 && len([]rune(sr.Text)) > r.config.MaxQuoteLen {
			continue
		}
		if seen[sr.ID] {
			continue
		}
		tokens := tokenize(sr.Text)
		if r.config.MaxSharedKeywords > 0 && nearDuplicate(tokens, kept, r.config.MaxSharedKeywords) {
			continue
		}
		seen[sr.ID] = true
		kept = append(kept, tokens)
		valid = append(valid, Quote{ID: sr.ID, Text: sr.Text, Score: sr.Score})
	}
	return valid
}

func nearDuplicate(tokens []string, kept [][]string, limit int) bool {
	for _, k := range kept {
		if sharedKeywords(tokens, k) > limit {
			return true
		}
	}
	return false
}

// #endregion consistency-check
