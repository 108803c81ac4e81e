package replay

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	"github.com/danielpatrickdp/persona-harness/internal/codec"
	"github.com/danielpatrickdp/persona-harness/internal/dialogue"
	"github.com/danielpatrickdp/persona-harness/internal/eval"
	"github.com/danielpatrickdp/persona-harness/internal/interior"
	"golang.org/x/sync/errgroup"
)

// #region types

// Options tunes a harness run.
type Options struct {
	Workers int // concurrent single-turn cases; <1 means sequential
}

// Harness replays cases and the golden conversation against a generator.
type Harness struct {
	Generator    codec.Generator
	// SystemPrompt builds the system prompt for a conversation. Nil sends none.
	SystemPrompt func(history []dialogue.Message) string
	// Golden answers the golden conversation. Nil uses Generator.
	Golden       codec.Generator
	Options      Options
}

// CaseResult is the outcome of one test case. A non-empty Err marks an
// execution error, which is distinct from a scoring failure.
type CaseResult struct {
	Case     TestCase            `json:"case"`
	Response string              `json:"response"`
	Score    *eval.CombinedScore `json:"score,omitempty"`
	Err      string              `json:"error,omitempty"`
}

// GoldenTurnResult is the outcome of one scripted turn.
type GoldenTurnResult struct {
	Turn         GoldenTurn          `json:"turn"`
	Response     string              `json:"response"`
	Score        *eval.CombinedScore `json:"score,omitempty"`
	Passed       bool                `json:"passed"`
	FailedChecks []string            `json:"failed_checks,omitempty"`
	Err          string              `json:"error,omitempty"`
}

// #endregion types

// #region generate

// generate runs one generator call, strips wrapper tags from the reply and
// trims it.
func (h *Harness) generate(ctx context.Context, gen codec.Generator, history []dialogue.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	system := ""
	if h.SystemPrompt != nil {
		system = h.SystemPrompt(history)
	}
	raw, err := gen.Generate(ctx, system, history)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return strings.TrimSpace(interior.Strip(raw)), nil
}

// #endregion generate

// #region run-cases

// RunCases generates and scores every case. Generator errors are logged and
// recorded on the case; the run always continues. Results keep case order.
func (h *Harness) RunCases(ctx context.Context, cases []TestCase) []CaseResult {
	results := make([]CaseResult, len(cases))

	var g errgroup.Group
	workers := h.Options.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, tc := range cases {
		i, tc := i, tc
		g.Go(func() error {
			results[i] = h.runCase(ctx, tc)
			return nil
		})
	}
	g.Wait()

	return results
}

func (h *Harness) runCase(ctx context.Context, tc TestCase) CaseResult {
	res := CaseResult{Case: tc}
	response, err := h.generate(ctx, h.Generator, tc.History())
	if err != nil {
		log.Printf("[HARNESS] case %s: %v", tc.ID, err)
		res.Err = err.Error()
		return res
	}
	score := eval.Score(tc.Input, response)
	res.Response = response
	res.Score = &score
	log.Printf("[HARNESS] case %s: score=%d pass=%v", tc.ID, score.Score, score.FinalPass)
	return res
}

// #endregion run-cases

// #region run-golden

// RunGolden replays the scripted turns strictly in order. Each stripped
// reply joins the history before the next user turn. A failed generation
// counts the turn as failed and adds no assistant reply; later turns still run.
func (h *Harness) RunGolden(ctx context.Context, turns []GoldenTurn) []GoldenTurnResult {
	results := make([]GoldenTurnResult, 0, len(turns))
	var history []dialogue.Message
	gen := h.Golden
	if gen == nil {
		gen = h.Generator
	}

	for i, turn := range turns {
		history = dialogue.Append(history, dialogue.User(turn.Content))
		res := GoldenTurnResult{Turn: turn}

		response, err := h.generate(ctx, gen, history)
		if err != nil {
			log.Printf("[HARNESS] golden turn %d: %v", i+1, err)
			res.Err = err.Error()
			res.FailedChecks = append([]string(nil), turn.MustPass...)
			results = append(results, res)
			continue
		}

		score := eval.Score(turn.Content, response)
		res.Response = response
		res.Score = &score
		res.FailedChecks = eval.MustPass(score, turn.MustPass)
		res.Passed = len(res.FailedChecks) == 0
		if !res.Passed {
			log.Printf("[HARNESS] golden turn %d failed: %s", i+1, strings.Join(res.FailedChecks, ", "))
		}
		results = append(results, res)

		history = dialogue.Append(history, dialogue.Assistant(response))
	}
	return results
}

// #endregion run-golden

// #region static-generator

// StaticGenerator replays recorded replies. A reply recorded for the exact
// conversation wins; otherwise the reply keyed by the latest user message is
// used, which is how hand-written fixtures are keyed.
type StaticGenerator struct {
	Conversations map[string]string // ConversationKey -> reply
	Responses     map[string]string // latest user message -> reply
}

// Generate returns the recorded reply for history.
func (s StaticGenerator) Generate(_ context.Context, _ string, history []dialogue.Message) (string, error) {
	last, ok := dialogue.Last(history, dialogue.RoleUser)
	if !ok {
		return "", fmt.Errorf("no user message in history")
	}
	if reply, ok := s.Conversations[ConversationKey(history)]; ok {
		return reply, nil
	}
	reply, ok := s.Responses[last.Content]
	if !ok {
		return "", fmt.Errorf("no recorded reply for %q", last.Content)
	}
	return reply, nil
}

// ConversationKey identifies a conversation by the role and content of every
// message, in order.
func ConversationKey(history []dialogue.Message) string {
	h := sha256.New()
	for _, m := range history {
		h.Write([]byte(m.Role))
		h.Write([]byte{0})
		h.Write([]byte(m.Content))
		h.Write([]byte{0x1e})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// #endregion static-generator
