package orchestrator

// #region imports
import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/persona-harness/internal/category"
	"github.com/danielpatrickdp/persona-harness/internal/codec"
	"github.com/danielpatrickdp/persona-harness/internal/dialogue"
	"github.com/danielpatrickdp/persona-harness/internal/eval"
	"github.com/danielpatrickdp/persona-harness/internal/interior"
	"github.com/danielpatrickdp/persona-harness/internal/logging"
	"github.com/danielpatrickdp/persona-harness/internal/projection"
	"github.com/danielpatrickdp/persona-harness/internal/retrieval"
)

// #endregion

// ErrNoUserMessage is returned when a turn's history has no user message.
var ErrNoUserMessage = errors.New("history has no user message")

// #region orchestrator-struct

// Orchestrator runs a chat turn end to end: classify, retrieve, compose,
// generate, split, score and record.
type Orchestrator struct {
	generator  codec.Generator
	knowledge  *retrieval.KnowledgeRetriever
	memory     *CategoryMemory
	ponderings *interior.PonderingStore
	db         *sql.DB
	cfg        Config

	rngMu sync.Mutex
	rng   *rand.Rand
}

// #endregion

// #region constructor

// NewOrchestrator creates a fully wired orchestrator. Quote retrieval is on
// when gen also implements codec.Searcher. A nil db turns off every
// persistence side effect (category memory, verdict log, ponderings).
func NewOrchestrator(db *sql.DB, gen codec.Generator, cfg Config) (*Orchestrator, error) {
	o := &Orchestrator{generator: gen, db: db, cfg: cfg, rng: cfg.Rand}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s, ok := gen.(codec.Searcher); ok {
		o.knowledge = retrieval.NewKnowledgeRetriever(s, cfg.Knowledge)
	}

	if db != nil {
		mem, err := NewCategoryMemory(db)
		if err != nil {
			return nil, err
		}
		pond, err := interior.NewPonderingStore(db)
		if err != nil {
			return nil, fmt.Errorf("pondering store: %w", err)
		}
		if err := logging.Migrate(db); err != nil {
			return nil, err
		}
		o.memory, o.ponderings = mem, pond
	}

	if cfg.StyleDisabled {
		log.Printf("[ORCH] style guidance disabled by kill switch")
	}
	return o, nil
}

// #endregion

// #region accessors

// StyleEnabled reports whether per-category style guidance is composed in.
func (o *Orchestrator) StyleEnabled() bool {
	return !o.cfg.StyleDisabled
}

// Memory returns the category memory, or nil without a database.
func (o *Orchestrator) Memory() *CategoryMemory {
	return o.memory
}

// #endregion

// #region build-prompt

// BuildPrompt classifies the last user message and composes the system
// prompt for it. A failed quote search is logged and the prompt is composed
// without quotes.
func (o *Orchestrator) BuildPrompt(ctx context.Context, req TurnRequest) (PromptResult, error) {
	last, ok := dialogue.Last(req.History, dialogue.RoleUser)
	if !ok {
		return PromptResult{}, ErrNoUserMessage
	}

	res := PromptResult{Input: last.Content, Match: category.Classify(last.Content)}

	kr, err := o.knowledge.Retrieve(ctx, last.Content, res.Match.Category)
	if err != nil {
		log.Printf("[ORCH] knowledge: %v", err)
	}
	res.Knowledge = kr

	if o.StyleEnabled() {
		o.rngMu.Lock()
		res.Style = retrieval.Retrieve(res.Match, req.History, o.rng).Render()
		o.rngMu.Unlock()
	}

	res.Prompt = projection.Compose(projection.Options{
		Depth:     req.Depth,
		Topics:    req.Topics,
		Knowledge: kr.Texts(),
		Style:     res.Style,
	})

	log.Printf("[ORCH] classify: category=%s confidence=%.1f quotes=%d style=%v",
		res.Match.Category, res.Match.Confidence, len(kr.Retrieved), o.StyleEnabled())
	return res, nil
}

// SystemPrompt returns a prompt builder for callers that only hold a
// conversation, such as the regression harness.
func (o *Orchestrator) SystemPrompt(depth projection.Depth, topics []projection.Topic) func([]dialogue.Message) string {
	return func(history []dialogue.Message) string {
		res, err := o.BuildPrompt(context.Background(), TurnRequest{History: history, Depth: depth, Topics: topics})
		if err != nil {
			return projection.Compose(projection.Options{Depth: depth, Topics: topics})
		}
		return res.Prompt
	}
}

// #endregion

// #region turn

// Turn runs one chat turn. When onText is non-nil and the generator can
// stream, raw fragments are delivered as they arrive; otherwise onText sees
// the whole raw reply once.
func (o *Orchestrator) Turn(ctx context.Context, req TurnRequest, onText func(string) error) (TurnResult, error) {
	prompt, err := o.BuildPrompt(ctx, req)
	if err != nil {
		return TurnResult{}, err
	}

	raw, err := o.generate(ctx, prompt.Prompt, req.History, onText)
	if err != nil {
		log.Printf("[ORCH] generate failed: %v", err)
		return TurnResult{}, fmt.Errorf("generate: %w", err)
	}

	parts := interior.Split(raw)
	res := TurnResult{
		TurnID:    uuid.New().String(),
		Prompt:    prompt,
		Raw:       raw,
		Pondering: parts.Pondering,
		Response:  parts.Response,
		Score:     eval.Score(prompt.Input, parts.Response),
	}

	log.Printf("[ORCH] score: turn=%s category=%s score=%d pass=%v",
		res.TurnID, prompt.Match.Category, res.Score.Score, res.Score.FinalPass)

	o.record(req, res)
	return res, nil
}

func (o *Orchestrator) generate(ctx context.Context, system string, history []dialogue.Message, onText func(string) error) (string, error) {
	if onText != nil {
		if sg, ok := o.generator.(codec.StreamGenerator); ok {
			return sg.Stream(ctx, system, history, onText)
		}
	}
	raw, err := o.generator.Generate(ctx, system, history)
	if err != nil {
		return "", err
	}
	if onText != nil {
		if err := onText(raw); err != nil {
			return raw, err
		}
	}
	return raw, nil
}

// #endregion

// #region record

// record persists a finished turn. Failures are logged and never fail the turn.
func (o *Orchestrator) record(req TurnRequest, res TurnResult) {
	if o.db == nil {
		return
	}
	cat := res.Prompt.Match.Category

	if err := o.memory.RecordOutcome(OutcomeRecord{
		TurnID:    res.TurnID,
		Category:  cat,
		Score:     res.Score.Score,
		FinalPass: res.Score.FinalPass,
	}); err != nil {
		log.Printf("[ORCH] failed to record outcome: %v", err)
	}

	rec := logging.VerdictRecord{
		TurnID:      res.TurnID,
		Category:    string(cat),
		Confidence:  float64(res.Prompt.Match.Confidence),
		Input:       res.Prompt.Input,
		Response:    res.Response,
		Depth:       string(req.Depth),
		StyleActive: o.StyleEnabled(),
		Score:       res.Score,
	}
	for _, t := range req.Topics {
		rec.Topics = append(rec.Topics, string(t))
	}
	for _, q := range res.Prompt.Knowledge.Retrieved {
		rec.QuoteIDs = append(rec.QuoteIDs, q.ID)
	}
	verdictJSON, err := json.Marshal(rec)
	if err != nil {
		log.Printf("[ORCH] marshal verdict: %v", err)
	}
	if err := logging.LogVerdict(o.db, logging.VerdictEntry{
		TurnID:      res.TurnID,
		Session:     req.Session,
		Category:    string(cat),
		Score:       res.Score.Score,
		FinalPass:   res.Score.FinalPass,
		VerdictJSON: string(verdictJSON),
	}); err != nil {
		log.Printf("[ORCH] failed to log verdict: %v", err)
	}

	if err := o.ponderings.Save(res.TurnID, string(cat), res.Pondering); err != nil {
		log.Printf("[ORCH] failed to save pondering: %v", err)
	}
}

// #endregion
