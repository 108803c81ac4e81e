package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielpatrickdp/persona-harness/internal/dialogue"
)

// #region fixture-types

// Fixture is a self-contained offline run: the cases, the scripted turns and
// the recorded replies. Replies recorded from a run are keyed by
// ConversationKey and kept apart per kind, so a case and a golden turn with
// the same conversation each replay their own reply. Responses is keyed by
// the latest user message and serves hand-written fixtures.
type Fixture struct {
	Description         string            `json:"description"`
	Cases               []TestCase        `json:"cases"`
	Golden              []GoldenTurn      `json:"golden"`
	CaseConversations   map[string]string `json:"case_conversations,omitempty"`
	GoldenConversations map[string]string `json:"golden_conversations,omitempty"`
	Responses           map[string]string `json:"responses"`
}

// Generator returns a generator that replays the recorded case replies.
func (f *Fixture) Generator() StaticGenerator {
	return StaticGenerator{Conversations: f.CaseConversations, Responses: f.Responses}
}

// GoldenGenerator returns a generator that replays the recorded golden replies.
func (f *Fixture) GoldenGenerator() StaticGenerator {
	return StaticGenerator{Conversations: f.GoldenConversations, Responses: f.Responses}
}

// Replies is the number of recorded replies of every kind.
func (f *Fixture) Replies() int {
	return len(f.CaseConversations) + len(f.GoldenConversations) + len(f.Responses)
}

// BuiltinFixture wraps the built-in cases and golden conversation with no
// recorded replies.
func BuiltinFixture(description string) *Fixture {
	return &Fixture{
		Description: description,
		Cases:       TestCases(),
		Golden:      GoldenConversation(),
		Responses:   map[string]string{},
	}
}

// Record stores the replies of a finished run under the conversation each
// was generated for. Golden histories are rebuilt the way RunGolden builds
// them, so golden results must be complete and in turn order. Errored
// results are skipped.
func (f *Fixture) Record(cases []CaseResult, golden []GoldenTurnResult) {
	if f.CaseConversations == nil {
		f.CaseConversations = make(map[string]string)
	}
	if f.GoldenConversations == nil {
		f.GoldenConversations = make(map[string]string)
	}
	for _, c := range cases {
		if c.Err == "" {
			f.CaseConversations[ConversationKey(c.Case.History())] = c.Response
		}
	}
	var history []dialogue.Message
	for _, g := range golden {
		history = dialogue.Append(history, dialogue.User(g.Turn.Content))
		if g.Err != "" {
			continue
		}
		f.GoldenConversations[ConversationKey(history)] = g.Response
		history = dialogue.Append(history, dialogue.Assistant(g.Response))
	}
}

// #endregion fixture-types

// #region fixture-io

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// WriteFixture writes f as indented JSON, creating parent directories.
func WriteFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create fixture dir: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// #endregion fixture-io
