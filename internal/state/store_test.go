package state

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/persona-harness/internal/eval"
	"github.com/danielpatrickdp/persona-harness/internal/replay"
)

func tempDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func scoredCase(id, input, response string) replay.CaseResult {
	sc := eval.Score(input, response)
	return replay.CaseResult{Case: replay.TestCase{ID: id, Input: input}, Response: response, Score: &sc}
}

func TestBeginAndGetRun(t *testing.T) {
	s := tempDB(t)

	run, err := s.BeginRun("openai")
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if run.RunID == "" {
		t.Fatal("expected non-empty run ID")
	}

	got, err := s.GetRun(run.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Status != StatusRunning || got.Generator != "openai" {
		t.Fatalf("got %+v", got)
	}
	if !got.FinishedAt.IsZero() {
		t.Fatalf("unfinished run has finish time %v", got.FinishedAt)
	}
	if _, err := got.Report(); err == nil {
		t.Fatal("expected error for run without report")
	}
}

func TestRecordAndFinish(t *testing.T) {
	s := tempDB(t)
	run, _ := s.BeginRun("fixture")

	good := scoredCase("pushback-not-helpful", "This is not helpful", "You're right, and I apologize. What are you actually dealing with?")
	if err := s.RecordCase(run.RunID, good); err != nil {
		t.Fatalf("RecordCase: %v", err)
	}
	failed := replay.CaseResult{Case: replay.TestCase{ID: "edge-silence", Input: "..."}, Err: "generate: timeout"}
	if err := s.RecordCase(run.RunID, failed); err != nil {
		t.Fatalf("RecordCase error result: %v", err)
	}
	turn := replay.GoldenTurnResult{Turn: replay.GoldenTurn{Content: "How do I find peace?"}, Response: "What if?", Passed: true}
	if err := s.RecordGoldenTurn(run.RunID, 1, turn); err != nil {
		t.Fatalf("RecordGoldenTurn: %v", err)
	}

	all, err := s.CaseResults(run.RunID, "")
	if err != nil {
		t.Fatalf("CaseResults: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 results, got %d", len(all))
	}
	if all[0].Score != 70 || !all[0].FinalPass || !all[0].FormPass || !all[0].HelpPass || !all[0].EngagePass {
		t.Errorf("scored case: got %+v", all[0])
	}
	if all[1].Error != "generate: timeout" || all[1].Score != 0 || all[1].Response != "" {
		t.Errorf("errored case: got %+v", all[1])
	}
	if all[2].Kind != KindGolden || all[2].CaseID != "1" || !all[2].FinalPass {
		t.Errorf("golden turn: got %+v", all[2])
	}

	golden, err := s.CaseResults(run.RunID, KindGolden)
	if err != nil {
		t.Fatalf("CaseResults golden: %v", err)
	}
	if len(golden) != 1 {
		t.Fatalf("expected 1 golden result, got %d", len(golden))
	}

	report := replay.Summarize([]replay.CaseResult{good, failed}, []replay.GoldenTurnResult{turn}, replay.DefaultThresholds())
	if err := s.FinishRun(run.RunID, report); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	got, _ := s.GetRun(run.RunID)
	if got.Status != report.Status || got.FinishedAt.IsZero() {
		t.Fatalf("finished run: got %+v", got)
	}
	rep, err := got.Report()
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if rep.Errors != 1 || rep.Gate1.Passes != 1 || rep.Golden.Passed != 1 {
		t.Fatalf("decoded report: %+v", rep)
	}
}

func TestFinishRunUnknown(t *testing.T) {
	s := tempDB(t)
	if err := s.FinishRun("nonexistent-id", replay.Report{Status: replay.StatusPass}); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestListRuns(t *testing.T) {
	s := tempDB(t)
	first, _ := s.BeginRun("openai")
	second, _ := s.BeginRun("ollama")

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != second.RunID || runs[1].RunID != first.RunID {
		t.Fatalf("expected newest first, got %s then %s", runs[0].RunID, runs[1].RunID)
	}

	runs, _ = s.ListRuns(1)
	if len(runs) != 1 {
		t.Fatalf("expected limit 1, got %d", len(runs))
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := tempDB(t)
	if _, err := s.GetRun("nonexistent-id"); err == nil {
		t.Fatal("expected error for nonexistent run")
	}
}

func TestNewStoreInvalidPath(t *testing.T) {
	_, err := NewStore(filepath.Join(string(os.PathSeparator), "nonexistent", "deep", "path", "test.db"))
	if err == nil {
		t.Fatal("expected error for invalid path")
	}
}

func TestDBAccessor(t *testing.T) {
	s := tempDB(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil *sql.DB")
	}
}

func TestOperationsOnClosedDB(t *testing.T) {
	s := tempDB(t)
	run, _ := s.BeginRun("openai")
	s.Close()

	if _, err := s.BeginRun("openai"); err == nil {
		t.Error("BeginRun: expected error on closed DB")
	}
	if err := s.RecordCase(run.RunID, scoredCase("a", "x", "y")); err == nil {
		t.Error("RecordCase: expected error on closed DB")
	}
	if _, err := s.ListRuns(10); err == nil {
		t.Error("ListRuns: expected error on closed DB")
	}
	if _, err := s.CaseResults(run.RunID, ""); err == nil {
		t.Error("CaseResults: expected error on closed DB")
	}
}

// corruptDB opens an in-memory SQLite with full schema via NewStoreWithDB.
// Returns the Store and raw *sql.DB so tests can drop tables.
func corruptDB(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	s := NewStoreWithDB(db)
	t.Cleanup(func() { db.Close() })
	return s, db
}

func TestFinishRun_UpdateFails(t *testing.T) {
	s, db := corruptDB(t)
	run, err := s.BeginRun("openai")
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	db.Exec("DROP TABLE case_results")
	db.Exec("DROP TABLE runs")

	if err := s.FinishRun(run.RunID, replay.Report{}); err == nil {
		t.Fatal("expected error when runs table is missing")
	}
}

func TestCaseResults_MissingTable(t *testing.T) {
	s, db := corruptDB(t)
	db.Exec("DROP TABLE case_results")

	if _, err := s.CaseResults("any", ""); err == nil {
		t.Fatal("expected error when case_results table is missing")
	}
}

func TestNewStore_CorruptDB(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "corrupt.db")
	os.WriteFile(dbPath, []byte("not a sqlite database"), 0644)

	if _, err := NewStore(dbPath); err == nil {
		t.Fatal("expected error for corrupted DB file")
	}
}
