package logging

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// #region helpers
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// #endregion helpers

// #region log-verdict-tests
func TestLogVerdict_Success(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	entry := VerdictEntry{
		TurnID:      "t1",
		Session:     "s1",
		Category:    "pushback",
		Score:       70,
		FinalPass:   true,
		VerdictJSON: `{"turn_id":"t1"}`,
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := LogVerdict(db, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := RecentVerdicts(db, 10)
	if err != nil {
		t.Fatalf("RecentVerdicts: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	if got[0].TurnID != "t1" || got[0].Category != "pushback" || got[0].Score != 70 || !got[0].FinalPass {
		t.Errorf("row mismatch: %+v", got[0])
	}
	if !got[0].CreatedAt.Equal(entry.CreatedAt) {
		t.Errorf("created_at: got %v, want %v", got[0].CreatedAt, entry.CreatedAt)
	}
}

func TestLogVerdict_ZeroCreatedAt(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	before := time.Now().UTC()
	if err := LogVerdict(db, VerdictEntry{TurnID: "t2", Category: "general"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := RecentVerdicts(db, 1)
	if got[0].CreatedAt.Before(before) {
		t.Error("expected auto-filled created_at to be >= test start time")
	}
}

func TestLogVerdict_EmptyOptionalFields(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	if err := LogVerdict(db, VerdictEntry{TurnID: "t3", Category: "meta"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var session, verdictJSON sql.NullString
	db.QueryRow("SELECT session, verdict_json FROM verdict_log").Scan(&session, &verdictJSON)
	if session.Valid {
		t.Error("expected NULL session for empty string")
	}
	if verdictJSON.Valid {
		t.Error("expected NULL verdict_json for empty string")
	}
}

func TestRecentVerdicts_NewestFirst(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	for _, id := range []string{"a", "b", "c"} {
		LogVerdict(db, VerdictEntry{TurnID: id, Category: "general"})
	}
	got, err := RecentVerdicts(db, 2)
	if err != nil {
		t.Fatalf("RecentVerdicts: %v", err)
	}
	if len(got) != 2 || got[0].TurnID != "c" || got[1].TurnID != "b" {
		t.Errorf("got %+v", got)
	}
}

func TestLogVerdict_Error(t *testing.T) {
	db := setupDB(t)
	db.Close() // close to force error

	if err := LogVerdict(db, VerdictEntry{TurnID: "t4", Category: "general"}); err == nil {
		t.Fatal("expected error on closed db")
	}
}

// #endregion log-verdict-tests

// #region setup-tests
func TestSetup_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harness.log")
	closer := Setup(path)
	t.Cleanup(func() {
		closer.Close()
		log.SetOutput(os.Stderr)
	})

	log.Printf("[TEST] hello rotation")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "[TEST] hello rotation") {
		t.Errorf("log file missing line: %q", data)
	}
}

func TestSetup_EmptyPath(t *testing.T) {
	closer := Setup("")
	if err := closer.Close(); err != nil {
		t.Errorf("nop close: %v", err)
	}
}

// #endregion setup-tests

// #region null-if-empty-tests
func TestNullIfEmpty(t *testing.T) {
	if result := nullIfEmpty(""); result != nil {
		t.Errorf("expected nil for empty string, got %v", result)
	}
	if result := nullIfEmpty("hello"); result != "hello" {
		t.Errorf("expected 'hello', got %v", result)
	}
}

// #endregion null-if-empty-tests
