package projection

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSettingsStore_SaveAndLoad(t *testing.T) {
	store, err := NewSettingsStore(testDB(t))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := store.Save("s1", Profound, []Topic{Death, Nature}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load("s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatal("expected settings")
	}
	if got.Depth != Profound {
		t.Errorf("depth: got %q, want %q", got.Depth, Profound)
	}
	if len(got.Topics) != 2 || got.Topics[0] != Death || got.Topics[1] != Nature {
		t.Errorf("topics: got %v", got.Topics)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("updated_at not parsed")
	}
}

func TestSettingsStore_Upsert(t *testing.T) {
	store, _ := NewSettingsStore(testDB(t))
	store.Save("s1", Casual, []Topic{Ego})
	store.Save("s1", MindBending, nil)

	got, _ := store.Load("s1")
	if got.Depth != MindBending {
		t.Errorf("depth: got %q, want %q", got.Depth, MindBending)
	}
	if len(got.Topics) != 0 {
		t.Errorf("topics: got %v, want none", got.Topics)
	}
}

func TestSettingsStore_Missing(t *testing.T) {
	store, _ := NewSettingsStore(testDB(t))
	got, err := store.Load("nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestSettingsStore_DropsUnknownValues(t *testing.T) {
	db := testDB(t)
	store, _ := NewSettingsStore(db)
	_, err := db.Exec("INSERT INTO prompt_settings (session, depth, topics, updated_at) VALUES ('old', 'abyssal', 'ego,cooking', '2024-01-01T00:00:00Z')")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	got, _ := store.Load("old")
	if got.Depth != DefaultDepth {
		t.Errorf("depth: got %q, want %q", got.Depth, DefaultDepth)
	}
	if len(got.Topics) != 1 || got.Topics[0] != Ego {
		t.Errorf("topics: got %v", got.Topics)
	}
}
