package orchestrator

import (
	"database/sql"
	"math"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/persona-harness/internal/category"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCategoryMemory_Empty(t *testing.T) {
	mem, err := NewCategoryMemory(newTestDB(t))
	if err != nil {
		t.Fatal(err)
	}
	stats, err := mem.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 0 {
		t.Errorf("expected no stats, got %+v", stats)
	}
}

func TestCategoryMemory_StatsOrderAndCounts(t *testing.T) {
	mem, err := NewCategoryMemory(newTestDB(t))
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mem.now = func() time.Time { return now }

	recs := []OutcomeRecord{
		{TurnID: "1", Category: category.General, Score: 20},
		{TurnID: "2", Category: category.Pushback, Score: 70, FinalPass: true},
		{TurnID: "3", Category: category.Pushback, Score: 50},
		{TurnID: "4", Category: category.Existential, Score: 100, FinalPass: true},
	}
	for _, r := range recs {
		if err := mem.RecordOutcome(r); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := mem.Stats()
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		cat   category.Category
		avg   float64
		pass  float64
		count int
	}{
		{category.Existential, 100, 1, 1},
		{category.Pushback, 60, 0.5, 2},
		{category.General, 20, 0, 1},
	}
	if len(stats) != len(want) {
		t.Fatalf("expected %d stats, got %+v", len(want), stats)
	}
	for i, w := range want {
		s := stats[i]
		if s.Category != w.cat || s.Count != w.count || math.Abs(s.AvgScore-w.avg) > 1e-9 || s.PassRate != w.pass {
			t.Errorf("stats[%d]: got %+v, want %+v", i, s, w)
		}
	}
}

func TestCategoryMemory_RecentOutcomesWeighMore(t *testing.T) {
	mem, err := NewCategoryMemory(newTestDB(t))
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mem.now = func() time.Time { return now }

	mem.RecordOutcome(OutcomeRecord{TurnID: "old", Category: category.Fear, Score: 0, CreatedAt: now.Add(-30 * 24 * time.Hour)})
	mem.RecordOutcome(OutcomeRecord{TurnID: "new", Category: category.Fear, Score: 100, CreatedAt: now})

	stats, _ := mem.Stats()
	if len(stats) != 1 {
		t.Fatalf("expected 1 stat, got %+v", stats)
	}
	if stats[0].AvgScore < 90 {
		t.Errorf("expected recent score to dominate, got avg %.2f", stats[0].AvgScore)
	}
	if stats[0].Count != 2 {
		t.Errorf("count: got %d, want 2", stats[0].Count)
	}
}

func TestCategoryMemory_ClosedDB(t *testing.T) {
	db := newTestDB(t)
	mem, err := NewCategoryMemory(db)
	if err != nil {
		t.Fatal(err)
	}
	db.Close()

	if err := mem.RecordOutcome(OutcomeRecord{TurnID: "x", Category: category.General}); err == nil {
		t.Error("expected error recording on closed db")
	}
	if _, err := mem.Stats(); err == nil {
		t.Error("expected error reading stats on closed db")
	}
}
