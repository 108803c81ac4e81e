package orchestrator

// #region imports
import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/danielpatrickdp/persona-harness/internal/category"
)

// #endregion

// #region schema

const categoryOutcomesSchema = `
CREATE TABLE IF NOT EXISTS category_outcomes (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    turn_id     TEXT NOT NULL,
    category    TEXT NOT NULL,
    score       INTEGER NOT NULL,
    final_pass  INTEGER NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL
);
`

const categoryOutcomesIndex = `
CREATE INDEX IF NOT EXISTS idx_category_outcomes_category
ON category_outcomes(category);
`

// halfLife is the age at which an outcome's weight has decayed by 1/e.
const halfLife = 7 * 24 * time.Hour

// #endregion

// #region memory-struct

// CategoryMemory persists per-turn scores in SQLite and reports
// decay-weighted results per category.
type CategoryMemory struct {
	db  *sql.DB
	now func() time.Time
}

// NewCategoryMemory initializes the category_outcomes table and returns a CategoryMemory.
func NewCategoryMemory(db *sql.DB) (*CategoryMemory, error) {
	if _, err := db.Exec(categoryOutcomesSchema); err != nil {
		return nil, fmt.Errorf("create category_outcomes: %w", err)
	}
	if _, err := db.Exec(categoryOutcomesIndex); err != nil {
		return nil, fmt.Errorf("index category_outcomes: %w", err)
	}
	return &CategoryMemory{db: db, now: time.Now}, nil
}

// #endregion

// #region record-outcome

// RecordOutcome persists a single scored turn.
func (m *CategoryMemory) RecordOutcome(rec OutcomeRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = m.now()
	}
	pass := 0
	if rec.FinalPass {
		pass = 1
	}
	_, err := m.db.Exec(`
		INSERT INTO category_outcomes (turn_id, category, score, final_pass, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.TurnID,
		string(rec.Category),
		rec.Score,
		pass,
		rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

// #endregion

// #region stats

// Stats returns one entry per category that has recorded outcomes, in
// classifier rule order. Rows with unparsable timestamps are skipped.
func (m *CategoryMemory) Stats() ([]CategoryStat, error) {
	rows, err := m.db.Query(`SELECT category, score, final_pass, created_at FROM category_outcomes`)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	type accum struct {
		weightedSum float64
		totalWeight float64
		passes      int
		count       int
	}

	now := m.now()
	byCat := make(map[category.Category]*accum)

	for rows.Next() {
		var cat string
		var score, pass int
		var createdAtStr string
		if err := rows.Scan(&cat, &score, &pass, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		createdAt, err := time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			continue
		}
		weight := math.Exp(-now.Sub(createdAt).Hours() / halfLife.Hours())

		c := category.Category(cat)
		a, ok := byCat[c]
		if !ok {
			a = &accum{}
			byCat[c] = a
		}
		a.weightedSum += float64(score) * weight
		a.totalWeight += weight
		a.passes += pass
		a.count++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []CategoryStat
	for _, c := range category.All() {
		a, ok := byCat[c]
		if !ok {
			continue
		}
		stat := CategoryStat{Category: c, Count: a.count, PassRate: float64(a.passes) / float64(a.count)}
		if a.totalWeight > 0 {
			stat.AvgScore = a.weightedSum / a.totalWeight
		}
		out = append(out, stat)
	}
	return out, nil
}

// #endregion
