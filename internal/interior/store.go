package interior

// #region imports
import (
	"database/sql"
	"time"
)

// #endregion imports

// #region types

// Pondering holds one turn's interior reasoning, kept out of the visible reply.
type Pondering struct {
	TurnID    string
	Category  string
	Text      string
	CreatedAt time.Time
}

// #endregion types

// #region store

// PonderingStore persists the persona's pondering sections in SQLite.
type PonderingStore struct {
	db *sql.DB
}

// NewPonderingStore creates the ponderings table if needed and returns a store.
func NewPonderingStore(db *sql.DB) (*PonderingStore, error) {
	s := &PonderingStore{db: db}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PonderingStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS ponderings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		turn_id TEXT NOT NULL,
		category TEXT NOT NULL,
		pondering_text TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	return err
}

// Save stores the pondering for the given turn. Empty text is skipped.
func (s *PonderingStore) Save(turnID, category, text string) error {
	if text == "" {
		return nil
	}
	_, err := s.db.Exec(
		`INSERT INTO ponderings (turn_id, category, pondering_text, created_at) VALUES (?, ?, ?, ?)`,
		turnID, category, text, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Latest returns the most recent pondering, or nil if none exists.
func (s *PonderingStore) Latest() (*Pondering, error) {
	row := s.db.QueryRow(
		`SELECT turn_id, category, pondering_text, created_at FROM ponderings ORDER BY id DESC LIMIT 1`,
	)
	var p Pondering
	var createdAt string
	if err := row.Scan(&p.TurnID, &p.Category, &p.Text, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &p, nil
}

// #endregion store
