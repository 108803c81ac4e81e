package logging

import (
	"database/sql"
	"fmt"
	"time"
)

const verdictSchema = `
CREATE TABLE IF NOT EXISTS verdict_log (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	turn_id      TEXT NOT NULL,
	session      TEXT,
	category     TEXT NOT NULL,
	score        INTEGER NOT NULL,
	final_pass   INTEGER NOT NULL,
	verdict_json TEXT,
	created_at   TEXT NOT NULL
);
`

// #region migrate
// Migrate creates the verdict_log table if it does not exist.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(verdictSchema); err != nil {
		return fmt.Errorf("migrate verdict_log: %w", err)
	}
	return nil
}
// #endregion migrate

// #region log-verdict
// LogVerdict writes a scored turn to the verdict_log table.
func LogVerdict(db *sql.DB, entry VerdictEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	pass := 0
	if entry.FinalPass {
		pass = 1
	}

	_, err := db.Exec(
		`INSERT INTO verdict_log (turn_id, session, category, score, final_pass, verdict_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.TurnID,
		nullIfEmpty(entry.Session),
		entry.Category,
		entry.Score,
		pass,
		nullIfEmpty(entry.VerdictJSON),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log verdict: %w", err)
	}
	return nil
}
// #endregion log-verdict

// #region recent-verdicts
// RecentVerdicts returns the newest verdict rows, newest first.
func RecentVerdicts(db *sql.DB, limit int) ([]VerdictEntry, error) {
	rows, err := db.Query(
		`SELECT turn_id, session, category, score, final_pass, verdict_json, created_at
		 FROM verdict_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query verdicts: %w", err)
	}
	defer rows.Close()

	var out []VerdictEntry
	for rows.Next() {
		var e VerdictEntry
		var session, verdictJSON sql.NullString
		var pass int
		var created string
		if err := rows.Scan(&e.TurnID, &session, &e.Category, &e.Score, &pass, &verdictJSON, &created); err != nil {
			return nil, fmt.Errorf("scan verdict: %w", err)
		}
		e.Session = session.String
		e.VerdictJSON = verdictJSON.String
		e.FinalPass = pass == 1
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, e)
	}
	return out, rows.Err()
}
// #endregion recent-verdicts

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
// #endregion helpers
