package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/persona-harness/internal/replay"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id       TEXT PRIMARY KEY,
	started_at   TEXT NOT NULL,
	finished_at  TEXT,
	generator    TEXT NOT NULL,
	status       TEXT NOT NULL,
	report_json  TEXT
);

CREATE TABLE IF NOT EXISTS case_results (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT NOT NULL,
	kind         TEXT NOT NULL,
	case_id      TEXT NOT NULL,
	input        TEXT NOT NULL,
	response     TEXT,
	score        INTEGER NOT NULL DEFAULT 0,
	final_pass   INTEGER NOT NULL DEFAULT 0,
	form_pass    INTEGER NOT NULL DEFAULT 0,
	help_pass    INTEGER NOT NULL DEFAULT 0,
	engage_pass  INTEGER NOT NULL DEFAULT 0,
	error        TEXT,
	created_at   TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE INDEX IF NOT EXISTS idx_case_results_run ON case_results(run_id);
`
// #endregion schema

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// #region store-struct
// Store persists harness runs and their per-case results in SQLite.
type Store struct {
	db *sql.DB
}
// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStoreWithDB wraps an already-migrated database.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}
// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB so the verdict log, pondering store and
// settings store can share one file.
func (s *Store) DB() *sql.DB {
	return s.db
}
// #endregion db-accessor

// #region begin-run
// BeginRun inserts a new run in the running state and returns its ID.
func (s *Store) BeginRun(generator string) (Run, error) {
	run := Run{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Generator: generator,
		Status:    StatusRunning,
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, started_at, generator, status) VALUES (?, ?, ?, ?)`,
		run.RunID, run.StartedAt.Format(timeLayout), run.Generator, run.Status,
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}
// #endregion begin-run

// #region record
// RecordCase stores one single-turn case result.
func (s *Store) RecordCase(runID string, r replay.CaseResult) error {
	rec := CaseRecord{
		RunID:    runID,
		Kind:     KindCase,
		CaseID:   r.Case.ID,
		Input:    r.Case.Input,
		Response: r.Response,
		Error:    r.Err,
	}
	if r.Score != nil {
		rec.Score = r.Score.Score
		rec.FinalPass = r.Score.FinalPass
		rec.FormPass = r.Score.Form.Passed
		rec.HelpPass = r.Score.Helpfulness.Passed
		rec.EngagePass = r.Score.Engagement.Passed
	}
	return s.insertResult(rec)
}

// RecordGoldenTurn stores one golden conversation turn. The case ID is the
// 1-based turn number; FinalPass records whether its required checks held.
func (s *Store) RecordGoldenTurn(runID string, turn int, r replay.GoldenTurnResult) error {
	rec := CaseRecord{
		RunID:     runID,
		Kind:      KindGolden,
		CaseID:    strconv.Itoa(turn),
		Input:     r.Turn.Content,
		Response:  r.Response,
		FinalPass: r.Passed,
		Error:     r.Err,
	}
	if r.Score != nil {
		rec.Score = r.Score.Score
		rec.FormPass = r.Score.Form.Passed
		rec.HelpPass = r.Score.Helpfulness.Passed
		rec.EngagePass = r.Score.Engagement.Passed
	}
	return s.insertResult(rec)
}

func (s *Store) insertResult(rec CaseRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO case_results
		 (run_id, kind, case_id, input, response, score, final_pass, form_pass, help_pass, engage_pass, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Kind, rec.CaseID, rec.Input, rec.Response, rec.Score,
		boolInt(rec.FinalPass), boolInt(rec.FormPass), boolInt(rec.HelpPass), boolInt(rec.EngagePass),
		nullString(rec.Error), time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert %s result %s: %w", rec.Kind, rec.CaseID, err)
	}
	return nil
}
// #endregion record

// #region finish-run
// FinishRun stores the report and its status and stamps the finish time.
func (s *Store) FinishRun(runID string, report replay.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	res, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, status = ?, report_json = ? WHERE run_id = ?`,
		time.Now().UTC().Format(timeLayout), report.Status, string(data), runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}
// #endregion finish-run

// #region get-run
// GetRun retrieves a run by ID.
func (s *Store) GetRun(id string) (Run, error) {
	row := s.db.QueryRow(
		`SELECT run_id, started_at, finished_at, generator, status, report_json
		 FROM runs WHERE run_id = ?`, id,
	)
	run, err := scanRun(row)
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// Report decodes the stored report of a finished run.
func (r Run) Report() (replay.Report, error) {
	var rep replay.Report
	if r.ReportJSON == "" {
		return rep, fmt.Errorf("run %s has no report", r.RunID)
	}
	if err := json.Unmarshal([]byte(r.ReportJSON), &rep); err != nil {
		return rep, fmt.Errorf("unmarshal report: %w", err)
	}
	return rep, nil
}
// #endregion get-run

// #region list-runs
// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT run_id, started_at, finished_at, generator, status, report_json
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
// #endregion list-runs

// #region case-results
// CaseResults returns every stored result of a run in insertion order.
// An empty kind returns both cases and golden turns.
func (s *Store) CaseResults(runID, kind string) ([]CaseRecord, error) {
	query := `SELECT id, run_id, kind, case_id, input, response, score,
		final_pass, form_pass, help_pass, engage_pass, error, created_at
		FROM case_results WHERE run_id = ?`
	args := []any{runID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query case results: %w", err)
	}
	defer rows.Close()

	var out []CaseRecord
	for rows.Next() {
		var rec CaseRecord
		var response, errText sql.NullString
		var final, form, help, engage int
		var createdStr string
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Kind, &rec.CaseID, &rec.Input, &response, &rec.Score,
			&final, &form, &help, &engage, &errText, &createdStr); err != nil {
			return nil, fmt.Errorf("scan case result: %w", err)
		}
		rec.Response = response.String
		rec.Error = errText.String
		rec.FinalPass, rec.FormPass, rec.HelpPass, rec.EngagePass = final == 1, form == 1, help == 1, engage == 1
		rec.CreatedAt, _ = time.Parse(timeLayout, createdStr)
		out = append(out, rec)
	}
	return out, rows.Err()
}
// #endregion case-results

// #region scan-helpers
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var startedStr string
	var finished, report sql.NullString
	if err := row.Scan(&run.RunID, &startedStr, &finished, &run.Generator, &run.Status, &report); err != nil {
		return Run{}, err
	}
	run.StartedAt, _ = time.Parse(timeLayout, startedStr)
	if finished.Valid {
		run.FinishedAt, _ = time.Parse(timeLayout, finished.String)
	}
	run.ReportJSON = report.String
	return run, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
// #endregion scan-helpers
