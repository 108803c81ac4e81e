package state

import "time"

// #region run
// Run is one harness invocation. ReportJSON is empty until the run finishes.
type Run struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Generator  string
	Status     string // "running" | "PASS" | "REGRESSION"
	ReportJSON string
}

// StatusRunning marks a run that has not been finished.
const StatusRunning = "running"
// #endregion run

// #region case-record
// Result kinds stored in case_results.
const (
	KindCase   = "case"
	KindGolden = "golden"
)

// CaseRecord is one scored (or errored) reply within a run.
type CaseRecord struct {
	ID         int64
	RunID      string
	Kind       string
	CaseID     string
	Input      string
	Response   string
	Score      int
	FinalPass  bool
	FormPass   bool
	HelpPass   bool
	EngagePass bool
	Error      string
	CreatedAt  time.Time
}
// #endregion case-record
