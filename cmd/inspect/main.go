package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/persona-harness/internal/logging"
	"github.com/danielpatrickdp/persona-harness/internal/orchestrator"
	"github.com/danielpatrickdp/persona-harness/internal/state"
)

const timeFormat = "2006-01-02T15:04:05Z"

// #region main

func main() {
	dbPath := flag.String("db", "", "path to persona_harness.db")
	last := flag.Int("last", 20, "show N most recent runs")
	runID := flag.String("run", "", "show single run detail")
	kind := flag.String("kind", "", "filter run detail to case or golden results")
	stats := flag.Bool("stats", false, "show decay-weighted category stats from live chat")
	verdicts := flag.Int("verdicts", 0, "show N most recent chat verdicts")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/persona_harness.db [--last N] [--run id] [--kind case|golden] [--stats] [--verdicts N] [--json]")
		os.Exit(2)
	}

	store, err := state.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case *stats:
		err = runStatsMode(store, *jsonOut)
	case *verdicts > 0:
		err = runVerdictMode(store, *verdicts, *jsonOut)
	case *runID != "":
		err = runDetailMode(store, *runID, *kind, *jsonOut)
	default:
		err = runListMode(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	RunID      string  `json:"run_id"`
	Generator  string  `json:"generator"`
	Status     string  `json:"status"`
	AvgScore   float64 `json:"avg_score"`
	AllPassPct float64 `json:"all_pass_pct"`
	Golden     string  `json:"golden"`
	StartedAt  string  `json:"started_at"`
}

func runListMode(store *state.Store, last int, jsonOut bool) error {
	runs, err := store.ListRuns(last)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "no runs found")
		return nil
	}

	// store returns newest first, reverse for chronological
	rows := make([]listRow, len(runs))
	for i, run := range runs {
		lr := listRow{
			RunID:     run.RunID,
			Generator: run.Generator,
			Status:    run.Status,
			Golden:    "—",
			StartedAt: run.StartedAt.Format(timeFormat),
		}
		if report, err := run.Report(); err == nil && run.ReportJSON != "" {
			lr.AvgScore = report.AvgScore
			lr.AllPassPct = report.AllPass.Pct
			lr.Golden = fmt.Sprintf("%d/%d", report.Golden.Passed, report.Golden.Passed+report.Golden.Failed)
		}
		rows[len(runs)-1-i] = lr
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-10s  %-10s  %8s  %8s  %-7s  %-20s  %s\n",
		"Run", "Status", "Avg", "All %", "Golden", "Time", "Generator")
	fmt.Printf("%-10s+-%-10s+-%8s+-%8s+-%-7s+-%-20s+-%s\n",
		"----------", "----------", "--------", "--------", "-------", "--------------------", "---------")
	for _, r := range rows {
		fmt.Printf("%-10s  %-10s  %8.2f  %8.1f  %-7s  %-20s  %s\n",
			shortID(r.RunID), r.Status, r.AvgScore, r.AllPassPct, r.Golden, r.StartedAt, r.Generator)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailOutput struct {
	RunID       string         `json:"run_id"`
	Generator   string         `json:"generator"`
	Status      string         `json:"status"`
	StartedAt   string         `json:"started_at"`
	FinishedAt  string         `json:"finished_at,omitempty"`
	Regressions []string       `json:"regressions"`
	Results     []resultDetail `json:"results"`
}

type resultDetail struct {
	Kind      string `json:"kind"`
	CaseID    string `json:"case_id"`
	Input     string `json:"input"`
	Score     int    `json:"score"`
	FinalPass bool   `json:"final_pass"`
	Gates     string `json:"gates"`
	Error     string `json:"error,omitempty"`
}

func runDetailMode(store *state.Store, runID, kind string, jsonOut bool) error {
	run, err := store.GetRun(runID)
	if err != nil {
		return err
	}
	results, err := store.CaseResults(runID, kind)
	if err != nil {
		return err
	}

	out := detailOutput{
		RunID:       run.RunID,
		Generator:   run.Generator,
		Status:      run.Status,
		StartedAt:   run.StartedAt.Format(timeFormat),
		Regressions: []string{},
	}
	if !run.FinishedAt.IsZero() {
		out.FinishedAt = run.FinishedAt.Format(timeFormat)
	}
	if run.ReportJSON != "" {
		if report, err := run.Report(); err == nil {
			out.Regressions = report.Regressions
		}
	}
	for _, rec := range results {
		out.Results = append(out.Results, resultDetail{
			Kind:      rec.Kind,
			CaseID:    rec.CaseID,
			Input:     rec.Input,
			Score:     rec.Score,
			FinalPass: rec.FinalPass,
			Gates:     gateMarks(rec),
			Error:     rec.Error,
		})
	}

	if jsonOut {
		return printJSON(out)
	}

	fmt.Printf("Run:        %s\n", out.RunID)
	fmt.Printf("Generator:  %s\n", out.Generator)
	fmt.Printf("Status:     %s\n", out.Status)
	fmt.Printf("Started:    %s\n", out.StartedAt)
	if out.FinishedAt != "" {
		fmt.Printf("Finished:   %s\n", out.FinishedAt)
	}
	if len(out.Regressions) > 0 {
		fmt.Printf("\nRegressions:\n")
		for _, r := range out.Regressions {
			fmt.Printf("  - %s\n", r)
		}
	}

	fmt.Printf("\n%-7s  %-28s  %5s  %-5s  %s\n", "Kind", "Case", "Score", "Gates", "Input")
	for _, r := range out.Results {
		if r.Error != "" {
			fmt.Printf("%-7s  %-28s  %5s  %-5s  %s (error: %s)\n", r.Kind, r.CaseID, "—", "", truncate(r.Input, 40), r.Error)
			continue
		}
		fmt.Printf("%-7s  %-28s  %5d  %-5s  %s\n", r.Kind, r.CaseID, r.Score, r.Gates, truncate(r.Input, 40))
	}
	return nil
}

// gateMarks renders the three gate outcomes as F/H/E or '.' when failed.
func gateMarks(rec state.CaseRecord) string {
	marks := []byte("...")
	if rec.FormPass {
		marks[0] = 'F'
	}
	if rec.HelpPass {
		marks[1] = 'H'
	}
	if rec.EngagePass {
		marks[2] = 'E'
	}
	return string(marks)
}

// #endregion detail-mode

// #region chat-mode

func runStatsMode(store *state.Store, jsonOut bool) error {
	mem, err := orchestrator.NewCategoryMemory(store.DB())
	if err != nil {
		return err
	}
	stats, err := mem.Stats()
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(stats)
	}
	if len(stats) == 0 {
		fmt.Fprintln(os.Stderr, "no chat outcomes recorded")
		return nil
	}
	fmt.Printf("%-12s  %8s  %8s  %5s\n", "Category", "Avg", "Pass %", "Turns")
	for _, s := range stats {
		fmt.Printf("%-12s  %8.2f  %8.1f  %5d\n", s.Category, s.AvgScore, s.PassRate*100, s.Count)
	}
	return nil
}

func runVerdictMode(store *state.Store, n int, jsonOut bool) error {
	if err := logging.Migrate(store.DB()); err != nil {
		return err
	}
	entries, err := logging.RecentVerdicts(store.DB(), n)
	if err != nil {
		return err
	}
	if jsonOut {
		recs := make([]logging.VerdictRecord, 0, len(entries))
		for _, e := range entries {
			if e.VerdictJSON == "" {
				continue
			}
			var rec logging.VerdictRecord
			if err := json.Unmarshal([]byte(e.VerdictJSON), &rec); err != nil {
				return fmt.Errorf("parse verdict %s: %w", e.TurnID, err)
			}
			recs = append(recs, rec)
		}
		return printJSON(recs)
	}
	fmt.Printf("%-10s  %-12s  %5s  %-5s  %s\n", "Turn", "Category", "Score", "Pass", "Time")
	for _, e := range entries {
		fmt.Printf("%-10s  %-12s  %5d  %-5v  %s\n",
			shortID(e.TurnID), e.Category, e.Score, e.FinalPass, e.CreatedAt.Format(timeFormat))
	}
	return nil
}

// #endregion chat-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// #endregion output
