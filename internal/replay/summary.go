package replay

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// #region thresholds

// Thresholds are the minimum acceptable aggregates for a run.
type Thresholds struct {
	MinGate1Pass      float64 `json:"min_gate1_pass" toml:"min_gate1_pass"`
	MinGate2Pass      float64 `json:"min_gate2_pass" toml:"min_gate2_pass"`
	MinGate3Pass      float64 `json:"min_gate3_pass" toml:"min_gate3_pass"`
	MinAllPass        float64 `json:"min_all_pass" toml:"min_all_pass"`
	MinAvgScore       float64 `json:"min_avg_score" toml:"min_avg_score"`
	MaxGoldenFails    int     `json:"max_golden_fails" toml:"max_golden_fails"`
	MinDimensionPass  float64 `json:"min_dimension_pass" toml:"min_dimension_pass"`
	MinDimensionCases int     `json:"min_dimension_cases" toml:"min_dimension_cases"`
}

// DefaultThresholds returns the thresholds the harness ships with.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinGate1Pass:      0.8,
		MinGate2Pass:      0.8,
		MinGate3Pass:      0.7,
		MinAllPass:        0.6,
		MinAvgScore:       55,
		MaxGoldenFails:    3,
		MinDimensionPass:  0.5,
		MinDimensionCases: 3,
	}
}

// #endregion thresholds

// #region report-types

// Status values for a run.
const (
	StatusPass       = "PASS"
	StatusRegression = "REGRESSION"
)

// PassStat is a pass count over a total.
type PassStat struct {
	Passes int     `json:"passes"`
	Total  int     `json:"total"`
	Pct    float64 `json:"pct"`
}

func newPassStat(passes, total int) PassStat {
	s := PassStat{Passes: passes, Total: total}
	if total > 0 {
		s.Pct = float64(passes) / float64(total) * 100
	}
	return s
}

// Rate is the pass fraction in [0,1]; an empty stat has rate 0.
func (s PassStat) Rate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passes) / float64(s.Total)
}

// DimensionStat is the all-gates pass rate for one dimension label.
type DimensionStat struct {
	Dimension string `json:"dimension"`
	PassStat
}

// GoldenSummary counts scripted turns that met their required checks.
type GoldenSummary struct {
	Passed  int      `json:"passed"`
	Failed  int      `json:"failed"`
	Details []string `json:"details"`
}

// Report aggregates one harness run. Field order is stable for diffing.
type Report struct {
	Cases       int             `json:"cases"`
	Scored      int             `json:"scored"`
	Errors      int             `json:"errors"`
	Gate1       PassStat        `json:"gate1"`
	Gate2       PassStat        `json:"gate2"`
	Gate3       PassStat        `json:"gate3"`
	AllPass     PassStat        `json:"all_pass"`
	AvgScore    float64         `json:"avg_score"`
	Dimensions  []DimensionStat `json:"dimensions"`
	Golden      GoldenSummary   `json:"golden"`
	Regressions []string        `json:"regressions"`
	Status      string          `json:"status"`
}

// #endregion report-types

// #region summarize

// Summarize aggregates case and golden results and checks them against
// thresholds. Only scored cases enter the rates; execution errors are counted
// separately. With no scored cases every rate is 0.
func Summarize(cases []CaseResult, golden []GoldenTurnResult, th Thresholds) Report {
	r := Report{Cases: len(cases), Regressions: []string{}}

	var g1, g2, g3, all, total int
	dims := make(map[string]*PassStat)
	for _, c := range cases {
		if c.Score == nil {
			r.Errors++
			continue
		}
		r.Scored++
		s := c.Score
		if s.Form.Passed {
			g1++
		}
		if s.Helpfulness.Passed {
			g2++
		}
		if s.Engagement.Passed {
			g3++
		}
		if s.FinalPass {
			all++
		}
		total += s.Score

		for _, d := range c.Case.Dimensions {
			st, ok := dims[d]
			if !ok {
				st = &PassStat{}
				dims[d] = st
			}
			st.Total++
			if s.FinalPass {
				st.Passes++
			}
		}
	}

	r.Gate1 = newPassStat(g1, r.Scored)
	r.Gate2 = newPassStat(g2, r.Scored)
	r.Gate3 = newPassStat(g3, r.Scored)
	r.AllPass = newPassStat(all, r.Scored)
	if r.Scored > 0 {
		r.AvgScore = float64(total) / float64(r.Scored)
	}

	names := make([]string, 0, len(dims))
	for d := range dims {
		names = append(names, d)
	}
	sort.Strings(names)
	r.Dimensions = make([]DimensionStat, 0, len(names))
	for _, d := range names {
		st := dims[d]
		r.Dimensions = append(r.Dimensions, DimensionStat{Dimension: d, PassStat: newPassStat(st.Passes, st.Total)})
	}

	r.Golden.Details = []string{}
	for _, t := range golden {
		if t.Passed {
			r.Golden.Passed++
			continue
		}
		r.Golden.Failed++
		reason := strings.Join(t.FailedChecks, ", ")
		if t.Err != "" {
			reason = "error: " + t.Err
		}
		r.Golden.Details = append(r.Golden.Details, fmt.Sprintf(`"%s..." failed: %s`, prefix(t.Turn.Content, 40), reason))
	}

	r.Regressions = regressions(r, th)
	r.Status = StatusPass
	if len(r.Regressions) > 0 {
		r.Status = StatusRegression
	}
	return r
}

func regressions(r Report, th Thresholds) []string {
	out := []string{}
	if r.Gate1.Rate() < th.MinGate1Pass {
		out = append(out, fmt.Sprintf("Gate 1 below %s%%", pct(th.MinGate1Pass)))
	}
	if r.Gate2.Rate() < th.MinGate2Pass {
		out = append(out, fmt.Sprintf("Gate 2 below %s%%", pct(th.MinGate2Pass)))
	}
	if r.Gate3.Rate() < th.MinGate3Pass {
		out = append(out, fmt.Sprintf("Gate 3 below %s%%", pct(th.MinGate3Pass)))
	}
	if r.AllPass.Rate() < th.MinAllPass {
		out = append(out, fmt.Sprintf("All-pass below %s%%", pct(th.MinAllPass)))
	}
	if r.AvgScore < th.MinAvgScore {
		out = append(out, fmt.Sprintf("Avg score below %g", th.MinAvgScore))
	}
	if r.Golden.Failed > th.MaxGoldenFails {
		out = append(out, fmt.Sprintf("Golden conversation: %d failures (max %d)", r.Golden.Failed, th.MaxGoldenFails))
	}
	for _, d := range r.Dimensions {
		if d.Total >= th.MinDimensionCases && d.Rate() < th.MinDimensionPass {
			out = append(out, fmt.Sprintf("Dimension %q below %s%%", d.Dimension, pct(th.MinDimensionPass)))
		}
	}
	return out
}

// pct renders a fraction as a whole percentage, 0.8 -> "80".
func pct(f float64) string {
	return fmt.Sprintf("%.0f", math.Round(f*100))
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// #endregion summarize

// #region format

// Format renders the run summary for a terminal.
func (r Report) Format() string {
	var b strings.Builder
	line := func(label string, s PassStat) {
		fmt.Fprintf(&b, "%-28s %d/%d (%.0f%%)\n", label, s.Passes, s.Total, s.Pct)
	}
	line("Gate 1 (Form) passes:", r.Gate1)
	line("Gate 2 (Helpfulness) passes:", r.Gate2)
	line("Gate 3 (Engagement) passes:", r.Gate3)
	line("ALL gates pass:", r.AllPass)
	fmt.Fprintf(&b, "%-28s %.1f/100\n", "Average score:", r.AvgScore)
	if r.Errors > 0 {
		fmt.Fprintf(&b, "%-28s %d\n", "Execution errors:", r.Errors)
	}
	fmt.Fprintf(&b, "%-28s %d/%d passed\n", "Golden conversation:", r.Golden.Passed, r.Golden.Passed+r.Golden.Failed)

	if len(r.Dimensions) > 0 {
		b.WriteString("\nRESULTS BY DIMENSION:\n")
		for _, d := range r.Dimensions {
			filled := int(math.Round(d.Rate() * 10))
			bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
			fmt.Fprintf(&b, "  %-18s %s %d/%d (%.0f%%)\n", d.Dimension, bar, d.Passes, d.Total, d.Pct)
		}
	}

	b.WriteString("\nREGRESSION CHECK:\n")
	if len(r.Regressions) == 0 {
		b.WriteString("  NO REGRESSIONS DETECTED\n")
	} else {
		for _, reg := range r.Regressions {
			fmt.Fprintf(&b, "  - %s\n", reg)
		}
	}
	return b.String()
}

// #endregion format

// #region devlog

// DevlogMetric is a pass count with the percentage rendered as whole text.
type DevlogMetric struct {
	Passes int    `json:"passes"`
	Total  int    `json:"total"`
	Pct    string `json:"pct"`
}

// DevlogEntry is the research log record written after a run.
type DevlogEntry struct {
	Category    string        `json:"category"`
	Title       string        `json:"title"`
	Version     int           `json:"version"`
	Metrics     DevlogMetrics `json:"metrics"`
	Regressions []string      `json:"regressions"`
	Status      string        `json:"status"`
}

// DevlogMetrics holds the headline numbers of a run.
type DevlogMetrics struct {
	Gate1    DevlogMetric `json:"gate1"`
	Gate2    DevlogMetric `json:"gate2"`
	Gate3    DevlogMetric `json:"gate3"`
	AllPass  DevlogMetric `json:"allPass"`
	AvgScore float64      `json:"avgScore"`
	Golden   DevlogGolden `json:"golden"`
}

// DevlogGolden is the golden conversation tally without per-turn details.
type DevlogGolden struct {
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

func devlogMetric(s PassStat) DevlogMetric {
	return DevlogMetric{Passes: s.Passes, Total: s.Total, Pct: fmt.Sprintf("%.0f", s.Pct)}
}

// Devlog builds the log entry for this report.
func (r Report) Devlog(version int, now time.Time) DevlogEntry {
	return DevlogEntry{
		Category: "research",
		Title:    fmt.Sprintf("Study Loop v%d %s", version, now.UTC().Format("2006-01-02")),
		Version:  version,
		Metrics: DevlogMetrics{
			Gate1:    devlogMetric(r.Gate1),
			Gate2:    devlogMetric(r.Gate2),
			Gate3:    devlogMetric(r.Gate3),
			AllPass:  devlogMetric(r.AllPass),
			AvgScore: r.AvgScore,
			Golden:   DevlogGolden{Passed: r.Golden.Passed, Failed: r.Golden.Failed},
		},
		Regressions: r.Regressions,
		Status:      r.Status,
	}
}

// #endregion devlog
