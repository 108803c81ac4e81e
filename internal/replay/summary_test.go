package replay

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/danielpatrickdp/persona-harness/internal/eval"
)

func scored(dims []string, input, response string) CaseResult {
	s := eval.Score(input, response)
	return CaseResult{Case: TestCase{Input: input, Dimensions: dims}, Response: response, Score: &s}
}

func TestSummarize_AllPass(t *testing.T) {
	var cases []CaseResult
	for i := 0; i < 5; i++ {
		cases = append(cases, scored([]string{"pushback"}, "This is not helpful", goodReply))
	}
	golden := []GoldenTurnResult{{Passed: true}, {Passed: true}}

	r := Summarize(cases, golden, DefaultThresholds())
	if r.Status != StatusPass {
		t.Errorf("status: got %q, want %q (regressions %v)", r.Status, StatusPass, r.Regressions)
	}
	if r.Gate1.Passes != 5 || r.Gate1.Total != 5 || r.Gate1.Pct != 100 {
		t.Errorf("gate1: got %+v", r.Gate1)
	}
	if r.AvgScore != 70 {
		t.Errorf("avg: got %v, want 70", r.AvgScore)
	}
	if len(r.Dimensions) != 1 || r.Dimensions[0].Dimension != "pushback" || r.Dimensions[0].Passes != 5 {
		t.Errorf("dimensions: got %+v", r.Dimensions)
	}
	if r.Golden.Passed != 2 || r.Golden.Failed != 0 {
		t.Errorf("golden: got %+v", r.Golden)
	}
}

func TestSummarize_NamedRegressions(t *testing.T) {
	cases := []CaseResult{
		scored([]string{"vulnerable", "fear"}, "x", "Life goes on."),
		scored([]string{"vulnerable"}, "x", "Life goes on."),
		scored([]string{"vulnerable"}, "x", "(laughs) You want me to spoon-feed it to you?"),
		{Case: TestCase{ID: "broken", Dimensions: []string{"vulnerable"}}, Err: "generate: timeout"},
	}
	golden := []GoldenTurnResult{
		{Turn: GoldenTurn{Content: "Feeling like the world will catch up to the power of AI"}, FailedChecks: []string{"noCondescension"}},
		{Turn: GoldenTurn{Content: "b"}, Err: "boom"},
		{Turn: GoldenTurn{Content: "c"}, FailedChecks: []string{"opensSpace"}},
		{Turn: GoldenTurn{Content: "d"}, FailedChecks: []string{"acknowledges"}},
	}

	r := Summarize(cases, golden, DefaultThresholds())
	want := []string{
		"Gate 1 below 80%",
		"Gate 2 below 80%",
		"Gate 3 below 70%",
		"All-pass below 60%",
		"Avg score below 55",
		"Golden conversation: 4 failures (max 3)",
		`Dimension "vulnerable" below 50%`,
	}
	if strings.Join(r.Regressions, "|") != strings.Join(want, "|") {
		t.Errorf("regressions:\ngot  %v\nwant %v", r.Regressions, want)
	}
	if r.Status != StatusRegression {
		t.Errorf("status: got %q", r.Status)
	}
	if r.Errors != 1 || r.Scored != 3 || r.Cases != 4 {
		t.Errorf("counts: cases=%d scored=%d errors=%d", r.Cases, r.Scored, r.Errors)
	}
	if r.Dimensions[0].Dimension != "fear" || r.Dimensions[1].Total != 3 {
		t.Errorf("dimensions: got %+v", r.Dimensions)
	}
	if r.Golden.Details[0] != `"Feeling like the world will catch up to ..." failed: noCondescension` {
		t.Errorf("detail: got %q", r.Golden.Details[0])
	}
	if r.Golden.Details[1] != `"b..." failed: error: boom` {
		t.Errorf("detail: got %q", r.Golden.Details[1])
	}
}

func TestSummarize_SmallDimensionIgnored(t *testing.T) {
	cases := []CaseResult{
		scored([]string{"rare"}, "x", "Life goes on."),
		scored([]string{"rare"}, "x", "Life goes on."),
	}
	th := DefaultThresholds()
	th.MinGate1Pass, th.MinGate2Pass, th.MinGate3Pass, th.MinAllPass, th.MinAvgScore = 0, 0, 0, 0, 0

	r := Summarize(cases, nil, th)
	if len(r.Regressions) != 0 {
		t.Errorf("regressions: got %v, want none", r.Regressions)
	}
}

func TestSummarize_NoScoredCases(t *testing.T) {
	r := Summarize([]CaseResult{{Err: "down"}}, nil, DefaultThresholds())
	if r.Gate1.Pct != 0 || r.AvgScore != 0 {
		t.Errorf("empty rates: got %+v avg %v", r.Gate1, r.AvgScore)
	}
	if r.Status != StatusRegression {
		t.Errorf("status: got %q, want %q", r.Status, StatusRegression)
	}
}

func TestReport_Devlog(t *testing.T) {
	cases := []CaseResult{
		scored(nil, "This is not helpful", goodReply),
		scored(nil, "x", "Life goes on."),
	}
	r := Summarize(cases, []GoldenTurnResult{{Passed: true}}, DefaultThresholds())
	entry := r.Devlog(5, time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC))

	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	for _, want := range []string{
		`"category":"research"`,
		`"title":"Study Loop v5 2026-03-09"`,
		`"gate1":{"passes":2,"total":2,"pct":"100"}`,
		`"allPass":{"passes":1,"total":2,"pct":"50"}`,
		`"avgScore":45`,
		`"golden":{"passed":1,"failed":0}`,
		`"status":"REGRESSION"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("devlog missing %s in %s", want, got)
		}
	}
}

func TestReport_Format(t *testing.T) {
	r := Summarize([]CaseResult{scored([]string{"pushback"}, "This is not helpful", goodReply)}, nil, DefaultThresholds())
	out := r.Format()
	for _, want := range []string{"Gate 1 (Form) passes:", "1/1 (100%)", "Average score:", "70.0/100", "pushback", "██████████", "NO REGRESSIONS DETECTED"} {
		if !strings.Contains(out, want) {
			t.Errorf("format missing %q:\n%s", want, out)
		}
	}
}
