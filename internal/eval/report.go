package eval

import (
	"fmt"
	"strings"
)

const reportResponseLen = 100

func passMark(ok bool) string {
	if ok {
		return "✅ PASS"
	}
	return "❌ FAIL"
}

func tick(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

// FormatReport renders a per-gate breakdown of one scored response.
func FormatReport(input, response string, score CombinedScore) string {
	var lines []string

	shown := response
	if r := []rune(response); len(r) > reportResponseLen {
		shown = string(r[:reportResponseLen]) + "..."
	}
	lines = append(lines, fmt.Sprintf(`INPUT: "%s"`, input))
	lines = append(lines, fmt.Sprintf(`RESPONSE: "%s"`, shown))
	lines = append(lines, "")

	f := score.Form
	lines = append(lines, "GATE 1 (Form): "+passMark(f.Passed))
	lines = append(lines, fmt.Sprintf("  No self-help: %s | No BS: %s | No condescension: %s | Voice: %s",
		tick(f.NoSelfHelp), tick(f.NoBullshit), tick(f.NoCondescension), tick(f.Voice)))
	lines = appendIssues(lines, f.Failures)

	h := score.Helpfulness
	lines = append(lines, "GATE 2 (Helpfulness): "+passMark(h.Passed))
	lines = append(lines, fmt.Sprintf("  Acknowledges: %s | Reframes: %s | Gives something: %s | Would help: %s",
		tick(h.Acknowledges), tick(h.Reframes), tick(h.GivesSomething), tick(h.WouldHelp)))
	lines = appendIssues(lines, h.Failures)

	e := score.Engagement
	lines = append(lines, "GATE 3 (Engagement): "+passMark(e.Passed))
	lines = append(lines, fmt.Sprintf("  Opens space: %s | No shutdown: %s | Builds bridge: %s | Invites deeper: %s",
		tick(e.OpensSpace), tick(e.NoShutdown), tick(e.BuildsBridge), tick(e.InvitesDeeper)))
	lines = appendIssues(lines, e.Failures)

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("FINAL: %s (%d/100)", passMark(score.FinalPass), score.Score))

	return strings.Join(lines, "\n")
}

func appendIssues(lines, failures []string) []string {
	if len(failures) == 0 {
		return lines
	}
	return append(lines, "  Issues: "+strings.Join(failures, ", "))
}
