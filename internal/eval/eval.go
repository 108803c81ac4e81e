package eval

import (
	"github.com/danielpatrickdp/persona-harness/internal/gate"
)

// #region aggregate

// Aggregate combines the three verdicts. The first matching branch wins:
//  1. all gates pass: 60, +10 voice, +15 bridge, +15 deeper
//  2. form and helpfulness pass: 50
//  3. only form passes: 20
//  4. only helpfulness passes: 20
//  5. otherwise: 0
func Aggregate(f gate.FormVerdict, h gate.HelpfulnessVerdict, e gate.EngagementVerdict) CombinedScore {
	out := CombinedScore{
		Form:        f,
		Helpfulness: h,
		Engagement:  e,
		FinalPass:   f.Passed && h.Passed && e.Passed,
	}

	switch {
	case out.FinalPass:
		out.Score = AllPassBase
		if f.Voice {
			out.Score += VoiceBonus
		}
		if e.BuildsBridge {
			out.Score += BridgeBonus
		}
		if e.InvitesDeeper {
			out.Score += DeeperBonus
		}
	case f.Passed && h.Passed:
		out.Score = FormAndHelpScore
	case f.Passed:
		out.Score = SingleGateScore
	case h.Passed:
		out.Score = SingleGateScore
	}
	return out
}

// Score runs every gate against response and aggregates the result.
func Score(input, response string) CombinedScore {
	v := gate.Evaluate(input, response)
	return Aggregate(v.Form, v.Helpfulness, v.Engagement)
}

// #endregion aggregate

// #region must-pass

// MustPass returns the named checks that did not hold, in the order given.
// Unknown check names are reported as failed so a typo cannot pass silently.
func MustPass(score CombinedScore, checks []string) []string {
	v := score.Verdicts()
	var failed []string
	for _, name := range checks {
		ok, err := v.Check(name)
		if err != nil || !ok {
			failed = append(failed, name)
		}
	}
	return failed
}

// #endregion must-pass
