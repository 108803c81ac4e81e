package gate

import (
	"fmt"
	"regexp"
	"strings"
)

// #region helpers

func anyMatch(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// reasons returns the reason of every pattern that matches, in table order.
func reasons(patterns []reasonPattern, text string) []string {
	var out []string
	for _, p := range patterns {
		if p.re.MatchString(text) {
			out = append(out, p.reason)
		}
	}
	return out
}

// #endregion helpers

// #region form

// EvaluateForm checks the response for self-help cliches, pseudo-profound
// filler and condescension. Missing voice markers are reported but do not
// fail the gate.
func EvaluateForm(response string) FormVerdict {
	v := FormVerdict{Failures: []string{}}

	var selfHelp []string
	for _, re := range selfHelpBanned {
		if m := re.FindString(response); m != "" {
			selfHelp = append(selfHelp, m)
		}
	}
	v.NoSelfHelp = len(selfHelp) == 0
	if !v.NoSelfHelp {
		v.Failures = append(v.Failures, "Self-help: "+strings.Join(selfHelp, ", "))
	}

	bs := reasons(bullshitPatterns, response)
	v.NoBullshit = len(bs) == 0
	if !v.NoBullshit {
		v.Failures = append(v.Failures, "Bullshit: "+strings.Join(bs, ", "))
	}

	cond := reasons(condescensionPatterns, response)
	v.NoCondescension = len(cond) == 0
	if !v.NoCondescension {
		v.Failures = append(v.Failures, "Condescending: "+strings.Join(cond, ", "))
	}

	v.Voice = anyMatch(voiceMarkers, response)
	if !v.Voice {
		v.Failures = append(v.Failures, "Missing voice markers")
	}

	v.Passed = v.NoSelfHelp && v.NoBullshit && v.NoCondescension
	return v
}

// #endregion form

// #region helpfulness

// EvaluateHelpfulness checks whether the response acknowledges the user,
// offers a reframe and gives them something to work with. Any unhelpful
// deflection vetoes both the acknowledgment and the gate.
func EvaluateHelpfulness(input, response string) HelpfulnessVerdict {
	v := HelpfulnessVerdict{Failures: []string{}}

	unhelpful := reasons(unhelpfulPatterns, response)

	v.Acknowledges = anyMatch(acknowledgmentPatterns, response) && len(unhelpful) == 0
	if !v.Acknowledges {
		v.Failures = append(v.Failures, "Doesn't acknowledge their situation")
	}

	v.Reframes = anyMatch(reframePatterns, response)
	if !v.Reframes {
		v.Failures = append(v.Failures, "No reframe or new perspective")
	}

	v.GivesSomething = anyMatch(concretePatterns, response)
	if !v.GivesSomething {
		v.Failures = append(v.Failures, "Nothing concrete or actionable")
	}

	positive := 0
	for _, ok := range []bool{v.Acknowledges, v.Reframes, v.GivesSomething} {
		if ok {
			positive++
		}
	}
	v.WouldHelp = len(unhelpful) == 0 && positive >= 2
	if !v.WouldHelp {
		if len(unhelpful) > 0 {
			v.Failures = append(v.Failures, "Unhelpful: "+strings.Join(unhelpful, ", "))
		} else {
			v.Failures = append(v.Failures, "Not enough helpful elements")
		}
	}

	v.Passed = v.WouldHelp
	return v
}

// #endregion helpfulness

// #region engagement

// EvaluateEngagement checks that the response keeps the conversation open.
// Bridging to the user's words and inviting depth are reported as soft checks.
func EvaluateEngagement(input, response string) EngagementVerdict {
	v := EngagementVerdict{Failures: []string{}}

	v.OpensSpace = anyMatch(opensSpacePatterns, response)
	if !v.OpensSpace {
		v.Failures = append(v.Failures, "Doesn't open space for response")
	}

	v.NoShutdown = !anyMatch(shutdownPatterns, response)
	if !v.NoShutdown {
		v.Failures = append(v.Failures, "Shuts down conversation")
	}

	v.BuildsBridge = anyMatch(bridgePatterns, response)
	if !v.BuildsBridge {
		v.Failures = append(v.Failures, "Doesn't connect to their experience")
	}

	v.InvitesDeeper = anyMatch(deeperPatterns, response)
	if !v.InvitesDeeper {
		v.Failures = append(v.Failures, "Doesn't invite deeper exploration")
	}

	v.Passed = v.OpensSpace && v.NoShutdown
	return v
}

// #endregion engagement

// #region evaluate-all

// Evaluate runs all three gates against one response.
func Evaluate(input, response string) Verdicts {
	return Verdicts{
		Form:        EvaluateForm(response),
		Helpfulness: EvaluateHelpfulness(input, response),
		Engagement:  EvaluateEngagement(input, response),
	}
}

// Check resolves a named sub-check against the verdicts.
func (v Verdicts) Check(name string) (bool, error) {
	switch name {
	case CheckNoSelfHelp:
		return v.Form.NoSelfHelp, nil
	case CheckNoBullshit:
		return v.Form.NoBullshit, nil
	case CheckNoCondescension:
		return v.Form.NoCondescension, nil
	case CheckVoice:
		return v.Form.Voice, nil
	case CheckAcknowledges:
		return v.Helpfulness.Acknowledges, nil
	case CheckReframes:
		return v.Helpfulness.Reframes, nil
	case CheckGivesSomething:
		return v.Helpfulness.GivesSomething, nil
	case CheckWouldHelp:
		return v.Helpfulness.WouldHelp, nil
	case CheckOpensSpace:
		return v.Engagement.OpensSpace, nil
	case CheckNoShutdown:
		return v.Engagement.NoShutdown, nil
	case CheckBuildsBridge:
		return v.Engagement.BuildsBridge, nil
	case CheckInvitesDeeper:
		return v.Engagement.InvitesDeeper, nil
	}
	return false, fmt.Errorf("unknown check %q", name)
}

// #endregion evaluate-all
