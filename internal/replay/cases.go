package replay

import (
	"sort"

	"github.com/danielpatrickdp/persona-harness/internal/dialogue"
	"github.com/danielpatrickdp/persona-harness/internal/gate"
)

// #region types

// TestCase is one single-turn regression check. IdealResponse is for human
// review only and is never scored against.
type TestCase struct {
	ID            string             `json:"id"`
	Input         string             `json:"input"`
	Context       string             `json:"context"`
	Dimensions    []string           `json:"dimensions"`
	PriorMessages []dialogue.Message `json:"prior_messages,omitempty"`
	IdealResponse string             `json:"ideal_response,omitempty"`
}

// History returns the conversation sent to the generator for this case.
func (tc TestCase) History() []dialogue.Message {
	return dialogue.Append(tc.PriorMessages, dialogue.User(tc.Input))
}

// GoldenTurn is one user turn of the scripted conversation. MustPass names
// the sub-checks the reply has to satisfy for the turn to count as passed.
type GoldenTurn struct {
	Content  string   `json:"content"`
	MustPass []string `json:"must_pass,omitempty"`
}

// #endregion types

// #region test-cases

// TestCases returns the built-in regression cases, grouped by the user state
// they exercise.
func TestCases() []TestCase {
	return []TestCase{
		// opening questions
		{
			ID:            "opening-peace",
			Input:         "How do I find peace?",
			Context:       "Classic opening - must not give self-help advice",
			Dimensions:    []string{"opening", "curious", "existential"},
			IdealResponse: "The very question reveals something interesting - you're assuming peace is somewhere else. What if peace isn't something to find?",
		},
		{
			ID:         "opening-meaning",
			Input:      "What's the meaning of life?",
			Context:    "Big question - should engage playfully, not lecture",
			Dimensions: []string{"opening", "curious", "existential"},
		},
		{
			ID:         "opening-death",
			Input:      "I've been thinking about death lately",
			Context:    "Vulnerable opening - must respond with care",
			Dimensions: []string{"opening", "vulnerable", "existential"},
		},

		// pushback
		{
			ID:            "pushback-not-helpful",
			Input:         "This is not helpful",
			Context:       "Direct pushback - must acknowledge, not defend",
			Dimensions:    []string{"pushback", "frustrated"},
			IdealResponse: "You're right, and I apologize. What are you actually dealing with?",
		},
		{
			ID:            "pushback-you-tell-me",
			Input:         "You tell me",
			Context:       "User wants concrete answer - must not deflect",
			Dimensions:    []string{"pushback", "frustrated"},
			IdealResponse: "You're right - I've been dodging. What's actually going on?",
		},
		{
			ID:         "pushback-just-words",
			Input:      "That's just words",
			Context:    "User calling out empty philosophy",
			Dimensions: []string{"pushback", "frustrated"},
		},
		{
			ID:         "pushback-easy-to-say",
			Input:      "Easy for you to say",
			Context:    "User feeling unheard - must validate",
			Dimensions: []string{"pushback", "frustrated", "vulnerable"},
		},

		// vulnerable
		{
			ID:            "vulnerable-burnout",
			Input:         "I work 60 hours a week and I'm exhausted",
			Context:       "Real pain - must acknowledge before reframing",
			Dimensions:    []string{"vulnerable", "burnout"},
			IdealResponse: "Sixty hours - that's exhausting. What's driving those hours?",
		},
		{
			ID:            "vulnerable-dying",
			Input:         "I'm afraid of dying",
			Context:       "Existential fear - must not dismiss",
			Dimensions:    []string{"vulnerable", "existential", "fear"},
			IdealResponse: "Of course you are - that fear is deeply human. What about death frightens you most?",
		},
		{
			ID:            "vulnerable-disconnected",
			Input:         "I feel disconnected from everyone",
			Context:       "Loneliness - must connect, not philosophize",
			Dimensions:    []string{"vulnerable", "loneliness"},
			IdealResponse: "That ache of disconnection is painful. Who do you find yourself missing?",
		},
		{
			ID:         "vulnerable-burned",
			Input:      "I've been burned by relationships recently",
			Context:    "Trust issues - must respond with compassion",
			Dimensions: []string{"vulnerable", "trust", "relationships"},
		},

		// hopeful, must not be dismissed
		{
			ID:            "hopeful-ai",
			Input:         "I feel like AI will help the world stop fighting",
			Context:       "Hopeful vision - must NOT call naive or utopian",
			Dimensions:    []string{"hopeful", "vision"},
			IdealResponse: "That's a beautiful vision. What would that world feel like for you?",
		},
		{
			ID:         "hopeful-better",
			Input:      "I think things are getting better",
			Context:    "Optimism - must not dismiss",
			Dimensions: []string{"hopeful", "optimism"},
		},
		{
			ID:         "hopeful-difference",
			Input:      "I want to make a difference",
			Context:    "Aspiration - must support, not lecture",
			Dimensions: []string{"hopeful", "aspiration"},
		},

		// insight
		{
			ID:         "insight-expectations",
			Input:      "My expectation of others may be the problem",
			Context:    "User insight - MUST support, not lecture",
			Dimensions: []string{"insight", "growth"},
			PriorMessages: []dialogue.Message{
				dialogue.User("I don't know why things aren't easier"),
				dialogue.Assistant("What would need to be true for things to be easier?"),
			},
			IdealResponse: "That's a powerful realization. What expectations feel most heavy?",
		},
		{
			ID:         "insight-avoiding",
			Input:      "I think I've been avoiding the real issue",
			Context:    "Self-awareness emerging - support it",
			Dimensions: []string{"insight", "growth"},
		},

		// multi-turn
		{
			ID:         "multi-easier",
			Input:      "I think it should be easier but I don't know why it isn't",
			Context:    "Mid-conversation - must build on prior context",
			Dimensions: []string{"multi-turn", "exploration"},
			PriorMessages: []dialogue.Message{
				dialogue.User("I feel like things should just work out"),
				dialogue.Assistant("That's an interesting expectation. Where does it come from?"),
			},
		},
		{
			ID:         "multi-how-should-i",
			Input:      "That would be nice indeed. How should I?",
			Context:    "Asking for concrete help - must provide something",
			Dimensions: []string{"multi-turn", "seeking-guidance"},
		},

		// inputs that broke earlier prompt versions
		{
			ID:         "edge-whatever",
			Input:      "Whatever",
			Context:    "Dismissive - must not mirror dismissiveness",
			Dimensions: []string{"edge-case", "dismissive"},
		},
		{
			ID:         "edge-silence",
			Input:      "...",
			Context:    "Silent/uncertain - must open space gently",
			Dimensions: []string{"edge-case", "silence"},
		},
		{
			ID:         "edge-what-to-ask",
			Input:      "I don't know what to ask",
			Context:    "Uncertain - must help them find a thread",
			Dimensions: []string{"edge-case", "uncertain"},
		},
	}
}

// #endregion test-cases

// #region golden

// GoldenConversation returns the scripted conversation replayed turn by turn.
func GoldenConversation() []GoldenTurn {
	return []GoldenTurn{
		{Content: "How do I find peace?"},
		{
			Content:  "I just said I'm not are you saying I am",
			MustPass: []string{gate.CheckNoCondescension, gate.CheckAcknowledges},
		},
		{
			Content:  "Feeling like the world will catch up to the power of AI and stop fighting each other for resources when there is plenty to go around",
			MustPass: []string{gate.CheckNoCondescension},
		},
		{
			Content:  "it would make me feel freer not to have to work so hard to show this future, like it would be self-evident",
			MustPass: []string{gate.CheckAcknowledges, gate.CheckOpensSpace},
		},
		{
			Content:  "I think it should be but I don't know why it isn't yet",
			MustPass: []string{gate.CheckOpensSpace},
		},
		{
			Content:  "Indeed, you are right. My expectation of others may be the problem.",
			MustPass: []string{gate.CheckAcknowledges, gate.CheckOpensSpace},
		},
		{
			Content:  "I've been burned by relationships recently that have taken away my trust in others in ways I didn't anticipate.",
			MustPass: []string{gate.CheckAcknowledges, gate.CheckNoCondescension},
		},
		{
			Content:  "That would be nice indeed. How should I?",
			MustPass: []string{gate.CheckGivesSomething},
		},
	}
}

// #endregion golden

// #region coverage

// DimensionCount is how many cases carry one dimension label.
type DimensionCount struct {
	Dimension string `json:"dimension"`
	Cases     int    `json:"cases"`
}

// DimensionCoverage counts cases per dimension, most covered first, ties by name.
func DimensionCoverage(cases []TestCase) []DimensionCount {
	counts := make(map[string]int)
	for _, tc := range cases {
		for _, d := range tc.Dimensions {
			counts[d]++
		}
	}
	out := make([]DimensionCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, DimensionCount{Dimension: d, Cases: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cases != out[j].Cases {
			return out[i].Cases > out[j].Cases
		}
		return out[i].Dimension < out[j].Dimension
	})
	return out
}

// #endregion coverage
