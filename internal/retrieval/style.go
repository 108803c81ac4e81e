package retrieval

// #region imports
import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/danielpatrickdp/persona-harness/internal/category"
	"github.com/danielpatrickdp/persona-harness/internal/dialogue"
	"github.com/danielpatrickdp/persona-harness/internal/interior"
)

// #endregion imports

const (
	examplesPerTurn  = 2
	lastResponseSize = 200
)

// #region retrieve

// Retrieve looks up the category's guidance, picks examples with rng and
// scans history for repetition. A nil rng uses the process-wide source.
func Retrieve(match category.Match, history []dialogue.Message, rng *rand.Rand) StyleContext {
	pattern, ok := Patterns[match.Category]
	if !ok {
		pattern = Patterns[category.General]
	}
	return StyleContext{
		Match:        match,
		Pattern:      pattern,
		Examples:     selectExamples(pattern.Examples, examplesPerTurn, rng),
		UsedPhrases:  UsedPhrases(history),
		LastResponse: LastResponse(history),
		Reminder:     reminders[match.Category],
	}
}

// Build classifies input and renders its style guidance in one step.
func Build(input string, history []dialogue.Message, rng *rand.Rand) string {
	return Retrieve(category.Classify(input), history, rng).Render()
}

func selectExamples(examples []Example, n int, rng *rand.Rand) []Example {
	if n > len(examples) {
		n = len(examples)
	}
	var perm []int
	if rng != nil {
		perm = rng.Perm(len(examples))
	} else {
		perm = rand.Perm(len(examples))
	}
	out := make([]Example, n)
	for i := 0; i < n; i++ {
		out[i] = examples[perm[i]]
	}
	return out
}

// #endregion retrieve

// #region history-scan

// UsedPhrases returns the tracked phrases found in any assistant turn.
// Comparison is case-insensitive on both sides.
func UsedPhrases(history []dialogue.Message) []string {
	spoken := dialogue.ByRole(history, dialogue.RoleAssistant)
	if len(spoken) == 0 {
		return nil
	}
	for i := range spoken {
		spoken[i] = strings.ToLower(spoken[i])
	}

	var used []string
	for _, phrase := range TrackedPhrases {
		needle := strings.ToLower(phrase)
		for _, s := range spoken {
			if strings.Contains(s, needle) {
				used = append(used, phrase)
				break
			}
		}
	}
	return used
}

// LastResponse returns the most recent assistant reply, preferring the
// inner text of its <response> section.
func LastResponse(history []dialogue.Message) string {
	last, ok := dialogue.Last(history, dialogue.RoleAssistant)
	if !ok {
		return ""
	}
	return interior.ResponseText(last.Content)
}

// Truncate shortens s to max runes and marks the cut with "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// #endregion history-scan

// #region render

// Render assembles the instruction block injected into the system prompt.
func (sc StyleContext) Render() string {
	var b strings.Builder

	b.WriteString("<ResponseStrategy>\n")
	fmt.Fprintf(&b, "INPUT TYPE: %s (confidence: %.0f%%)\n\n",
		strings.ToUpper(string(sc.Match.Category)), sc.Match.Confidence*100)

	b.WriteString("TECHNIQUE FOR THIS INPUT:\n")
	writeBullets(&b, sc.Pattern.Techniques)
	b.WriteString("\n\nEXAMPLES FOR THIS TYPE:\n")
	for i, ex := range sc.Examples {
		fmt.Fprintf(&b, "\nExample %d:\nUser: \"%s\"\n<pondering>%s</pondering>\n<response>%s</response>\n",
			i+1, ex.Input, ex.Pondering, ex.Response)
	}
	b.WriteString("\n\nAVOID FOR THIS TYPE:\n")
	writeBullets(&b, sc.Pattern.Avoid)
	b.WriteString("\n</ResponseStrategy>")

	if len(sc.UsedPhrases) > 0 {
		b.WriteString("\n\n<AntiRepetition>\nPHRASES ALREADY USED IN THIS CONVERSATION (DO NOT REPEAT):\n")
		for i, p := range sc.UsedPhrases {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "- \"%s\"", p)
		}
		b.WriteString("\n\nFind a DIFFERENT way to express your insight. Be fresh.\n</AntiRepetition>")
	}

	if sc.LastResponse != "" {
		fmt.Fprintf(&b, "\n\n<DoNotRepeat>\nYOUR LAST RESPONSE WAS: \"%s\"\n\n", Truncate(sc.LastResponse, lastResponseSize))
		b.WriteString("DO NOT REPEAT THIS. Say something NEW that responds to what they just said.\n")
		b.WriteString("The user has now said something different - respond to THAT, not to the original question.\n</DoNotRepeat>")
	}

	if sc.Reminder != "" {
		b.WriteString("\n\n")
		b.WriteString(sc.Reminder)
	}

	return b.String()
}

func writeBullets(b *strings.Builder, items []string) {
	for i, it := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(it)
	}
}

// #endregion render
