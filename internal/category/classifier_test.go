package category

import (
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		utterance   string
		wantCat     Category
		wantKeyword string
	}{
		// Existential
		{"existential-peace", "How do I find peace?", Existential, "How do I find"},
		{"existential-meaning", "What's the meaning of life?", Existential, "What's the meaning"},
		{"existential-beats-frustration", "What's the point of any of this?", Existential, "What's the point"},

		// Pushback
		{"pushback-bare-what", "What?", Pushback, "What?"},
		{"pushback-not-helpful", "This is not helpful", Pushback, "This is not helpful"},
		{"pushback-you-tell-me", "You tell me", Pushback, "You tell me"},
		{"pushback-whatever", "Whatever", Pushback, "Whatever"},
		{"pushback-oh-yeah", "Oh yeah???", Pushback, "Oh yeah???"},
		{"pushback-nonsense", "That sounds like nonsense", Pushback, "sounds like nonsense"},
		{"pushback-just-said", "I just said I am not tired", Pushback, "I just said I am not"},

		// Complaint
		{"complaint-hours", "I work 60 hours a week and I'm exhausted", Complaint, "I work 60 hours"},
		{"complaint-burned-out", "I'm so tired. I am burned out", Complaint, "I am burned out"},

		// Fear
		{"fear-dying", "I'm afraid of dying", Fear, "I'm afraid"},
		{"fear-disconnected", "I feel disconnected from everyone", Fear, "I feel disconnected"},
		{"fear-what-if", "what if I fail?", Fear, "what if I fail"},

		// Frustration
		{"frustration-nothing-works", "Nothing works", Frustration, "Nothing works"},
		{"frustration-tried", "I've tried everything", Frustration, "I've tried everything"},

		// Meta
		{"meta-repeating", "You keep saying the same thing", Meta, "You keep saying"},
		{"meta-didnt-ask", "I'm surprised you didn't ask me a question", Meta, "you didn't ask"},

		// Greeting
		{"greeting-hello", "Hello there", Greeting, "Hello"},
		{"greeting-upper", "HEY", Greeting, "HEY"},
		{"greeting-trimmed", "   good morning  ", Greeting, "good morning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.utterance)
			if got.Category != tt.wantCat {
				t.Errorf("category: got %q, want %q", got.Category, tt.wantCat)
			}
			if got.Confidence != MatchConfidence {
				t.Errorf("confidence: got %v, want %v", got.Confidence, MatchConfidence)
			}
			if len(got.Keywords) != 1 || got.Keywords[0] != tt.wantKeyword {
				t.Errorf("keywords: got %q, want [%q]", got.Keywords, tt.wantKeyword)
			}
		})
	}
}

func TestClassify_Fallback(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"...",
		"That's just words",
		"I've been thinking about death lately",
		"I want to make a difference",
		"Tell me about yourself",
	}
	for _, in := range inputs {
		got := Classify(in)
		if got.Category != General {
			t.Errorf("%q: got %q, want general", in, got.Category)
		}
		if got.Confidence != FallbackConfidence {
			t.Errorf("%q: confidence got %v, want %v", in, got.Confidence, FallbackConfidence)
		}
		if len(got.Keywords) != 0 {
			t.Errorf("%q: expected no keywords, got %q", in, got.Keywords)
		}
	}
}

func TestClassify_AnchorsApplyToWholeText(t *testing.T) {
	// "what" only counts as pushback when it is the whole utterance.
	if got := Classify("what now then").Category; got == Pushback {
		t.Errorf("expected non-pushback for embedded what, got %q", got)
	}
	// Trailing context defeats the whole-text anchor.
	if got := Classify("really, I mean it").Category; got == Pushback {
		t.Errorf("expected non-pushback for 'really' with trailing text, got %q", got)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	in := "I feel alone and nothing works"
	first := Classify(in)
	for i := 0; i < 50; i++ {
		got := Classify(in)
		if got.Category != first.Category || got.Keywords[0] != first.Keywords[0] {
			t.Fatalf("iteration %d: got %+v, want %+v", i, got, first)
		}
	}
	if first.Category != Fear {
		t.Errorf("priority: got %q, want fear before frustration", first.Category)
	}
}

func TestParse(t *testing.T) {
	for _, c := range All() {
		got, err := Parse(string(c))
		if err != nil {
			t.Fatalf("parse %q: %v", c, err)
		}
		if got != c {
			t.Errorf("got %q, want %q", got, c)
		}
	}
	if _, err := Parse("sarcasm"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestAll_GeneralLast(t *testing.T) {
	all := All()
	if len(all) != 8 {
		t.Fatalf("got %d categories, want 8", len(all))
	}
	if all[len(all)-1] != General {
		t.Errorf("last category: got %q, want general", all[len(all)-1])
	}
	if len(rules) != len(all)-1 {
		t.Errorf("rule sets: got %d, want %d", len(rules), len(all)-1)
	}
}
