package projection

import (
	"strings"
	"testing"
)

func TestCompose_DefaultsOnly(t *testing.T) {
	got := Compose(Options{})
	want := BasePersona + "\n" +
		"\n<Depth>\nCurrent conversational depth: reflective\n" + Reflective.Addition() + "\n</Depth>" +
		"\n\n\n"
	if got != want {
		t.Errorf("compose mismatch:\ngot  %q\nwant %q", got[len(BasePersona):], want[len(BasePersona):])
	}
}

func TestCompose_SectionOrder(t *testing.T) {
	got := Compose(Options{
		Depth:     Profound,
		Topics:    []Topic{Death, Music},
		Knowledge: []string{"Muddy water is best cleared by leaving it alone.", "This is the real secret of life."},
		Style:     "<ResponseStrategy>\nINPUT TYPE: FEAR\n</ResponseStrategy>",
	})

	markers := []string{
		"You are Alan Watts",
		"<Depth>\nCurrent conversational depth: profound\nYou are going deeper.",
		"<TopicFocus>\n" + Death.Prompt() + "\n\n" + Music.Prompt() + "\n</TopicFocus>",
		"<RetrievedKnowledge>\n" + knowledgePreamble + "\n\n1. \"Muddy water is best cleared by leaving it alone.\"\n2. \"This is the real secret of life.\"\n</RetrievedKnowledge>",
		"<ResponseStrategy>",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(got, m)
		if idx < 0 {
			t.Fatalf("missing section %q", m)
		}
		if idx <= last {
			t.Errorf("section %q out of order", m)
		}
		last = idx
	}
	if !strings.HasSuffix(got, "</RetrievedKnowledge>\n\n<ResponseStrategy>\nINPUT TYPE: FEAR\n</ResponseStrategy>") {
		t.Errorf("unexpected tail: %q", got[len(got)-120:])
	}
}

func TestCompose_OmitsEmptySections(t *testing.T) {
	got := Compose(Options{Persona: "custom persona", Depth: Casual})
	if !strings.HasPrefix(got, "custom persona\n") {
		t.Errorf("persona override ignored")
	}
	for _, tag := range []string{"<TopicFocus>", "<RetrievedKnowledge>", "<ResponseStrategy>"} {
		if strings.Contains(got, tag) {
			t.Errorf("unexpected %s", tag)
		}
	}
}

func TestCompose_UnknownDepthFallsBack(t *testing.T) {
	got := Compose(Options{Depth: "sideways"})
	if !strings.Contains(got, "Current conversational depth: reflective") {
		t.Error("unknown depth did not fall back to reflective")
	}
}

func TestParseDepth(t *testing.T) {
	tests := []struct {
		in      string
		want    Depth
		wantErr bool
	}{
		{"", Reflective, false},
		{"casual", Casual, false},
		{" Mind-Bending ", MindBending, false},
		{"deep", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDepth(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err: got %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("depth: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTopics(t *testing.T) {
	got, err := ParseTopics([]string{"ego", "Non-Duality"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1] != NonDuality {
		t.Errorf("topics: got %v", got)
	}
	if _, err := ParseTopics([]string{"ego", "cooking"}); err == nil {
		t.Error("expected error for unknown topic")
	}
}

func TestEveryDepthAndTopicHasText(t *testing.T) {
	for _, d := range Depths() {
		if depthAdditions[d] == "" {
			t.Errorf("depth %s: no addition", d)
		}
	}
	if len(Topics()) != 10 {
		t.Errorf("topics: got %d, want 10", len(Topics()))
	}
	for _, tp := range Topics() {
		if tp.Prompt() == "" {
			t.Errorf("topic %s: no prompt", tp)
		}
	}
}
