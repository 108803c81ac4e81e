package projection

import (
	"fmt"
	"strings"
)

// #region options

// Options selects what goes into a system prompt. Zero values mean the
// base persona at the default depth with no extra sections.
type Options struct {
	Persona   string
	Depth     Depth
	Topics    []Topic
	Knowledge []string // retrieved quotes in relevance order
	Style     string   // rendered style guidance for the current turn
}

// #endregion options

// #region compose

const knowledgePreamble = "You may find some of your past words here to inspire your response. Weave them in naturally if they fit. Do not simply recite them."

// Compose assembles the system prompt. Section order is fixed: persona,
// depth, topic focus, retrieved knowledge, style guidance. Empty optional
// sections leave a blank line so the layout stays stable.
func Compose(opts Options) string {
	persona := opts.Persona
	if persona == "" {
		persona = BasePersona
	}
	depth := opts.Depth
	if _, ok := depthAdditions[depth]; !ok {
		depth = DefaultDepth
	}

	sections := []string{
		persona,
		depthSection(depth),
		topicSection(opts.Topics),
		knowledgeSection(opts.Knowledge),
		"",
	}
	if opts.Style != "" {
		sections[4] = "\n" + opts.Style
	}
	return strings.Join(sections, "\n")
}

func depthSection(d Depth) string {
	return fmt.Sprintf("\n<Depth>\nCurrent conversational depth: %s\n%s\n</Depth>", d, d.Addition())
}

func topicSection(topics []Topic) string {
	var prompts []string
	for _, t := range topics {
		if p := t.Prompt(); p != "" {
			prompts = append(prompts, p)
		}
	}
	if len(prompts) == 0 {
		return ""
	}
	return "\n<TopicFocus>\n" + strings.Join(prompts, "\n\n") + "\n</TopicFocus>"
}

func knowledgeSection(quotes []string) string {
	if len(quotes) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n<RetrievedKnowledge>\n")
	b.WriteString(knowledgePreamble)
	b.WriteString("\n\n")
	for i, q := range quotes {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. \"%s\"", i+1, q)
	}
	b.WriteString("\n</RetrievedKnowledge>")
	return b.String()
}

// #endregion compose
