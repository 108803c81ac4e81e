package dialogue

// #region types

// Role identifies who produced an utterance.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one utterance in a conversation. A conversation is an
// append-only []Message; insertion order defines recency.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// #endregion types

// #region helpers

// User builds a user message.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Assistant builds an assistant message.
func Assistant(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Append returns a new slice with msgs added, never aliasing history's backing array.
func Append(history []Message, msgs ...Message) []Message {
	out := make([]Message, 0, len(history)+len(msgs))
	out = append(out, history...)
	return append(out, msgs...)
}

// Last returns the most recent message with the given role.
func Last(history []Message, role Role) (Message, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == role {
			return history[i], true
		}
	}
	return Message{}, false
}

// ByRole returns the contents of every message with the given role, oldest first.
func ByRole(history []Message, role Role) []string {
	var out []string
	for _, m := range history {
		if m.Role == role {
			out = append(out, m.Content)
		}
	}
	return out
}

// #endregion helpers
