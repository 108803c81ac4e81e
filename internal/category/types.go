package category

import "fmt"

// #region category

// Category is the communicative intent of a user utterance.
type Category string

const (
	Existential Category = "existential"
	Pushback    Category = "pushback"
	Complaint   Category = "complaint"
	Fear        Category = "fear"
	Frustration Category = "frustration"
	Meta        Category = "meta"
	Greeting    Category = "greeting"
	General     Category = "general"
)

// All returns every category in classification priority order, general last.
func All() []Category {
	return []Category{Existential, Pushback, Complaint, Fear, Frustration, Meta, Greeting, General}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range All() {
		if c == known {
			return true
		}
	}
	return false
}

// Parse converts a string into a Category.
func Parse(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// #endregion category

// #region match

const (
	// MatchConfidence is reported for any rule hit.
	MatchConfidence float32 = 0.8
	// FallbackConfidence is reported for the general fallback.
	FallbackConfidence float32 = 0.5
)

// Match is the classifier output for one utterance.
// Confidence is a display constant, not a probability.
type Match struct {
	Category   Category `json:"category"`
	Confidence float32  `json:"confidence"`
	Keywords   []string `json:"keywords"`
}

// #endregion match
