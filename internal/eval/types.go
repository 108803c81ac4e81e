package eval

import "github.com/danielpatrickdp/persona-harness/internal/gate"

// #region combined-score

// CombinedScore is the verdict of all three gates plus the tiered score.
// Score is a coarse tier indicator, not a continuous metric.
type CombinedScore struct {
	Form        gate.FormVerdict        `json:"form"`
	Helpfulness gate.HelpfulnessVerdict `json:"helpfulness"`
	Engagement  gate.EngagementVerdict  `json:"engagement"`
	FinalPass   bool                    `json:"finalPass"`
	Score       int                     `json:"score"`
}

// Verdicts returns the gate verdicts for named-check lookups.
func (c CombinedScore) Verdicts() gate.Verdicts {
	return gate.Verdicts{Form: c.Form, Helpfulness: c.Helpfulness, Engagement: c.Engagement}
}

// #endregion combined-score

// #region ladder

// Score ladder values.
const (
	AllPassBase      = 60
	VoiceBonus       = 10
	BridgeBonus      = 15
	DeeperBonus      = 15
	FormAndHelpScore = 50
	SingleGateScore  = 20
	MaxScore         = AllPassBase + VoiceBonus + BridgeBonus + DeeperBonus
)

// #endregion ladder
