package gate

// #region verdicts

// FormVerdict is the outcome of the Form gate. Voice is a soft check: it
// adds a failure when false but never blocks Passed.
type FormVerdict struct {
	NoSelfHelp      bool     `json:"noSelfHelp"`
	NoBullshit      bool     `json:"noBullshit"`
	NoCondescension bool     `json:"noCondescension"`
	Voice           bool     `json:"voice"`
	Passed          bool     `json:"passed"`
	Failures        []string `json:"failures"`
}

// HelpfulnessVerdict is the outcome of the Helpfulness gate.
type HelpfulnessVerdict struct {
	Acknowledges   bool     `json:"acknowledges"`
	Reframes       bool     `json:"reframes"`
	GivesSomething bool     `json:"givesSomething"`
	WouldHelp      bool     `json:"wouldHelp"`
	Passed         bool     `json:"passed"`
	Failures       []string `json:"failures"`
}

// EngagementVerdict is the outcome of the Engagement gate. BuildsBridge and
// InvitesDeeper are soft checks.
type EngagementVerdict struct {
	OpensSpace    bool     `json:"opensSpace"`
	NoShutdown    bool     `json:"noShutdown"`
	BuildsBridge  bool     `json:"buildsBridge"`
	InvitesDeeper bool     `json:"invitesDeeper"`
	Passed        bool     `json:"passed"`
	Failures      []string `json:"failures"`
}

// Verdicts groups the three gate outcomes for one response.
type Verdicts struct {
	Form        FormVerdict        `json:"form"`
	Helpfulness HelpfulnessVerdict `json:"helpfulness"`
	Engagement  EngagementVerdict  `json:"engagement"`
}

// #endregion verdicts

// #region check-names

// Named sub-checks, as referenced by scripted conversation turns.
const (
	CheckNoSelfHelp      = "noSelfHelp"
	CheckNoBullshit      = "noBullshit"
	CheckNoCondescension = "noCondescension"
	CheckVoice           = "voice"
	CheckAcknowledges    = "acknowledges"
	CheckReframes        = "reframes"
	CheckGivesSomething  = "givesSomething"
	CheckWouldHelp       = "wouldHelp"
	CheckOpensSpace      = "opensSpace"
	CheckNoShutdown      = "noShutdown"
	CheckBuildsBridge    = "buildsBridge"
	CheckInvitesDeeper   = "invitesDeeper"
)

// CheckNames returns every named sub-check in gate order.
func CheckNames() []string {
	return []string{
		CheckNoSelfHelp, CheckNoBullshit, CheckNoCondescension, CheckVoice,
		CheckAcknowledges, CheckReframes, CheckGivesSomething, CheckWouldHelp,
		CheckOpensSpace, CheckNoShutdown, CheckBuildsBridge, CheckInvitesDeeper,
	}
}

// #endregion check-names
