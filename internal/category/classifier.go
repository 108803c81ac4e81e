package category

// #region imports
import (
	"regexp"
	"strings"
)

// #endregion

// #region rules

type categoryRules struct {
	category Category
	patterns []*regexp.Regexp
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + e)
	}
	return out
}

// rules is walked top to bottom. Order is the tie-breaker between categories,
// so a bare "What?" lands in pushback before anything else can claim it.
var rules = []categoryRules{
	{Existential, compile(
		`how (do|can|should) I (find|get|achieve|reach|attain)`,
		`what('s| is) the (meaning|purpose|point)`,
		`why (do|am|are) (I|we)`,
		`I (want|need|seek) (to find|peace|happiness|meaning)`,
	)},
	{Pushback, compile(
		`^(oh yeah|really|sure|right|whatever)\?*$`,
		`^what\??$`,
		`^(huh|hmm|meh|eh)\?*$`,
		`I don't (understand|get it|follow)`,
		`are you sure`,
		`(sounds like|that's) (nonsense|garbage|empty|meaningless)`,
		`what a (dumb|stupid|silly)`,
		`you're just (saying|making)`,
		`that (doesn't|does not) (make sense|help)`,
		`what do you mean`,
		`I (just )?said I (am not|don't|didn't|can't|won't)`,
		`^you tell me`,
		`you're not helping`,
		`this (is|isn't) (not )?(helpful|helping|working)`,
		`^(so|then) what`,
	)},
	{Complaint, compile(
		`I (work|worked) (\d+|too many) hours`,
		`I('m| am) (exhausted|tired|burned out|burnt out)`,
		`I (have|got) (too much|so much)`,
		`I (can't|cannot) (stop|rest|relax)`,
		`I('m| am) always (busy|rushing|stressed)`,
	)},
	{Fear, compile(
		`I('m| am) (afraid|scared|terrified|frightened)`,
		`I fear`,
		`what if I (fail|die|lose)`,
		`I('m| am) worried (about|that)`,
		`death scares`,
		`I feel (disconnected|alone|lonely|isolated)`,
		`I('m| am) (disconnected|alone|lonely|isolated)`,
		`disconnected from (everyone|people|others)`,
	)},
	{Frustration, compile(
		`nothing (works|helps)`,
		`I('ve| have) tried (everything|that)`,
		`but (I've|that) (already|doesn't)`,
		`that (doesn't|won't|didn't) (work|help)`,
		`what('s| is) the point`,
		`why (bother|try)`,
	)},
	{Meta, compile(
		`you (keep|always) (saying|repeating)`,
		`same (thing|answer)`,
		`that's what you (said|always say)`,
		`is that all you (got|have)`,
		`you sound like`,
		`you didn't (ask|say|mention)`,
		`I('m| am) surprised you`,
		`why didn't you`,
		`I expected you to`,
		`I thought you would`,
	)},
	{Greeting, compile(
		`^(hi|hello|hey|greetings|good (morning|afternoon|evening))`,
		`^(what's up|sup|yo)`,
	)},
}

// #endregion

// #region classify

// Classify maps an utterance to a category via ordered regexp rules. No model call.
func Classify(utterance string) Match {
	text := strings.TrimSpace(utterance)
	for _, r := range rules {
		for _, p := range r.patterns {
			loc := p.FindStringIndex(text)
			if loc == nil {
				continue
			}
			return Match{
				Category:   r.category,
				Confidence: MatchConfidence,
				Keywords:   []string{text[loc[0]:loc[1]]},
			}
		}
	}
	return Match{
		Category:   General,
		Confidence: FallbackConfidence,
		Keywords:   []string{},
	}
}

// #endregion
