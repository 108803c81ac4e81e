package gate

import "regexp"

// reasonPattern pairs a pattern with the diagnostic shown when it matches.
type reasonPattern struct {
	re     *regexp.Regexp
	reason string
}

func ci(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + expr)
}

func ciAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = ci(e)
	}
	return out
}

// endsWithQuestion is case-free; `$` is end of text.
var endsWithQuestion = regexp.MustCompile(`\?$`)

// #region form-patterns

var selfHelpBanned = ciAll(
	`cultivate`,
	`sit with yourself`,
	`take time to`,
	`learn to`,
	`practice \w+ing`,
	`find balance`,
	`align with`,
	`journey within`,
	`breathe deeply`,
	`be present`,
	`mindful`,
)

var voiceMarkers = append(ciAll(
	`\(chuckles?\)`,
	`\(laughs?\)`,
	`my friend`,
	`you see`,
	`notice`,
	`here you are`,
	`isn't it`,
), endsWithQuestion)

var bullshitPatterns = []reasonPattern{
	{ci(`testament to`), "Flowery filler"},
	{ci(`profound appreciation`), "Purple prose"},
	{ci(`makes every moment count`), "Hallmark card"},
	{ci(`punctuation mark that`), "Forced metaphor"},
	{ci(`tapestry of`), "Purple prose"},
	{ci(`embrace the`), "Self-help adjacent"},
	{ci(`truly (profound|meaningful|deep)`), "Pseudo-profound"},
	{ci(`the beauty of`), "Greeting card"},
	{ci(`infinite (wisdom|love|potential)`), "New age fluff"},
	{ci(`on (a|this) journey`), "Self-help cliche"},
	{ci(`transforms? (your|the)`), "Self-help promise"},
	{ci(`unlock(ing)? (your|the)`), "Self-help promise"},
	{ci(`the key (to|is)`), "Self-help cliche"},
	{ci(`sacred (space|journey|moment)`), "New age fluff"},
	{ci(`surrend(er|ing) to`), "Spiritual bypass"},
}

var condescensionPatterns = []reasonPattern{
	{ci(`the (classic|old) ["']?[^"']+["']? (approach|complaint|piece|move)`), "Mocking pattern"},
	{ci(`spoon-?feed`), "Insulting"},
	{ci(`you want me to`), "Defensive"},
	{ci(`that's like (saying|trying|asking)`), "Dismissive metaphor"},
	{ci(`like trying to (grasp|catch|hold)`), "Dismissive metaphor"},
	{ci(`\(laughs?\).*you're right`), "Laughing before acknowledging"},
	{ci(`\(chuckles?\).*you're right`), "Laughing before acknowledging"},
	{ci(`a whiff of`), "Patronizing"},
	{ci(`utopian (optimism|idealism|thinking)`), "Dismissing their hope"},
	{ci(`magical(ly)? (solve|fix|thinking)`), "Mocking their view"},
	{ci(`some (other )?external savior`), "Dismissive"},
	{ci(`naive`), "Insulting"},
}

// #endregion form-patterns

// #region helpfulness-patterns

var acknowledgmentPatterns = ciAll(
	`you're right`,
	`of course`,
	`that (makes sense|sounds|feels)`,
	`I (hear|understand|see)`,
	`sixty hours`,
	`exhausted`,
	`afraid`,
	`disconnected`,
)

var reframePatterns = ciAll(
	`but (notice|here|what if)`,
	`and yet`,
	`here you are`,
	`right now`,
	`what if`,
	`notice`,
	`already`,
	`proof`,
)

var concretePatterns = append([]*regexp.Regexp{endsWithQuestion}, ciAll(
	`who do you`,
	`what would`,
	`what do you`,
	`you can`,
	`try`,
	`when did`,
)...)

var unhelpfulPatterns = []reasonPattern{
	{ci(`who is this ['"]?I['"]?`), "Philosophical deflection"},
	{ci(`the seeker.{0,10}sought`), "Empty koan"},
	{ci(`your story about`), "Invalidates experience"},
	{ci(`afraid of a word`), "Dismisses real fear"},
	{ci(`wasn't lost`), "Clever wordplay, not helpful"},
}

// #endregion helpfulness-patterns

// #region engagement-patterns

var opensSpacePatterns = append([]*regexp.Regexp{endsWithQuestion}, ciAll(
	`what (do you|would|if)`,
	`how (do you|would|does)`,
	`who (do you|would)`,
	`when (did|do|was)`,
	`tell me`,
	`I'm curious`,
)...)

var shutdownPatterns = append(ciAll(
	`that's all there is to it`,
	`it's (that )?simple`,
	`end of story`,
	`nothing more to say`,
	`case closed`,
), regexp.MustCompile(`period\.$`), ci(`the answer is`), ci(`you (just need|simply need) to`))

var bridgePatterns = ciAll(
	`you (said|mentioned|described)`,
	`that (ache|pain|feeling|fear|hope)`,
	`your (situation|experience|words)`,
	`sounds like`,
	`I (hear|sense|notice)`,
	`when you say`,
)

var deeperPatterns = ciAll(
	`tell me more`,
	`what (else|more)`,
	`can you describe`,
	`I'd like to (hear|understand|know)`,
	`what's behind`,
	`what (drives|causes|leads)`,
)

// #endregion engagement-patterns
