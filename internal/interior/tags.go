package interior

// #region imports
import (
	"regexp"
	"strings"
)

// #endregion imports

// #region patterns

var (
	wrapperTag       = regexp.MustCompile(`(?i)</?(pondering|response)>`)
	ponderingSection = regexp.MustCompile(`(?is)<pondering>(.*?)</pondering>`)
	responseSection  = regexp.MustCompile(`(?is)<response>(.*?)</response>`)
)

// #endregion patterns

// #region strip

// Strip removes <pondering>/<response> wrapper tags in any capitalization and
// trims the result. Text without wrapper tags is returned unchanged.
func Strip(raw string) string {
	if !wrapperTag.MatchString(raw) {
		return raw
	}
	return strings.TrimSpace(wrapperTag.ReplaceAllString(raw, ""))
}

// #endregion strip

// #region split

// Parts is a generated reply split into its interior reasoning and the
// user-facing response.
type Parts struct {
	Pondering string
	Response  string
}

// Split separates the pondering section from the response section.
// Without a <response> section the response is everything outside the
// pondering section, with leaked tags stripped.
func Split(raw string) Parts {
	var p Parts
	if m := ponderingSection.FindStringSubmatch(raw); m != nil {
		p.Pondering = strings.TrimSpace(m[1])
	}
	if m := responseSection.FindStringSubmatch(raw); m != nil {
		p.Response = strings.TrimSpace(m[1])
		return p
	}
	rest := ponderingSection.ReplaceAllString(raw, "")
	p.Response = strings.TrimSpace(Strip(rest))
	return p
}

// ResponseText returns the user-facing part of a reply with every wrapper
// tag and pondering section removed.
func ResponseText(raw string) string {
	return Split(raw).Response
}

// #endregion split
