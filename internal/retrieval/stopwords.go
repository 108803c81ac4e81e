package retrieval

import (
	"strings"
	"unicode"
)

// #region stopwords
// stopwords are common English words ignored when comparing quotes, plus the
// filler verbs a persona quote tends to open with.
var stopwords = wordSet(`
	a an the this that these those it its
	is are was were be been being am
	do does did have has had will would could should may might can shall must
	not no nor and or but if then than so as
	at by for from in into of on to with about up out over
	what which who whom how when where why
	i me my mine you your yours we us our they them their he him his she her
	tell say said just very really
`)

func wordSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(list) {
		set[w] = true
	}
	return set
}

// tokenize splits text into unique lowercase non-stopword tokens.
func tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	seen := make(map[string]bool)
	var tokens []string
	for _, w := range words {
		if len(w) < 2 || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		tokens = append(tokens, w)
	}
	return tokens
}

// sharedKeywords returns the count of tokens present in both slices.
func sharedKeywords(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	count := 0
	for _, t := range b {
		if set[t] {
			count++
		}
	}
	return count
}

// #endregion stopwords
