package detect

import "strings"

// suppressionWindow is the number of characters examined on each side of a
// direct-verb match (spec §4.C: "examine a 30-character window around the
// match").
const suppressionWindow = 30

// educationalContexts is the curated set of descriptive/documentation
// phrasings that suppress a direct-verb false positive. This list is
// deliberately small: ambiguity resolves in favor of blocking, so only
// phrasings that are unambiguously describing rather than commanding are
// included.
var educationalContexts = []string{
	"for example",
	"such as",
	"e.g.",
	"documentation says",
	"the word",
	"means to",
	"refers to",
	"describes how to",
	"explains how to",
	"capability to",
	"is able to",
	"chat history",
	"previously said",
	"previously asked",
	"in this tutorial",
	"as an example",
}

// isSuppressedContext reports whether the window spanning [start, end) of
// runes plus suppressionWindow characters on each side contains a curated
// educational/documentation phrase. Only direct-verb matches are ever
// suppressed (spec §4.C); every other family is exempt.
func isSuppressedContext(runes []rune, start, end int) bool {
	lo := start - suppressionWindow
	if lo < 0 {
		lo = 0
	}
	hi := end + suppressionWindow
	if hi > len(runes) {
		hi = len(runes)
	}
	window := strings.ToLower(string(runes[lo:hi]))
	for _, phrase := range educationalContexts {
		if strings.Contains(window, phrase) {
			return true
		}
	}
	return false
}
