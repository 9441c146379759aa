// Package neutralize implements the NIUC Neutralizer (spec §4.E): it
// rewrites high-risk verbs across the entire text into a bracketed,
// clearly-inert marker so that a subsequent re-verification pass cannot
// miss a semantically equivalent instance occurring elsewhere in the text.
package neutralize

import (
	"regexp"
	"strings"
)

// Vocabulary is the fixed set of high-risk verbs rewritten by Neutralize,
// widened from spec §4.E's minimal example set to the full table carried
// by the source this spec distills (see SPEC_FULL.md §3).
var Vocabulary = []string{
	"execute", "run", "eval", "invoke", "delete", "remove", "rm", "drop",
	"kill", "terminate", "install", "modify", "escalate", "grant", "upload",
	"fetch",
}

var verbPattern = regexp.MustCompile(buildPattern())

func buildPattern() string {
	escaped := make([]string, len(Vocabulary))
	for i, v := range Vocabulary {
		escaped[i] = regexp.QuoteMeta(v)
	}
	return `(?i)\b(?:` + strings.Join(escaped, "|") + `)\b`
}

// Neutralize replaces every occurrence of a Vocabulary verb anywhere in
// text — not only within the given violation spans — with
// "[NEUTRALIZED:<verb>]", where <verb> is the lowercased matched token.
// Rationale (spec §4.E): the same verb elsewhere in the text is presumed
// equally dangerous once one violation has been found, so re-verification
// after neutralization cannot miss a semantically equivalent instance at
// another position. violationSpans is accepted for signature symmetry with
// the spec's contract and is not used: it neither narrows which
// occurrences are rewritten nor affects replacementsMade, which counts
// every replacement in text.
func Neutralize(text string, violationSpans [][2]int) (rewritten string, replacementsMade int) {
	count := 0
	out := verbPattern.ReplaceAllStringFunc(text, func(match string) string {
		count++
		return "[NEUTRALIZED:" + strings.ToLower(match) + "]"
	})
	return out, count
}
