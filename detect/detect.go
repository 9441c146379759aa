// Package detect implements the NIUC Imperative Detector (spec §4.C): a
// compiled, process-wide-initialized set of pattern families applied over
// normalized text, with overlap resolution and contextual false-positive
// suppression producing a sorted, non-overlapping span list.
package detect

import (
	"regexp"
	"sort"

	"github.com/byteness/niuc"
)

// match is an internal candidate before overlap resolution; character
// offsets, not bytes.
type match struct {
	Start    int
	End      int
	Category niuc.Category
}

// directVerbCategorySet is the fast-lookup form of directVerbCategoryOrder,
// used to decide which candidates are eligible for contextual suppression.
var directVerbCategorySet = func() map[niuc.Category]bool {
	set := make(map[niuc.Category]bool, len(directVerbCategoryOrder))
	for _, c := range directVerbCategoryOrder {
		set[c] = true
	}
	return set
}()

// codeFenceFamily, toolCallFamily, and evasionSimpleFamily list the
// single-category regex families that don't need per-match category
// branching, in fixed registration order (determinism). They are filled in
// by patterns.go's init, after the regexps they hold have been compiled.
var (
	codeFenceFamily     []*regexp.Regexp
	toolCallFamily      []*regexp.Regexp
	evasionSimpleFamily []*regexp.Regexp
)

// Detect applies every pattern family to normalized text and returns the
// resulting non-overlapping, category-tagged spans sorted ascending by
// start (invariant T2). Detect is pure and deterministic: the same text
// always yields the same span list.
func Detect(text string) []niuc.ImperativeSpan {
	runes := []rune(text)
	toRune := newByteToRuneIndex(text)

	var candidates []match

	for _, p := range directVerbPatterns {
		for _, m := range findAll(p.re, text, toRune) {
			candidates = append(candidates, match{m.Start, m.End, p.category})
		}
	}
	for _, m := range findAll(modalActionPattern, text, toRune) {
		candidates = append(candidates, match{m.Start, m.End, niuc.CategoryModalAction})
	}
	for _, m := range findAll(requestFramePattern, text, toRune) {
		candidates = append(candidates, match{m.Start, m.End, niuc.CategoryRequestFrame})
	}
	for _, re := range codeFenceFamily {
		for _, m := range findAll(re, text, toRune) {
			candidates = append(candidates, match{m.Start, m.End, niuc.CategoryCodeFence})
		}
	}
	for _, re := range toolCallFamily {
		for _, m := range findAll(re, text, toRune) {
			candidates = append(candidates, match{m.Start, m.End, niuc.CategoryToolCall})
		}
	}
	for _, m := range findAll(conditionalPattern, text, toRune) {
		candidates = append(candidates, match{m.Start, m.End, niuc.CategoryConditional})
	}
	for _, re := range evasionSimpleFamily {
		for _, m := range findAll(re, text, toRune) {
			candidates = append(candidates, match{m.Start, m.End, niuc.CategoryEvasion})
		}
	}
	for _, re := range evasionObfuscated {
		for _, m := range findAll(re, text, toRune) {
			candidates = append(candidates, match{m.Start, m.End, niuc.CategoryEvasion})
		}
	}
	// Boundary-free: catches a high-risk verb fused word-to-word against its
	// neighbor by zero-width-character removal (spec §8 zero-width hiding),
	// where no \b exists between the fused words.
	for _, m := range findAll(evasionFusedVerb, text, toRune) {
		candidates = append(candidates, match{m.Start, m.End, niuc.CategoryEvasion})
	}
	candidates = append(candidates, detectCombiningRuns(text)...)

	// Contextual suppression applies to direct-verb hits only (spec §4.C).
	var suppressed []match
	for _, c := range candidates {
		if directVerbCategorySet[c.Category] && isSuppressedContext(runes, c.Start, c.End) {
			continue
		}
		suppressed = append(suppressed, c)
	}

	spans := resolveOverlaps(suppressed)

	out := make([]niuc.ImperativeSpan, 0, len(spans))
	for _, s := range spans {
		out = append(out, niuc.ImperativeSpan{
			Start:    s.Start,
			End:      s.End,
			Category: s.Category,
			Text:     string(runes[s.Start:s.End]),
		})
	}
	return out
}

// resolveOverlaps implements spec §4.C's overlap resolution: sort by start
// ascending then by end descending, then walk keeping a span only if its
// start is at or after the last kept span's end ("first match wins" by
// start position). Ties in (start, end) are broken by the deterministic
// registration order established above, since sort.SliceStable preserves
// input order for equal sort keys.
func resolveOverlaps(candidates []match) []match {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Start != candidates[j].Start {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].End > candidates[j].End
	})

	var kept []match
	lastEnd := -1
	for _, c := range candidates {
		if c.Start >= lastEnd {
			kept = append(kept, c)
			lastEnd = c.End
		}
	}
	return kept
}
