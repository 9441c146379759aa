package detect

import (
	"unicode"

	"github.com/clipperhouse/uax29/v2/graphemes"

	"github.com/byteness/niuc"
)

// minCombiningRunLength is the minimum number of consecutive
// heavily-marked grapheme clusters that constitutes a "run of combining
// diacritics" (spec §4.C.7) rather than ordinary accented text.
const minCombiningRunLength = 3

// heavyCombiningThreshold is the minimum number of combining marks within
// a single grapheme cluster for that cluster to count toward a run.
const heavyCombiningThreshold = 2

// detectCombiningRuns walks text by extended grapheme cluster (UAX #29),
// not by rune, since a base character plus several combining marks is one
// grapheme cluster; naive rune iteration would see each mark as its own
// "character" and misjudge cluster density. A contiguous run of clusters
// each carrying heavyCombiningThreshold-or-more combining marks is an
// evasion signal ("zalgo" text used to hide or obscure a verb).
func detectCombiningRuns(text string) []match {
	var matches []match

	runeOffset := 0
	runStart := -1
	runLen := 0

	flush := func(end int) {
		if runStart != -1 && runLen >= minCombiningRunLength {
			matches = append(matches, match{Start: runStart, End: end, Category: niuc.CategoryEvasion})
		}
		runStart = -1
		runLen = 0
	}

	seg := graphemes.FromString(text)
	for seg.Next() {
		cluster := []rune(seg.Value())
		if countCombiningMarks(cluster) >= heavyCombiningThreshold {
			if runStart == -1 {
				runStart = runeOffset
			}
			runLen++
		} else {
			flush(runeOffset)
		}
		runeOffset += len(cluster)
	}
	flush(runeOffset)

	return matches
}

func countCombiningMarks(rs []rune) int {
	n := 0
	for _, r := range rs {
		if unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r) || unicode.Is(unicode.Mc, r) {
			n++
		}
	}
	return n
}
