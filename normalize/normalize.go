// Package normalize implements the NIUC Normalizer: a pure, deterministic,
// total pipeline that canonicalizes Unicode text and strips common evasion
// techniques before imperative detection runs.
//
// The pipeline is strictly ordered (NFKC, then case fold, then zero-width
// strip, then homoglyph fold) so that later steps see the output of
// earlier ones — case folding sees NFKC's compatibility-composed forms,
// and homoglyph folding sees text with hidden joiners already removed.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Stats counts how many transformations each pipeline step performed.
// Counts are over Unicode scalar values (runes), not bytes.
type Stats struct {
	NFKCChanges       int
	CaseFoldChanges   int
	ZeroWidthRemoved  int
	HomoglyphReplaced int
}

// zeroWidthSet is the set of characters stripped in step 3 (spec §4.A):
// zero-width space, non-joiner, joiner, BOM/zero-width-no-break-space,
// Arabic letter mark, and Mongolian vowel separator. Written as escapes
// rather than literal invisible runes so the table stays legible in a
// plain-text diff.
var zeroWidthSet = map[rune]bool{
	'\u200b': true, // ZERO WIDTH SPACE
	'\u200c': true, // ZERO WIDTH NON-JOINER
	'\u200d': true, // ZERO WIDTH JOINER
	'\ufeff': true, // ZERO WIDTH NO-BREAK SPACE / BOM
	'\u061c': true, // ARABIC LETTER MARK
	'\u180e': true, // MONGOLIAN VOWEL SEPARATOR
}

// caseFolder performs full Unicode case folding. cases.Fold() is stricter
// than strings.ToLower: it also normalizes German ß, Greek final sigma,
// and other multi-codepoint fold cases that ASCII lowering misses.
var caseFolder = cases.Fold()

// Normalize applies the four-step pipeline to text and returns the
// normalized result plus per-step transformation counts. Normalize never
// fails for valid UTF-8 input; it is pure and deterministic.
func Normalize(text string) (string, Stats) {
	var stats Stats

	nfkc := norm.NFKC.String(text)
	stats.NFKCChanges = countRuneDiff(text, nfkc)

	folded := caseFolder.String(nfkc)
	stats.CaseFoldChanges = countRuneDiff(nfkc, folded)

	stripped, removed := stripZeroWidth(folded)
	stats.ZeroWidthRemoved = removed

	homoglyphed, replaced := foldHomoglyphs(stripped)
	stats.HomoglyphReplaced = replaced

	return homoglyphed, stats
}

// countRuneDiff is a cheap heuristic transformation counter: the number of
// runes by which two strings differ in length, or 1 if lengths match but
// content changed. It is not an edit distance; it exists only to populate
// certificate/log statistics, not to drive any security decision.
func countRuneDiff(before, after string) int {
	if before == after {
		return 0
	}
	diff := len([]rune(before)) - len([]rune(after))
	if diff < 0 {
		diff = -diff
	}
	if diff == 0 {
		diff = 1
	}
	return diff
}

// stripZeroWidth removes every character in zeroWidthSet and returns the
// count removed.
func stripZeroWidth(s string) (string, int) {
	if !strings.ContainsFunc(s, func(r rune) bool { return zeroWidthSet[r] }) {
		return s, 0
	}
	var b strings.Builder
	b.Grow(len(s))
	removed := 0
	for _, r := range s {
		if zeroWidthSet[r] {
			removed++
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), removed
}

// foldHomoglyphs replaces every character present in homoglyphTable with
// its canonical ASCII/Latin counterpart and returns the count replaced.
func foldHomoglyphs(s string) (string, int) {
	var b strings.Builder
	b.Grow(len(s))
	replaced := 0
	for _, r := range s {
		if repl, ok := homoglyphTable[r]; ok {
			b.WriteRune(repl)
			replaced++
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), replaced
}

// Hash returns the lowercase hex SHA-256 digest of normalized text, used
// as the certificate's input_sha256 / output_sha256 fields.
func Hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
