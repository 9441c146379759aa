package detect

import (
	"regexp"
	"sort"
)

// runeSpan is a character-offset match, as opposed to regexp's native byte
// offsets.
type runeSpan struct {
	Start int
	End   int
}

// byteToRuneIndex maps a UTF-8 byte offset that falls on a rune boundary to
// its rune (character) index. Go's regexp engine always returns match
// boundaries on rune boundaries for valid UTF-8 input, so every offset
// looked up here is guaranteed present in byteOffsets.
type byteToRuneIndex struct {
	byteOffsets []int // byteOffsets[i] = byte offset where rune i begins
}

// newByteToRuneIndex builds the offset table for s in a single pass.
func newByteToRuneIndex(s string) *byteToRuneIndex {
	offsets := make([]int, 0, len(s))
	for i := range s {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(s))
	return &byteToRuneIndex{byteOffsets: offsets}
}

// runeIndex converts a byte offset to its rune index via binary search.
func (b *byteToRuneIndex) runeIndex(byteOffset int) int {
	return sort.SearchInts(b.byteOffsets, byteOffset)
}

// findAll runs re against text and returns every non-overlapping match
// (regexp's own leftmost-first semantics) converted to character offsets.
func findAll(re *regexp.Regexp, text string, idx *byteToRuneIndex) []runeSpan {
	raw := re.FindAllStringIndex(text, -1)
	if raw == nil {
		return nil
	}
	spans := make([]runeSpan, 0, len(raw))
	for _, m := range raw {
		spans = append(spans, runeSpan{Start: idx.runeIndex(m[0]), End: idx.runeIndex(m[1])})
	}
	return spans
}
