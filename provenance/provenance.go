// Package provenance implements the NIUC Provenance Builder (spec §4.B):
// it concatenates segments, normalizes each in isolation, and attaches a
// channel tag to every character of the resulting aligned stream.
//
// Security-critical design decision: naive proportional back-mapping from
// a single whole-text normalization is unsafe, because NFKC and homoglyph
// folding change character counts non-uniformly and could misattribute an
// imperative to the wrong segment's trust channel. The correct strategy,
// used here, is to normalize each segment in isolation and concatenate the
// per-segment results; tags are emitted in the same per-segment order.
package provenance

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/byteness/niuc"
	"github.com/byteness/niuc/normalize"
)

// Stream is the provenance-aligned normalized text plus its per-character
// tag vector. Invariant T1: len(Tags) == len([]rune(Text)).
type Stream struct {
	Text  string
	Tags  []niuc.CharacterTag
	Stats normalize.Stats
}

// Build normalizes each segment in isolation and concatenates the results,
// emitting one CharacterTag per character in the same order. If the
// whole-text normalization of the concatenated raw segments produces more
// characters than the per-segment concatenation accounts for (a
// compatibility composition spanning a segment boundary), the extra
// trailing characters are appended as Untrusted, tagged with
// niuc.NormalizationRemainderSourceID and SegmentIndex -1. This keeps the
// safety direction conservative: false positives are possible, false
// negatives are not (spec §4.B edge case).
func Build(segments []niuc.Segment) Stream {
	var text strings.Builder
	var tags []niuc.CharacterTag
	var aggStats normalize.Stats

	for segIdx, seg := range segments {
		normalized, stats := normalize.Normalize(seg.Text)
		aggStats.NFKCChanges += stats.NFKCChanges
		aggStats.CaseFoldChanges += stats.CaseFoldChanges
		aggStats.ZeroWidthRemoved += stats.ZeroWidthRemoved
		aggStats.HomoglyphReplaced += stats.HomoglyphReplaced

		localIdx := 0
		for _, r := range normalized {
			text.WriteRune(r)
			tags = append(tags, niuc.CharacterTag{
				Channel:      seg.Channel,
				SourceID:     seg.SourceID,
				LocalIndex:   localIdx,
				SegmentIndex: segIdx,
			})
			localIdx++
		}
	}

	aligned := text.String()

	// Edge case: compare against whole-text normalization to catch
	// cross-boundary compositions. Any characters present in the
	// whole-text normalization beyond what per-segment re-normalization
	// produced are conservatively tagged Untrusted.
	wholeText := concatRaw(segments)
	wholeNormalized, _ := normalize.Normalize(wholeText)
	if remainder := runeCountDiff(wholeNormalized, aligned); remainder > 0 {
		extra := []rune(wholeNormalized)[len([]rune(aligned)):]
		for _, r := range extra {
			text.WriteRune(r)
			tags = append(tags, niuc.CharacterTag{
				Channel:      niuc.Untrusted,
				SourceID:     niuc.NormalizationRemainderSourceID,
				LocalIndex:   len(tags),
				SegmentIndex: -1,
			})
		}
		aligned = text.String()
	}

	return Stream{Text: aligned, Tags: tags, Stats: aggStats}
}

// concatRaw concatenates the raw (pre-normalization) segment text, in
// order, for the whole-text normalization comparison.
func concatRaw(segments []niuc.Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// runeCountDiff returns max(0, len(runes(a)) - len(runes(b))); used only
// to detect the cross-boundary-composition edge case, never to drive the
// detection path itself.
func runeCountDiff(a, b string) int {
	diff := len([]rune(a)) - len([]rune(b))
	if diff < 0 {
		return 0
	}
	return diff
}

// SpanTrust reports how many characters of the half-open range [start,
// end) of the aligned stream are trusted vs. untrusted, the character
// offsets (relative to start) of every untrusted character, and the set
// of distinct source IDs touched.
type SpanTrust struct {
	TrustedChars     int
	UntrustedChars   int
	UntrustedOffsets []int
	SourceIDs        []string
}

// SpanTrust computes trust statistics for the character range [start, end)
// of s.Tags. Out-of-range bounds are clamped rather than causing a panic,
// since detector spans are always produced against the same stream length
// but defensive clamping costs nothing.
func (s Stream) SpanTrust(start, end int) SpanTrust {
	if start < 0 {
		start = 0
	}
	if end > len(s.Tags) {
		end = len(s.Tags)
	}

	var result SpanTrust
	seen := make(map[string]bool)
	for i := start; i < end; i++ {
		tag := s.Tags[i]
		if tag.Channel == niuc.Untrusted {
			result.UntrustedChars++
			result.UntrustedOffsets = append(result.UntrustedOffsets, i-start)
		} else {
			result.TrustedChars++
		}
		if !seen[tag.SourceID] {
			seen[tag.SourceID] = true
			result.SourceIDs = append(result.SourceIDs, tag.SourceID)
		}
	}
	return result
}

// Hash returns the SHA-256 hex digest of a canonical serialization of the
// tag vector: one line per character, "channel|source_id|segment_index"
// joined by newlines. This is the certificate's provenance_sha256 (spec §3)
// — a content hash over the provenance mapping itself, distinct from
// input_sha256 (hash of the normalized text) and output_sha256 (hash of
// the output text). It lets an auditor detect a certificate whose
// provenance tags were tampered with independently of the text.
func (s Stream) Hash() string {
	var b strings.Builder
	for _, tag := range s.Tags {
		b.WriteString(string(tag.Channel))
		b.WriteByte('|')
		b.WriteString(tag.SourceID)
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(tag.SegmentIndex))
		b.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// DetectViolations returns the subset of spans that contain at least one
// untrusted-tagged character — the core safety check of the entire
// pipeline (spec §4.B, §4.D step 4).
func (s Stream) DetectViolations(spans []niuc.ImperativeSpan) []niuc.Violation {
	var violations []niuc.Violation
	for _, span := range spans {
		trust := s.SpanTrust(span.Start, span.End)
		if trust.UntrustedChars > 0 {
			violations = append(violations, niuc.Violation{Start: span.Start, End: span.End})
		}
	}
	return violations
}
