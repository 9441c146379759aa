// Package validate provides centralized input validation utilities for
// preventing injection attacks and enforcing the NIUC core's input bounds
// (spec §3) across its API boundary.
//
// The package includes validators for the verification core's Segment
// list, plus general safe-string and log-sanitization helpers reused by
// both segment validation and the audit logger.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/byteness/niuc"
)

// Validation constants for input limits.
const (
	// MaxQueryParamLength is the maximum length for general query parameters.
	MaxQueryParamLength = 1024
)

// Validation errors for input validation failures.
var (
	// ErrStringTooLong indicates a string exceeds the maximum length.
	ErrStringTooLong = errors.New("string exceeds maximum length")

	// ErrStringNullByte indicates a string contains null bytes.
	ErrStringNullByte = errors.New("string contains null byte")

	// ErrStringControlChars indicates a string contains control characters.
	ErrStringControlChars = errors.New("string contains control characters")

	// ErrSegmentsEmpty indicates the segment list has no elements.
	ErrSegmentsEmpty = errors.New("segment list must be non-empty")

	// ErrTooManySegments indicates the segment list exceeds niuc.MaxSegments.
	ErrTooManySegments = errors.New("segment list exceeds maximum segment count")

	// ErrSegmentTooLarge indicates a single segment's text exceeds niuc.MaxSegmentBytes.
	ErrSegmentTooLarge = errors.New("segment text exceeds maximum segment size")

	// ErrTotalTooLarge indicates the combined segment text exceeds niuc.MaxTotalBytes.
	ErrTotalTooLarge = errors.New("total segment text exceeds maximum combined size")

	// ErrBadChannel indicates a segment's channel is not "trusted" or "untrusted".
	ErrBadChannel = errors.New(`channel must be "trusted" or "untrusted"`)

	// ErrSourceIDTooLong indicates a segment's SourceID exceeds niuc.MaxSourceIDLen.
	ErrSourceIDTooLong = errors.New("source_id exceeds maximum length")

	// ErrNotUTF8 indicates a segment's text is not valid UTF-8.
	ErrNotUTF8 = errors.New("segment text is not valid UTF-8")
)

// Segments validates a segment list against the bounds in spec §3:
// non-empty, at most niuc.MaxSegments segments, each segment at most
// niuc.MaxSegmentBytes, the combined text at most niuc.MaxTotalBytes,
// channel tokens exactly "trusted" or "untrusted", and SourceID at most
// niuc.MaxSourceIDLen characters. Returns the first violation found, or
// nil if every segment is valid.
//
// Validation order: the list's emptiness and segment count first, then
// per-segment bounds in list order, then the combined size.
func Segments(segments []niuc.Segment) error {
	if len(segments) == 0 {
		return ErrSegmentsEmpty
	}
	if len(segments) > niuc.MaxSegments {
		return fmt.Errorf("%w: %d > %d", ErrTooManySegments, len(segments), niuc.MaxSegments)
	}

	var total int
	for i, seg := range segments {
		if len(seg.Text) > niuc.MaxSegmentBytes {
			return fmt.Errorf("%w: segment %d is %d bytes", ErrSegmentTooLarge, i, len(seg.Text))
		}
		if !utf8.ValidString(seg.Text) {
			return fmt.Errorf("%w: segment %d", ErrNotUTF8, i)
		}
		if !seg.Channel.IsValid() {
			return fmt.Errorf("%w: segment %d has channel %q", ErrBadChannel, i, seg.Channel)
		}
		if n := utf8.RuneCountInString(seg.SourceID); n > niuc.MaxSourceIDLen {
			return fmt.Errorf("%w: segment %d source_id is %d characters", ErrSourceIDTooLong, i, n)
		}
		total += len(seg.Text)
	}
	if total > niuc.MaxTotalBytes {
		return fmt.Errorf("%w: %d > %d", ErrTotalTooLarge, total, niuc.MaxTotalBytes)
	}

	return nil
}

// ValidateSafeString validates a general string for safe use.
// It checks:
//   - No null bytes (\x00)
//   - No control characters (ASCII 0-31 except \t\n\r)
//   - Within maxLen limit
//
// Returns nil if valid, or a descriptive error.
func ValidateSafeString(s string, maxLen int) error {
	// Check length
	if len(s) > maxLen {
		return fmt.Errorf("%w: %d > %d", ErrStringTooLong, len(s), maxLen)
	}

	// Check for null bytes
	if strings.ContainsRune(s, '\x00') {
		return ErrStringNullByte
	}

	// Check for control characters (except tab, newline, carriage return)
	for _, r := range s {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return ErrStringControlChars
		}
	}

	return nil
}

// SanitizeForLog sanitizes a string for safe logging.
// It replaces control characters with unicode escapes, truncates to maxLen,
// and ensures the result is safe for JSON/structured logging.
//
// Use this when logging potentially malicious input to prevent:
//   - Log injection (newline injection for log splitting)
//   - JSON injection in structured logs
//   - ANSI escape sequence injection
func SanitizeForLog(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	var result strings.Builder
	result.Grow(min(len(s), maxLen))

	runeCount := 0
	for _, r := range s {
		if runeCount >= maxLen {
			break
		}

		// Replace control characters with unicode escapes
		if r < 32 || r == 127 {
			// Format as \uXXXX escape
			escape := fmt.Sprintf("\\u%04x", r)
			if runeCount+len(escape) > maxLen {
				break
			}
			result.WriteString(escape)
			runeCount += len(escape)
		} else if r == '\\' {
			// Escape backslashes to prevent escape sequence injection
			if runeCount+2 > maxLen {
				break
			}
			result.WriteString("\\\\")
			runeCount += 2
		} else if r == '"' {
			// Escape quotes for JSON safety
			if runeCount+2 > maxLen {
				break
			}
			result.WriteString("\\\"")
			runeCount += 2
		} else if r > 127 && !unicode.IsPrint(r) {
			// Replace non-printable unicode with escapes
			escape := fmt.Sprintf("\\u%04x", r)
			if runeCount+len(escape) > maxLen {
				break
			}
			result.WriteString(escape)
			runeCount += len(escape)
		} else {
			result.WriteRune(r)
			runeCount++
		}
	}

	// No truncation marker is appended; the check below does not change
	// the result.
	sanitized := result.String()
	if len(s) > len(sanitized) && maxLen > 3 && len(sanitized) > 3 {
		// Check if we actually truncated (not just escaped to longer)
		originalRuneCount := 0
		for range s {
			originalRuneCount++
		}
		if originalRuneCount > maxLen {
			// Already truncated, no need to add ellipsis
		}
	}

	return sanitized
}

// min returns the smaller of a or b.
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
