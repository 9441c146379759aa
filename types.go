// Package niuc implements the No Imperatives from Untrusted Channels
// verification core: given a sequence of trust-labeled text segments, it
// decides whether an imperative command pattern originates from an
// untrusted channel and, if so, blocks the interaction or produces a
// safety-rewritten variant with a tamper-evident certificate.
package niuc

import "fmt"

// Channel is the trust label attached to a segment of text.
type Channel string

const (
	// Trusted marks text supplied by the system or operator.
	Trusted Channel = "trusted"
	// Untrusted marks text retrieved, user-supplied, model-generated, or
	// otherwise external.
	Untrusted Channel = "untrusted"
)

// IsValid reports whether c is one of the two defined channel tokens.
// Channel tokens are case-sensitive; "Trusted" and "TRUSTED" are invalid.
func (c Channel) IsValid() bool {
	return c == Trusted || c == Untrusted
}

// String returns the channel token.
func (c Channel) String() string {
	return string(c)
}

// Input bounds enforced by validate.Segments. Exceeding any of these is an
// InvalidInput error.
const (
	// MaxSegmentBytes is the maximum size of a single segment's text.
	MaxSegmentBytes = 1 << 20 // 1 MiB
	// MaxTotalBytes is the maximum combined size of all segment text.
	MaxTotalBytes = 10 << 20 // 10 MiB
	// MaxSegments is the maximum number of segments in one call.
	MaxSegments = 1000
	// MaxSourceIDLen is the maximum length of a segment's SourceID.
	MaxSourceIDLen = 1000
)

// NormalizationRemainderSourceID tags characters produced by whole-text
// normalization that could not be accounted for by per-segment
// re-normalization (see provenance.Build). These are conservatively
// treated as untrusted.
const NormalizationRemainderSourceID = "normalization_remainder"

// Segment is one unit of input text with an attached trust channel.
type Segment struct {
	Text     string
	Channel  Channel
	SourceID string
}

// CharacterTag attaches provenance to one character (Unicode scalar value)
// of the normalized, provenance-aligned stream. There is exactly one tag
// per character of that stream (invariant T1).
type CharacterTag struct {
	Channel      Channel
	SourceID     string
	LocalIndex   int // index within the originating segment's normalized text
	SegmentIndex int // index into the original segment list, or -1 for the normalization_remainder
}

// Category classifies the pattern family (or sub-family) that produced an
// ImperativeSpan.
type Category string

const (
	CategoryExecution          Category = "execution"
	CategoryFilesystem         Category = "filesystem"
	CategoryNetwork            Category = "network"
	CategoryDataAccess         Category = "data_access"
	CategoryPrivilege          Category = "privilege"
	CategoryProcess            Category = "process"
	CategorySystemModification Category = "system_modification"
	CategoryModalAction        Category = "modal_action"
	CategoryRequestFrame       Category = "request_frame"
	CategoryCodeFence          Category = "code_fence"
	CategoryToolCall           Category = "tool_call"
	CategoryConditional        Category = "conditional"
	CategoryEvasion            Category = "evasion"
)

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryExecution, CategoryFilesystem, CategoryNetwork, CategoryDataAccess,
		CategoryPrivilege, CategoryProcess, CategorySystemModification, CategoryModalAction,
		CategoryRequestFrame, CategoryCodeFence, CategoryToolCall, CategoryConditional, CategoryEvasion:
		return true
	}
	return false
}

// ImperativeSpan is a contiguous, non-overlapping range of the normalized
// stream (character offsets, not bytes) matched by a detector pattern
// family.
type ImperativeSpan struct {
	Start    int
	End      int
	Category Category
	Text     string
}

// Violation is an ImperativeSpan that intersects at least one
// untrusted-tagged character.
type Violation struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Decision is the closed set of outcomes a verification call can reach.
type Decision string

const (
	DecisionPass      Decision = "pass"
	DecisionBlocked   Decision = "blocked"
	DecisionRewritten Decision = "rewritten"
)

// IsValid reports whether d is one of the three defined decisions.
func (d Decision) IsValid() bool {
	return d == DecisionPass || d == DecisionBlocked || d == DecisionRewritten
}

// Stats summarizes a verification call for certificates and logging.
type Stats struct {
	ImperativeCount   int `json:"imperative_count"`
	ViolationCount    int `json:"violation_count"`
	TotalCharacters   int `json:"total_characters"`
	SegmentsProcessed int `json:"segments_processed"`
}

// VerificationResult is the pure output of Checker.Verify. Invariant T3:
// Ok == (Decision == DecisionPass) == (len(Violations) == 0). Invariant T4:
// Decision == DecisionBlocked implies the certificate's output hash is
// SHA256("").
type VerificationResult struct {
	Ok             bool
	Violations     []Violation
	InputSHA256    string
	Decision       Decision
	Stats          Stats
	RawText        string
	NormalizedText string
}

// CheckerVersion identifies the compiled pattern-table generation used to
// produce a VerificationResult. It is bumped only when the detector tables
// change in a way that could alter a prior decision.
const CheckerVersion = "niuc-core-1.0"

// CertificateVersion is the fixed schema version string embedded in every
// certificate (spec §3).
const CertificateVersion = "NIUC-1.0"

// EmptySHA256Hex is SHA256("") in lowercase hex. Blocked certificates always
// report this as their output hash (invariant T4).
const EmptySHA256Hex = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// String implements fmt.Stringer for VerificationResult for concise log
// lines.
func (r VerificationResult) String() string {
	return fmt.Sprintf("niuc.VerificationResult{decision=%s violations=%d chars=%d}",
		r.Decision, len(r.Violations), r.Stats.TotalCharacters)
}
