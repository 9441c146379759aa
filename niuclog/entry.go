// Package niuclog provides structured, tamper-evident audit logging for
// NIUC verification and gate-processing calls, adapted from the
// teacher's logging package (DecisionLogEntry, SignedLogger,
// SignatureConfig) and retargeted from access decisions to verification
// outcomes.
package niuclog

import (
	"time"

	"github.com/byteness/niuc"
	"github.com/byteness/niuc/certificate"
)

// VerificationLogEntry captures the context of one gate.Process call for
// an append-only audit trail, the verification-domain counterpart of the
// teacher's DecisionLogEntry.
type VerificationLogEntry struct {
	Timestamp        string        `json:"timestamp"` // RFC3339
	Decision         niuc.Decision `json:"decision"`
	InputSHA256      string        `json:"input_sha256"`
	OutputSHA256     string        `json:"output_sha256"`
	ProvenanceSHA256 string        `json:"provenance_sha256"`
	IntegrityHash    string        `json:"integrity_hash"`
	ViolationCount   int           `json:"violation_count"`
	SegmentsCount    int           `json:"segments_processed"`
	SourceIDs        []string      `json:"source_ids,omitempty"`
}

// NewVerificationLogEntry builds a VerificationLogEntry from a sealed
// certificate and the originating segments' source IDs.
func NewVerificationLogEntry(sealed certificate.Sealed, sourceIDs []string) VerificationLogEntry {
	return VerificationLogEntry{
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		Decision:         sealed.Certificate.Decision,
		InputSHA256:      sealed.Certificate.InputSHA256,
		OutputSHA256:     sealed.Certificate.OutputSHA256,
		ProvenanceSHA256: sealed.Certificate.ProvenanceSHA256,
		IntegrityHash:    sealed.IntegrityHash,
		ViolationCount:   len(sealed.Certificate.Violations),
		SegmentsCount:    sealed.Certificate.Stats.SegmentsProcessed,
		SourceIDs:        sourceIDs,
	}
}
