// Package gate implements the NIUC Runtime Gate (spec §4.F): the
// Block/Certified-Rewrite state machine that turns a Checker decision
// (plus, in rewrite mode, a Neutralizer pass and a single bounded
// re-verification) into a sealed certificate.
package gate

import (
	"fmt"

	"github.com/byteness/niuc"
	"github.com/byteness/niuc/certificate"
	"github.com/byteness/niuc/checker"
	"github.com/byteness/niuc/neutralize"
	"github.com/byteness/niuc/provenance"
)

// Result is the wire-neutral return value of Process, matching spec §6's
// process() contract: { allowed, original, final, final_text,
// certificate_json, rewrite_applied, error }. Final is nil when the call
// is Blocked — there is no final verification state to report when no
// output is produced; it equals Original unchanged when the decision is
// Pass, and is the re-verified post-rewrite result when Rewritten.
type Result struct {
	Allowed         bool
	Original        niuc.VerificationResult
	Final           *niuc.VerificationResult
	FinalText       string
	CertificateJSON string
	RewriteApplied  bool
	Sealed          certificate.Sealed
}

// Mode selects the Runtime Gate's behavior on a Blocked decision.
type Mode string

const (
	// ModeBlock refuses untrusted imperatives outright.
	ModeBlock Mode = "block"
	// ModeCertifiedRewrite attempts a single bounded neutralize-and-reverify
	// pass before falling back to a refusal.
	ModeCertifiedRewrite Mode = "certified_rewrite"
)

// IsValid reports whether m is one of the two defined modes.
func (m Mode) IsValid() bool {
	return m == ModeBlock || m == ModeCertifiedRewrite
}

// ClockFn returns the current Unix timestamp used to stamp a certificate.
// Processing takes this as a dependency, the way the teacher's signed
// logger takes an injectable clock, so that Process remains pure and
// deterministic under test.
type ClockFn func() int64

// RuntimeConfig configures one Process call.
type RuntimeConfig struct {
	Mode  Mode
	Clock ClockFn
}

// Validate reports a configuration error before Process ever runs.
func (c RuntimeConfig) Validate() error {
	if !c.Mode.IsValid() {
		return fmt.Errorf("gate: invalid mode %q", c.Mode)
	}
	if c.Clock == nil {
		return fmt.Errorf("gate: Clock must not be nil")
	}
	return nil
}

// Process runs the full state machine of spec §4.F:
//
//	Segments -> Checker -> Pass -> Seal(Pass)
//	                |
//	                +-Blocked-+-(mode=Block)----> Seal(Blocked)
//	                          +-(mode=Rewrite)--> Neutralize
//	                                               |
//	                                          Checker'
//	                                         +-Pass---> Seal(Rewritten)
//	                                         +-Blocked-> Seal(Blocked, original violations)
//
// An invalid cfg or segment list that fails input validation is returned
// as an error with a zero Result and no certificate. An internal panic
// during processing (recovered below) yields a fail-closed Blocked seal
// with empty violations and an empty input/output hash — no retry, no
// partial allowance (spec §4.F failure semantics).
func Process(segments []niuc.Segment, cfg RuntimeConfig) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	result, invalidInput, panicked := process(segments, cfg)
	switch {
	case invalidInput != nil:
		// Input bound violations are reported to the caller, not folded
		// into a fail-closed seal: they are a rejected call, not a
		// processing failure (spec §4.D step 1 vs. §4.F failure semantics).
		return Result{}, invalidInput
	case panicked:
		// Any unexpected internal failure fails closed: a Blocked seal
		// with empty violations and empty input/output, no retry, no
		// partial allowance (spec §4.F).
		return failClosedResult(cfg.Clock()), nil
	default:
		return result, nil
	}
}

func process(segments []niuc.Segment, cfg RuntimeConfig) (result Result, invalidInput error, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
		}
	}()

	verified, verifyErr := checker.Verify(segments)
	if verifyErr != nil {
		return Result{}, verifyErr, false
	}

	stream := provenance.Build(segments)

	if verified.Decision == niuc.DecisionPass {
		sealed := certificate.Seal(verified, stream.Hash(), verified.NormalizedText, cfg.Clock())
		return Result{
			Allowed:         true,
			Original:        verified,
			Final:           &verified,
			FinalText:       verified.NormalizedText,
			CertificateJSON: string(certificate.CanonicalJSON(sealed)),
			RewriteApplied:  false,
			Sealed:          sealed,
		}, nil, false
	}

	// verified.Decision == DecisionBlocked from here.
	if cfg.Mode == ModeBlock {
		sealed := certificate.Seal(verified, stream.Hash(), "", cfg.Clock())
		return Result{
			Allowed:         false,
			Original:        verified,
			Final:           nil,
			FinalText:       "",
			CertificateJSON: string(certificate.CanonicalJSON(sealed)),
			RewriteApplied:  false,
			Sealed:          sealed,
		}, nil, false
	}

	return certifiedRewrite(verified, stream, cfg), nil, false
}

// certifiedRewrite implements the Certified-Rewrite branch: neutralize the
// normalized text, re-verify as a single trusted segment, and seal
// Rewritten on success or Blocked (with the original violations) on
// failure. Re-verification is bounded to exactly one pass. A failure of
// the internal re-verify call itself (e.g. the neutralized text exceeding
// a single-segment size bound) is treated the same as a failed
// re-verification, not as an InvalidInput rejection of the original call:
// the original segments already passed validation in process().
func certifiedRewrite(original niuc.VerificationResult, stream provenance.Stream, cfg RuntimeConfig) Result {
	violationPairs := make([][2]int, len(original.Violations))
	for i, v := range original.Violations {
		violationPairs[i] = [2]int{v.Start, v.End}
	}

	rewritten, _ := neutralize.Neutralize(original.NormalizedText, violationPairs)

	rewriteSegments := []niuc.Segment{{
		Text:     rewritten,
		Channel:  niuc.Trusted,
		SourceID: "neutralized",
	}}

	reverified, reverifyErr := checker.Verify(rewriteSegments)
	if reverifyErr == nil && reverified.Decision == niuc.DecisionPass {
		rewrittenResult := original
		rewrittenResult.Decision = niuc.DecisionRewritten
		rewrittenResult.Ok = false
		rewrittenResult.NormalizedText = rewritten
		sealed := certificate.Seal(rewrittenResult, stream.Hash(), rewritten, cfg.Clock())
		return Result{
			Allowed:         true,
			Original:        original,
			Final:           &rewrittenResult,
			FinalText:       rewritten,
			CertificateJSON: string(certificate.CanonicalJSON(sealed)),
			RewriteApplied:  true,
			Sealed:          sealed,
		}
	}

	// Re-verification failed (or could not even run): refuse, preserving
	// the original violations as forensic evidence.
	sealed := certificate.Seal(original, stream.Hash(), "", cfg.Clock())
	return Result{
		Allowed:         false,
		Original:        original,
		Final:           nil,
		FinalText:       "",
		CertificateJSON: string(certificate.CanonicalJSON(sealed)),
		RewriteApplied:  false,
		Sealed:          sealed,
	}
}

// failClosedResult produces the fail-closed Blocked result emitted when
// processing itself errors out (spec §4.F: "any exception... becomes a
// Blocked seal with empty violations and empty input/output").
func failClosedResult(timestamp int64) Result {
	empty := niuc.VerificationResult{
		Ok:          false,
		Decision:    niuc.DecisionBlocked,
		InputSHA256: niuc.EmptySHA256Hex,
	}
	sealed := certificate.Seal(empty, "", "", timestamp)
	return Result{
		Allowed:         false,
		Original:        empty,
		Final:           nil,
		FinalText:       "",
		CertificateJSON: string(certificate.CanonicalJSON(sealed)),
		RewriteApplied:  false,
		Sealed:          sealed,
	}
}
