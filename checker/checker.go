// Package checker implements the NIUC Checker (spec §4.D): it orchestrates
// the Normalizer, Provenance Builder, and Imperative Detector, intersects
// candidate imperative spans with untrusted-tagged characters, and
// produces a pure VerificationResult.
package checker

import (
	"errors"

	"github.com/byteness/niuc"
	niucerrors "github.com/byteness/niuc/errors"

	"github.com/byteness/niuc/detect"
	"github.com/byteness/niuc/normalize"
	"github.com/byteness/niuc/provenance"
	"github.com/byteness/niuc/validate"
)

// Verify runs the full A→B→C→D pipeline over segments and returns a
// VerificationResult. It is pure: the same segments always produce a
// byte-identical result (property P1). Input bound violations are
// returned as a niucerrors.Error of KindInvalidInput and no
// VerificationResult is produced.
func Verify(segments []niuc.Segment) (niuc.VerificationResult, error) {
	if err := validate.Segments(segments); err != nil {
		return niuc.VerificationResult{}, toInvalidInputError(err)
	}

	stream := provenance.Build(segments)
	spans := detect.Detect(stream.Text)
	violations := stream.DetectViolations(spans)

	decision := niuc.DecisionPass
	ok := true
	if len(violations) > 0 {
		decision = niuc.DecisionBlocked
		ok = false
	}

	var rawText string
	for _, seg := range segments {
		rawText += seg.Text
	}

	stats := niuc.Stats{
		ImperativeCount:   len(spans),
		ViolationCount:    len(violations),
		TotalCharacters:   len([]rune(stream.Text)),
		SegmentsProcessed: len(segments),
	}

	return niuc.VerificationResult{
		Ok:             ok,
		Violations:     violations,
		InputSHA256:    normalize.Hash(stream.Text),
		Decision:       decision,
		Stats:          stats,
		RawText:        rawText,
		NormalizedText: stream.Text,
	}, nil
}

// toInvalidInputError maps a validate.Segments sentinel error to the
// niucerrors.Error the rest of the pipeline surfaces to callers.
func toInvalidInputError(err error) error {
	code := niucerrors.ErrCodeEmptySegments
	switch {
	case errors.Is(err, validate.ErrTooManySegments):
		code = niucerrors.ErrCodeTooManySegments
	case errors.Is(err, validate.ErrSegmentTooLarge):
		code = niucerrors.ErrCodeSegmentTooLarge
	case errors.Is(err, validate.ErrTotalTooLarge):
		code = niucerrors.ErrCodeTotalTooLarge
	case errors.Is(err, validate.ErrBadChannel):
		code = niucerrors.ErrCodeBadChannel
	case errors.Is(err, validate.ErrSourceIDTooLong):
		code = niucerrors.ErrCodeSourceIDTooLong
	case errors.Is(err, validate.ErrNotUTF8):
		code = niucerrors.ErrCodeNotUTF8
	case errors.Is(err, validate.ErrSegmentsEmpty):
		code = niucerrors.ErrCodeEmptySegments
	}
	return niucerrors.New(niucerrors.KindInvalidInput, code, err.Error(), err)
}
