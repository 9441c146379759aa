// Package certvalidate implements the NIUC Validator (spec §4.H):
// stateless structural and semantic checks on a decoded certificate
// object, independent of the Checker/Gate that produced it.
package certvalidate

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/byteness/niuc"
)

var sha256HexPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Issue is one structural or semantic defect found in a certificate.
type Issue struct {
	Field   string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// decodedCertificate mirrors certificate.Certificate's wire shape without
// importing the certificate package, so Validate can check a certificate
// decoded from an arbitrary source (e.g. a third-party reader) rather
// than only one round-tripped through this module's own sealer.
type decodedCertificate struct {
	Version          json.RawMessage  `json:"version"`
	CheckerVersion   json.RawMessage  `json:"checker_version"`
	Timestamp        json.RawMessage  `json:"timestamp"`
	InputSHA256      string           `json:"input_sha256"`
	OutputSHA256     string           `json:"output_sha256"`
	ProvenanceSHA256 string           `json:"provenance_sha256"`
	Decision         niuc.Decision    `json:"decision"`
	Violations       []rawViolation   `json:"violations"`
	Stats            json.RawMessage  `json:"stats"`
}

type rawViolation struct {
	Start json.Number `json:"start"`
	End   json.Number `json:"end"`
}

type decodedSealed struct {
	Certificate json.RawMessage `json:"certificate"`
	IntegrityHash string        `json:"integrity_hash"`
}

var requiredCertificateFields = []string{
	"version", "checker_version", "timestamp", "input_sha256",
	"output_sha256", "provenance_sha256", "decision", "violations", "stats",
}

// Validate decodes sealedJSON as a {certificate, integrity_hash} object
// and runs every structural and semantic check from spec §4.H, returning
// every issue found (not just the first).
func Validate(sealedJSON []byte) []Issue {
	var sealed decodedSealed
	if err := json.Unmarshal(sealedJSON, &sealed); err != nil {
		return []Issue{{Field: "", Message: "not a valid JSON object: " + err.Error()}}
	}

	var issues []Issue

	if sealed.IntegrityHash == "" {
		issues = append(issues, Issue{Field: "integrity_hash", Message: "missing"})
	} else if !sha256HexPattern.MatchString(sealed.IntegrityHash) {
		issues = append(issues, Issue{Field: "integrity_hash", Message: "not a 64-char lowercase hex SHA-256 digest"})
	}

	if len(sealed.Certificate) == 0 {
		issues = append(issues, Issue{Field: "certificate", Message: "missing"})
		return issues
	}

	issues = append(issues, checkRequiredFields(sealed.Certificate)...)

	var cert decodedCertificate
	if err := json.Unmarshal(sealed.Certificate, &cert); err != nil {
		issues = append(issues, Issue{Field: "certificate", Message: "does not decode: " + err.Error()})
		return issues
	}

	issues = append(issues, structuralChecks(cert)...)
	issues = append(issues, semanticChecks(cert)...)

	return issues
}

// checkRequiredFields reports any of the nine top-level certificate
// fields (spec §3) absent from the decoded object, prior to any
// type-specific decoding.
func checkRequiredFields(raw json.RawMessage) []Issue {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		return []Issue{{Field: "certificate", Message: "not a JSON object"}}
	}
	var issues []Issue
	for _, field := range requiredCertificateFields {
		if _, ok := generic[field]; !ok {
			issues = append(issues, Issue{Field: field, Message: "missing required field"})
		}
	}
	return issues
}

// structuralChecks implements spec §4.H's "Structural" bullet.
func structuralChecks(cert decodedCertificate) []Issue {
	var issues []Issue

	if !isJSONString(cert.CheckerVersion) {
		issues = append(issues, Issue{Field: "checker_version", Message: "must be a string"})
	}

	if !sha256HexPattern.MatchString(cert.InputSHA256) {
		issues = append(issues, Issue{Field: "input_sha256", Message: "not a 64-char lowercase hex SHA-256 digest"})
	}
	if !sha256HexPattern.MatchString(cert.OutputSHA256) {
		issues = append(issues, Issue{Field: "output_sha256", Message: "not a 64-char lowercase hex SHA-256 digest"})
	}

	if !cert.Decision.IsValid() {
		issues = append(issues, Issue{Field: "decision", Message: fmt.Sprintf("unknown decision %q", cert.Decision)})
	}

	for i, v := range cert.Violations {
		start, errS := v.Start.Int64()
		end, errE := v.End.Int64()
		if errS != nil || errE != nil || start < 0 || end < 0 {
			issues = append(issues, Issue{Field: fmt.Sprintf("violations[%d]", i), Message: "start/end must be non-negative integers"})
			continue
		}
		if start >= end {
			issues = append(issues, Issue{Field: fmt.Sprintf("violations[%d]", i), Message: "start must be < end"})
		}
	}

	return issues
}

// semanticChecks implements spec §4.H's "Semantic" bullet.
func semanticChecks(cert decodedCertificate) []Issue {
	var issues []Issue

	switch cert.Decision {
	case niuc.DecisionPass:
		if len(cert.Violations) != 0 {
			issues = append(issues, Issue{Field: "violations", Message: "decision Pass requires an empty violations list"})
		}
	case niuc.DecisionBlocked, niuc.DecisionRewritten:
		if len(cert.Violations) == 0 {
			issues = append(issues, Issue{Field: "violations", Message: fmt.Sprintf("decision %s requires a non-empty violations list", cert.Decision)})
		}
	}

	if cert.Decision == niuc.DecisionBlocked && cert.OutputSHA256 != niuc.EmptySHA256Hex {
		issues = append(issues, Issue{Field: "output_sha256", Message: "decision Blocked requires output_sha256 = SHA256(\"\")"})
	}

	return issues
}

func isJSONString(raw json.RawMessage) bool {
	var s string
	return json.Unmarshal(raw, &s) == nil
}

// Valid reports whether Validate would return no issues. Convenience
// wrapper for callers that only need a boolean.
func Valid(sealedJSON []byte) bool {
	return len(Validate(sealedJSON)) == 0
}
