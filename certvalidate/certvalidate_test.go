package certvalidate

import (
	"testing"

	"github.com/byteness/niuc"
	"github.com/byteness/niuc/certificate"
)

func sealedJSON(t *testing.T, result niuc.VerificationResult, outputText string) []byte {
	t.Helper()
	sealed := certificate.Seal(result, "provhash", outputText, 1700000000)
	return certificate.CanonicalJSON(sealed)
}

func TestValidate_ValidPassCertificate(t *testing.T) {
	result := niuc.VerificationResult{Decision: niuc.DecisionPass, InputSHA256: "a" + repeat("b", 63)}
	issues := Validate(sealedJSON(t, result, "hello"))
	if len(issues) != 0 {
		t.Errorf("expected no issues, got %+v", issues)
	}
}

func TestValidate_ValidBlockedCertificate(t *testing.T) {
	result := niuc.VerificationResult{
		Decision:    niuc.DecisionBlocked,
		InputSHA256: "a" + repeat("b", 63),
		Violations:  []niuc.Violation{{Start: 0, End: 3}},
	}
	issues := Validate(sealedJSON(t, result, ""))
	if len(issues) != 0 {
		t.Errorf("expected no issues, got %+v", issues)
	}
}

func TestValidate_PassWithViolationsIsInvalid(t *testing.T) {
	// Construct a malformed certificate directly (bypassing Seal, which
	// never produces this combination) to exercise the semantic check.
	raw := []byte(`{"certificate":{"version":"NIUC-1.0","checker_version":"v1","timestamp":1,` +
		`"input_sha256":"` + repeat("a", 64) + `","output_sha256":"` + repeat("a", 64) + `",` +
		`"provenance_sha256":"` + repeat("a", 64) + `","decision":"pass",` +
		`"violations":[{"start":0,"end":1}],"stats":{}},"integrity_hash":"` + repeat("a", 64) + `"}`)

	issues := Validate(raw)
	found := false
	for _, iss := range issues {
		if iss.Field == "violations" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a violations issue, got %+v", issues)
	}
}

func TestValidate_BlockedRequiresEmptyOutputHash(t *testing.T) {
	raw := []byte(`{"certificate":{"version":"NIUC-1.0","checker_version":"v1","timestamp":1,` +
		`"input_sha256":"` + repeat("a", 64) + `","output_sha256":"` + repeat("a", 64) + `",` +
		`"provenance_sha256":"` + repeat("a", 64) + `","decision":"blocked",` +
		`"violations":[{"start":0,"end":1}],"stats":{}},"integrity_hash":"` + repeat("a", 64) + `"}`)

	issues := Validate(raw)
	found := false
	for _, iss := range issues {
		if iss.Field == "output_sha256" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an output_sha256 issue for non-empty hash on Blocked, got %+v", issues)
	}
}

func TestValidate_MissingRequiredField(t *testing.T) {
	raw := []byte(`{"certificate":{"version":"NIUC-1.0"},"integrity_hash":"` + repeat("a", 64) + `"}`)
	issues := Validate(raw)
	if len(issues) == 0 {
		t.Error("expected missing-field issues")
	}
}

func TestValidate_BadSHA256Format(t *testing.T) {
	raw := []byte(`{"certificate":{"version":"NIUC-1.0","checker_version":"v1","timestamp":1,` +
		`"input_sha256":"not-a-hash","output_sha256":"` + repeat("a", 64) + `",` +
		`"provenance_sha256":"` + repeat("a", 64) + `","decision":"pass",` +
		`"violations":[],"stats":{}},"integrity_hash":"` + repeat("a", 64) + `"}`)
	issues := Validate(raw)
	found := false
	for _, iss := range issues {
		if iss.Field == "input_sha256" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an input_sha256 format issue, got %+v", issues)
	}
}

func TestValidate_InvalidDecision(t *testing.T) {
	raw := []byte(`{"certificate":{"version":"NIUC-1.0","checker_version":"v1","timestamp":1,` +
		`"input_sha256":"` + repeat("a", 64) + `","output_sha256":"` + repeat("a", 64) + `",` +
		`"provenance_sha256":"` + repeat("a", 64) + `","decision":"maybe",` +
		`"violations":[],"stats":{}},"integrity_hash":"` + repeat("a", 64) + `"}`)
	issues := Validate(raw)
	found := false
	for _, iss := range issues {
		if iss.Field == "decision" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a decision issue, got %+v", issues)
	}
}

func TestValidate_NotJSON(t *testing.T) {
	issues := Validate([]byte("not json at all"))
	if len(issues) == 0 {
		t.Error("expected an issue for unparseable input")
	}
}

func TestValid_ConvenienceWrapper(t *testing.T) {
	result := niuc.VerificationResult{Decision: niuc.DecisionPass, InputSHA256: repeat("a", 64)}
	if !Valid(sealedJSON(t, result, "hello")) {
		t.Error("expected a valid certificate to report Valid() == true")
	}
	if Valid([]byte("garbage")) {
		t.Error("expected garbage input to report Valid() == false")
	}
}

func repeat(s string, n int) string {
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
