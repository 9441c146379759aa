package certificate

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/byteness/niuc"
)

func passResult() niuc.VerificationResult {
	return niuc.VerificationResult{
		Ok:             true,
		Decision:       niuc.DecisionPass,
		InputSHA256:    "abc123",
		NormalizedText: "hello world",
		Stats:          niuc.Stats{TotalCharacters: 11, SegmentsProcessed: 1},
	}
}

func blockedResult() niuc.VerificationResult {
	return niuc.VerificationResult{
		Ok:          false,
		Decision:    niuc.DecisionBlocked,
		InputSHA256: "def456",
		Violations:  []niuc.Violation{{Start: 0, End: 7}},
		Stats:       niuc.Stats{ViolationCount: 1, TotalCharacters: 20, SegmentsProcessed: 1},
	}
}

func TestSeal_PassOutputHash(t *testing.T) {
	sealed := Seal(passResult(), "provhash", "hello world", 1700000000)
	if sealed.Certificate.OutputSHA256 == niuc.EmptySHA256Hex {
		t.Error("pass certificate should not use the empty-string hash")
	}
	if sealed.Certificate.Decision != niuc.DecisionPass {
		t.Errorf("got decision %q", sealed.Certificate.Decision)
	}
	if len(sealed.Certificate.Violations) != 0 {
		t.Errorf("expected no violations, got %+v", sealed.Certificate.Violations)
	}
}

// T4: Blocked => output_hash = SHA256("").
func TestSeal_BlockedOutputHashIsEmptyHash(t *testing.T) {
	sealed := Seal(blockedResult(), "provhash", "hello world", 1700000000)
	if sealed.Certificate.OutputSHA256 != niuc.EmptySHA256Hex {
		t.Errorf("expected empty-string hash for blocked certificate, got %q", sealed.Certificate.OutputSHA256)
	}
	if len(sealed.Certificate.Violations) == 0 {
		t.Error("blocked certificate must carry its violations")
	}
}

func TestSeal_IntegrityHashDeterministic(t *testing.T) {
	a := Seal(passResult(), "provhash", "hello world", 1700000000)
	b := Seal(passResult(), "provhash", "hello world", 1700000000)
	if a.IntegrityHash != b.IntegrityHash {
		t.Errorf("integrity hash not deterministic: %q vs %q", a.IntegrityHash, b.IntegrityHash)
	}
	if len(a.IntegrityHash) != 64 {
		t.Errorf("expected 64-char hex digest, got %d", len(a.IntegrityHash))
	}
}

func TestSeal_IntegrityHashChangesWithContent(t *testing.T) {
	a := Seal(passResult(), "provhash", "hello world", 1700000000)
	b := Seal(passResult(), "different-provhash", "hello world", 1700000000)
	if a.IntegrityHash == b.IntegrityHash {
		t.Error("expected integrity hash to change when provenance hash differs")
	}
}

func TestCanonicalJSON_KeysSortedRecursively(t *testing.T) {
	sealed := Seal(blockedResult(), "provhash", "hello world", 1700000000)
	raw := CanonicalJSON(sealed)

	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("CanonicalJSON output does not parse as JSON: %v", err)
	}

	// "certificate" sorts before "integrity_hash".
	idxCert := strings.Index(string(raw), `"certificate"`)
	idxHash := strings.Index(string(raw), `"integrity_hash"`)
	if idxCert == -1 || idxHash == -1 || idxCert > idxHash {
		t.Errorf("expected top-level keys in sorted order, got %s", raw)
	}

	// Inside each violation object, "end" sorts before "start".
	idxEnd := strings.Index(string(raw), `"end"`)
	idxStart := strings.Index(string(raw), `"start"`)
	if idxEnd == -1 || idxStart == -1 || idxEnd > idxStart {
		t.Errorf("expected violation object keys sorted (end before start), got %s", raw)
	}
}

// Seal's certificate fields must survive a JSON round-trip unchanged; this
// guards against a field being dropped or renamed by a future tag edit.
func TestSeal_CertificateSurvivesJSONRoundTrip(t *testing.T) {
	sealed := Seal(blockedResult(), "provhash", "hello world", 1700000000)

	data, err := json.Marshal(sealed.Certificate)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var roundTripped Certificate
	if err := json.Unmarshal(data, &roundTripped); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(sealed.Certificate, roundTripped); diff != "" {
		t.Errorf("certificate changed across JSON round-trip (-want +got):\n%s", diff)
	}
}

func TestCanonicalJSON_NoWhitespace(t *testing.T) {
	sealed := Seal(passResult(), "provhash", "hello world", 1700000000)
	raw := CanonicalJSON(sealed)
	for _, b := range raw {
		if b == ' ' || b == '\n' || b == '\t' {
			t.Fatalf("canonical JSON contains whitespace: %s", raw)
		}
	}
}
