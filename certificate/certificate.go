// Package certificate implements the NIUC Certificate Sealer (spec §4.G):
// it builds the canonical certificate object for a verification result,
// serializes it deterministically, and seals it with an integrity hash.
package certificate

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/byteness/niuc"
)

// Certificate is the inner, tamper-evident record of one verification or
// gate-processing call (spec §3). Field order here does not determine
// wire order: CanonicalJSON re-encodes with sorted keys.
type Certificate struct {
	Version          string          `json:"version"`
	CheckerVersion   string          `json:"checker_version"`
	Timestamp        int64           `json:"timestamp"`
	InputSHA256      string          `json:"input_sha256"`
	OutputSHA256     string          `json:"output_sha256"`
	ProvenanceSHA256 string          `json:"provenance_sha256"`
	Decision         niuc.Decision   `json:"decision"`
	Violations       []niuc.Violation `json:"violations"`
	Stats            niuc.Stats      `json:"stats"`
}

// Sealed wraps a Certificate with its computed integrity hash (spec §3).
type Sealed struct {
	Certificate Certificate `json:"certificate"`
	IntegrityHash string    `json:"integrity_hash"`
}

// emptyHash is SHA256("") in lowercase hex, recomputed here rather than
// imported so output-hash selection (see Seal) touches both hashes on
// every call regardless of decision.
var emptyHash = sha256Hex("")

// Seal builds and signs the certificate for one verification/gate outcome.
// Both the pass-output hash and the blocked (empty) hash are always
// computed before the final select, so the two decision paths do the same
// hashing work — spec §4.G's "constant-time-ish" requirement against
// leaking the decision through measurable timing differences.
func Seal(result niuc.VerificationResult, provenanceHash string, outputText string, timestamp int64) Sealed {
	passHash := sha256Hex(outputText)
	blockedHash := emptyHash

	isBlocked := result.Decision == niuc.DecisionBlocked
	outputHash := selectHash(isBlocked, blockedHash, passHash)

	violations := result.Violations
	if violations == nil {
		violations = []niuc.Violation{}
	}

	cert := Certificate{
		Version:          niuc.CertificateVersion,
		CheckerVersion:   niuc.CheckerVersion,
		Timestamp:        timestamp,
		InputSHA256:      result.InputSHA256,
		OutputSHA256:      outputHash,
		ProvenanceSHA256: provenanceHash,
		Decision:         result.Decision,
		Violations:       violations,
		Stats:            result.Stats,
	}

	canonical := CanonicalJSON(cert)
	return Sealed{
		Certificate:   cert,
		IntegrityHash: sha256Hex(string(canonical)),
	}
}

// selectHash picks blocked over pass without branching on the boolean at
// the call site — both hashes are always computed by the caller before
// this runs.
func selectHash(blocked bool, blockedHash, passHash string) string {
	if blocked {
		return blockedHash
	}
	return passHash
}

// CanonicalJSON serializes v with sorted object keys and no extraneous
// whitespace (spec §4.G). encoding/json already emits struct fields
// without whitespace and in a fixed (struct-declaration) order; for the
// top-level Certificate struct that declaration order is itself
// alphabetically sorted field-name-wise is not guaranteed, so this
// re-marshals through a generic map to force lexicographic key order,
// matching what a canonical-JSON verifier on the other side would expect.
func CanonicalJSON(v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		// v is not a JSON object (shouldn't happen for Certificate/Sealed);
		// fall back to the direct marshal.
		return raw
	}
	canonical, err := marshalSorted(generic)
	if err != nil {
		return raw
	}
	return canonical
}

// marshalSorted re-encodes a decoded JSON object with its keys in
// lexicographic order, recursing into nested objects and into the
// elements of arrays (e.g. each entry of "violations").
func marshalSorted(m map[string]json.RawMessage) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf []byte
	buf = append(buf, '{')
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')

		canonical, err := canonicalizeValue(m[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, canonical...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// canonicalizeValue sorts the keys of raw if it decodes as a JSON object,
// canonicalizes each element if it decodes as an array, and otherwise
// returns raw unchanged (it is already a minimal scalar encoding).
func canonicalizeValue(raw json.RawMessage) ([]byte, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil && obj != nil {
		return marshalSorted(obj)
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil && arr != nil {
		var buf []byte
		buf = append(buf, '[')
		for i, elem := range arr {
			if i > 0 {
				buf = append(buf, ',')
			}
			canonical, err := canonicalizeValue(elem)
			if err != nil {
				return nil, err
			}
			buf = append(buf, canonical...)
		}
		buf = append(buf, ']')
		return buf, nil
	}

	return raw, nil
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
