package niuclog

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"
)

// MinKeyLength is the minimum required HMAC-SHA256 secret key length, 32
// bytes (256 bits), matching the teacher's logging.MinKeyLength.
const MinKeyLength = 32

// ErrKeyTooShort is returned when the secret key is shorter than MinKeyLength.
var ErrKeyTooShort = errors.New("niuclog: secret key must be at least 32 bytes")

// SignatureConfig holds the HMAC-SHA256 signing key for log entries.
type SignatureConfig struct {
	KeyID     string
	SecretKey []byte
}

// Validate checks that the configuration carries a sufficiently long key.
func (c *SignatureConfig) Validate() error {
	if len(c.SecretKey) < MinKeyLength {
		return ErrKeyTooShort
	}
	return nil
}

// SignedEntry wraps a VerificationLogEntry with its HMAC-SHA256 signature,
// computed over the entry's JSON encoding only (Timestamp and KeyID are not
// covered), mirroring the teacher's logging.SignedEntry.
type SignedEntry struct {
	Entry     json.RawMessage `json:"entry"`
	Signature string          `json:"signature"`
	KeyID     string          `json:"key_id"`
	Timestamp string          `json:"timestamp"`
}

// ComputeSignature computes the hex-encoded HMAC-SHA256 of entry's JSON
// encoding using secretKey.
func ComputeSignature(entry any, secretKey []byte) (string, error) {
	if len(secretKey) < MinKeyLength {
		return "", ErrKeyTooShort
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, secretKey)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// VerifySignature reports whether signature is the correct HMAC-SHA256 of
// entry's JSON encoding under secretKey, using a constant-time comparison
// to avoid leaking how many leading bytes matched.
func VerifySignature(entry any, signature string, secretKey []byte) (bool, error) {
	want, err := ComputeSignature(entry, secretKey)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(signature)) == 1, nil
}

// NewSignedEntry builds a SignedEntry for entry under cfg.
func NewSignedEntry(entry any, cfg *SignatureConfig) (SignedEntry, error) {
	if err := cfg.Validate(); err != nil {
		return SignedEntry{}, err
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return SignedEntry{}, err
	}
	sig, err := ComputeSignature(entry, cfg.SecretKey)
	if err != nil {
		return SignedEntry{}, err
	}
	return SignedEntry{
		Entry:     raw,
		Signature: sig,
		KeyID:     cfg.KeyID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}
