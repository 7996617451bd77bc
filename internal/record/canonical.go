package record

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// Canonicalize produces the deterministic byte encoding of v used for both
// the payload checksum and the signing digest: sorted object keys, fixed
// number/string encoding, per RFC 8785 (JSON Canonicalization Scheme).
// Using the same canonicalizer other gitgov implementations use is what
// makes the checksum reproducible across them.
func Canonicalize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("record: marshaling value: %w", err)
	}
	return CanonicalizeRaw(raw)
}

// CanonicalizeRaw runs JCS transformation directly on already-serialized
// JSON, avoiding a decode/re-encode round trip when the caller already
// has raw bytes (e.g. a payload read straight off disk).
func CanonicalizeRaw(raw json.RawMessage) ([]byte, error) {
	out, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("record: canonicalizing JSON: %w", err)
	}
	return out, nil
}

// Checksum computes the 64-hex-char SHA-256 of the canonical encoding of v.
func Checksum(v any) (string, error) {
	canon, err := Canonicalize(v)
	if err != nil {
		return "", err
	}
	return checksumBytes(canon), nil
}

// ChecksumRaw is Checksum for an already-serialized payload.
func ChecksumRaw(raw json.RawMessage) (string, error) {
	canon, err := CanonicalizeRaw(raw)
	if err != nil {
		return "", err
	}
	return checksumBytes(canon), nil
}

func checksumBytes(canon []byte) string {
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:])
}

// signingDigest hashes the tuple (canonical(payload), keyId, role, notes,
// timestamp) that a Signature is produced over. The signature is always
// taken over this digest, never over the envelope's in-memory shape, so
// re-serializing an envelope (different key order, whitespace, ...) can
// never invalidate a signature.
func signingDigest(payload json.RawMessage, keyID, role, notes string, timestamp int64) ([]byte, error) {
	canonPayload, err := CanonicalizeRaw(payload)
	if err != nil {
		return nil, err
	}
	tuple := struct {
		Payload   json.RawMessage `json:"payload"`
		KeyID     string          `json:"keyId"`
		Role      string          `json:"role"`
		Notes     string          `json:"notes"`
		Timestamp int64           `json:"timestamp"`
	}{
		Payload:   canonPayload,
		KeyID:     keyID,
		Role:      role,
		Notes:     notes,
		Timestamp: timestamp,
	}
	canon, err := Canonicalize(tuple)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(canon)
	return sum[:], nil
}
