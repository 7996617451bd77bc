package record

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"time"
)

// PublicKeyLookup resolves a keyId (an actor id) to its Ed25519 public
// key. Implemented by the identity adapter collaborator; record itself
// never decides how keys are stored.
type PublicKeyLookup func(keyID string) (ed25519.PublicKey, error)

// Sign appends a new signature to e, computed over the current payload.
// Per E1/invariant, signing always recomputes PayloadChecksum first so a
// stale checksum can never survive a sign step even if the caller mutated
// Payload without calling through a setter.
func Sign(e *Envelope, privateKey ed25519.PrivateKey, keyID, role, notes string) (*Envelope, error) {
	out := e.Clone()

	checksum, err := ChecksumRaw(out.Payload)
	if err != nil {
		return nil, fmt.Errorf("record: sign: %w", err)
	}
	out.Header.PayloadChecksum = checksum

	timestamp := time.Now().Unix()
	digest, err := signingDigest(out.Payload, keyID, role, notes, timestamp)
	if err != nil {
		return nil, fmt.Errorf("record: sign: computing digest: %w", err)
	}

	sig := ed25519.Sign(privateKey, digest)

	out.Header.Signatures = append(out.Header.Signatures, Signature{
		KeyID:     keyID,
		Role:      role,
		Notes:     notes,
		Signature: base64.StdEncoding.EncodeToString(sig),
		Timestamp: timestamp,
	})

	return out, nil
}

// VerifyErrorKind classifies why Verify rejected a record.
type VerifyErrorKind string

const (
	VerifyInvalidChecksum VerifyErrorKind = "invalidChecksum"
	VerifyBadSignature    VerifyErrorKind = "badSignature"
	VerifyUnknownKey      VerifyErrorKind = "unknownKey"
)

// VerifyError reports a specific record verification failure.
type VerifyError struct {
	Kind  VerifyErrorKind
	KeyID string
}

func (e *VerifyError) Error() string {
	if e.KeyID != "" {
		return fmt.Sprintf("record: %s (keyId=%s)", e.Kind, e.KeyID)
	}
	return fmt.Sprintf("record: %s", e.Kind)
}

// Verify checks invariant E1 (checksum matches payload) and E2 (every
// signature verifies under the key resolved by lookup). It returns nil
// on success or the first *VerifyError encountered, in signature order.
func Verify(e *Envelope, lookup PublicKeyLookup) error {
	expected, err := ChecksumRaw(e.Payload)
	if err != nil {
		return fmt.Errorf("record: verify: %w", err)
	}
	if expected != e.Header.PayloadChecksum {
		return &VerifyError{Kind: VerifyInvalidChecksum}
	}

	if len(e.Header.Signatures) == 0 {
		return &VerifyError{Kind: VerifyBadSignature}
	}

	for _, sig := range e.Header.Signatures {
		pubKey, err := lookup(sig.KeyID)
		if err != nil || len(pubKey) != ed25519.PublicKeySize {
			return &VerifyError{Kind: VerifyUnknownKey, KeyID: sig.KeyID}
		}

		digest, err := signingDigest(e.Payload, sig.KeyID, sig.Role, sig.Notes, sig.Timestamp)
		if err != nil {
			return fmt.Errorf("record: verify: computing digest: %w", err)
		}

		raw, err := base64.StdEncoding.DecodeString(sig.Signature)
		if err != nil {
			return &VerifyError{Kind: VerifyBadSignature, KeyID: sig.KeyID}
		}

		if !ed25519.Verify(pubKey, digest, raw) {
			return &VerifyError{Kind: VerifyBadSignature, KeyID: sig.KeyID}
		}
	}

	return nil
}
