package record

import (
	"encoding/json"
	"fmt"
)

// SchemaVersion is the only header.version this implementation accepts.
const SchemaVersion = "1.0"

// Header carries the integrity and provenance metadata for a record.
// It never contains payload data itself — only a checksum over it and
// the signature chain that has been applied to it.
type Header struct {
	Version         string      `json:"version"`
	Type            Kind        `json:"type"`
	PayloadChecksum string      `json:"payloadChecksum"`
	Signatures      []Signature `json:"signatures"`
	SchemaURL       string      `json:"schemaUrl,omitempty"`
	SchemaChecksum  string      `json:"schemaChecksum,omitempty"`
}

// Signature is one entry in a record's signature chain. The signed digest
// covers payload ⊕ keyId ⊕ role ⊕ notes ⊕ timestamp — see signingDigest.
type Signature struct {
	KeyID     string `json:"keyId"`
	Role      string `json:"role"`
	Notes     string `json:"notes,omitempty"`
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
}

// Envelope is the on-disk {header, payload} pair. Payload is kept as raw
// JSON: the sync engine and most of this package never need to decode it
// into a typed variant (spec: records are opaque JSON to the sync layer),
// only DecodePayload does, on demand.
type Envelope struct {
	Header  Header          `json:"header"`
	Payload json.RawMessage `json:"payload"`
}

// NewEnvelope builds an envelope around payload with an empty signature
// chain. Callers must Sign it at least once before it is valid (E1/E2).
func NewEnvelope(kind Kind, payload json.RawMessage) (*Envelope, error) {
	checksum, err := ChecksumRaw(payload)
	if err != nil {
		return nil, fmt.Errorf("record: computing checksum: %w", err)
	}
	return &Envelope{
		Header: Header{
			Version:         SchemaVersion,
			Type:            kind,
			PayloadChecksum: checksum,
		},
		Payload: payload,
	}, nil
}

// Clone returns a deep-enough copy of e suitable for mutation (signing)
// without aliasing the signature slice of the original.
func (e *Envelope) Clone() *Envelope {
	sigs := make([]Signature, len(e.Header.Signatures))
	copy(sigs, e.Header.Signatures)
	payload := make(json.RawMessage, len(e.Payload))
	copy(payload, e.Payload)
	clone := *e
	clone.Header.Signatures = sigs
	clone.Payload = payload
	return &clone
}

// Marshal serializes the full envelope (header + payload) for storage
// under .gitgov/<kind>/<id>.json. This is NOT the canonical form used
// for checksums — it is ordinary indented JSON for readability in the
// working tree.
func (e *Envelope) Marshal() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// Unmarshal parses raw bytes (a file's contents) into an Envelope.
// It does not validate the checksum or signatures — call Verify for that.
func Unmarshal(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("record: invalid envelope JSON: %w", err)
	}
	return &e, nil
}
