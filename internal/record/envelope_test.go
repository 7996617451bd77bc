package record

import (
	"encoding/json"
	"testing"
)

func TestNewEnvelope_SetsChecksum(t *testing.T) {
	payload := json.RawMessage(`{"id":"human:alice"}`)
	env, err := NewEnvelope(KindActor, payload)
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	if env.Header.Version != SchemaVersion {
		t.Errorf("Version = %q, want %q", env.Header.Version, SchemaVersion)
	}
	if env.Header.PayloadChecksum == "" {
		t.Error("expected non-empty payload checksum")
	}
	if len(env.Header.Signatures) != 0 {
		t.Error("expected no signatures on a fresh envelope")
	}
}

func TestEnvelope_MarshalUnmarshal_RoundTrip(t *testing.T) {
	payload := json.RawMessage(`{"id":"human:alice"}`)
	env, err := NewEnvelope(KindActor, payload)
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	data, err := env.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Header.PayloadChecksum != env.Header.PayloadChecksum {
		t.Error("checksum should survive a marshal/unmarshal round trip")
	}
	if string(back.Payload) != string(env.Payload) {
		t.Error("payload should survive a marshal/unmarshal round trip")
	}
}

func TestEnvelope_Clone_DoesNotAliasSignatures(t *testing.T) {
	env, err := NewEnvelope(KindTask, json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	env.Header.Signatures = append(env.Header.Signatures, Signature{KeyID: "k1"})

	clone := env.Clone()
	clone.Header.Signatures = append(clone.Header.Signatures, Signature{KeyID: "k2"})

	if len(env.Header.Signatures) != 1 {
		t.Errorf("mutating the clone's signature slice affected the original: len=%d", len(env.Header.Signatures))
	}
}

func TestUnmarshal_InvalidJSON(t *testing.T) {
	if _, err := Unmarshal([]byte("not json")); err == nil {
		t.Error("expected error for invalid envelope JSON")
	}
}
