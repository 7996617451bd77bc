package secretscan

import (
	"encoding/json"
	"testing"

	"github.com/gitgovernance/gitgov/internal/record"
)

func envelopeWithPayload(t *testing.T, payload string) *record.Envelope {
	t.Helper()
	env, err := record.NewEnvelope(record.KindTask, json.RawMessage(payload))
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	return env
}

func TestScanEnvelope_FlagsHighEntropyValue(t *testing.T) {
	env := envelopeWithPayload(t, `{"notes":"AKIAIOSFODNN7EXAMPLE1234567890abcdefgh"}`)
	findings, err := ScanEnvelope(env)
	if err != nil {
		t.Fatalf("ScanEnvelope: %v", err)
	}
	if len(findings) == 0 {
		t.Fatal("expected at least one finding for a high-entropy value")
	}
	if findings[0].FieldPath != "notes" {
		t.Errorf("FieldPath = %q, want %q", findings[0].FieldPath, "notes")
	}
}

func TestScanEnvelope_PlainProseNotFlagged(t *testing.T) {
	env := envelopeWithPayload(t, `{"notes":"please review this by friday afternoon"}`)
	findings, err := ScanEnvelope(env)
	if err != nil {
		t.Fatalf("ScanEnvelope: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected no findings for plain prose, got %v", findings)
	}
}

func TestScanEnvelope_SkipsIdFields(t *testing.T) {
	env := envelopeWithPayload(t, `{"keyId":"AKIAIOSFODNN7EXAMPLE1234567890abcdefgh"}`)
	findings, err := ScanEnvelope(env)
	if err != nil {
		t.Fatalf("ScanEnvelope: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected keyId field to be skipped, got %v", findings)
	}
}

func TestScanEnvelope_SkipsSignatureField(t *testing.T) {
	env := envelopeWithPayload(t, `{"signature":"AKIAIOSFODNN7EXAMPLE1234567890abcdefgh"}`)
	findings, err := ScanEnvelope(env)
	if err != nil {
		t.Fatalf("ScanEnvelope: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected signature field to be skipped, got %v", findings)
	}
}

func TestScanEnvelope_WalksNestedObjectsAndArrays(t *testing.T) {
	env := envelopeWithPayload(t, `{"metadata":{"apiKey":"AKIAIOSFODNN7EXAMPLE1234567890abcdefgh"},"tags":["ok","AKIAIOSFODNN7EXAMPLE1234567890abcdefgh"]}`)
	findings, err := ScanEnvelope(env)
	if err != nil {
		t.Fatalf("ScanEnvelope: %v", err)
	}
	if len(findings) < 2 {
		t.Fatalf("expected findings from both the nested object and the array, got %v", findings)
	}
}

func TestScanEnvelope_SkipsBase64ImageObjects(t *testing.T) {
	env := envelopeWithPayload(t, `{"attachment":{"type":"image/png","data":"AKIAIOSFODNN7EXAMPLE1234567890abcdefgh"}}`)
	findings, err := ScanEnvelope(env)
	if err != nil {
		t.Fatalf("ScanEnvelope: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected image-typed object to be skipped entirely, got %v", findings)
	}
}

func TestScanEnvelope_InvalidJSONErrors(t *testing.T) {
	env := envelopeWithPayload(t, `{"notes":`)
	if _, err := ScanEnvelope(env); err == nil {
		t.Error("expected an error for invalid payload JSON")
	}
}

func TestRedact_ShortStringFullyRedacted(t *testing.T) {
	if got := redact("short"); got != "REDACTED" {
		t.Errorf("redact(short) = %q, want REDACTED", got)
	}
}

func TestRedact_LongStringKeepsEnds(t *testing.T) {
	got := redact("ABCDEFGHIJKLMNOP")
	if got[:4] != "ABCD" || got[len(got)-4:] != "MNOP" {
		t.Errorf("redact(long) = %q, expected prefix/suffix preserved", got)
	}
}

func TestShannonEntropy_EmptyStringIsZero(t *testing.T) {
	if shannonEntropy("") != 0 {
		t.Error("expected entropy of empty string to be 0")
	}
}

func TestShannonEntropy_RepeatedCharIsZero(t *testing.T) {
	if got := shannonEntropy("aaaaaaaaaa"); got != 0 {
		t.Errorf("entropy of a repeated character should be 0, got %v", got)
	}
}

func TestShannonEntropy_HighForRandomLookingString(t *testing.T) {
	if got := shannonEntropy("aB3$kZ9!qW7@xR2#mN5%pL8&tY4*"); got <= entropyThreshold {
		t.Errorf("expected entropy above threshold for a random-looking string, got %v", got)
	}
}
