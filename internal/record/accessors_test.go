package record

import (
	"crypto/ed25519"
	"encoding/json"
	"testing"
)

func TestExtractAuthor_And_LastModifier(t *testing.T) {
	_, priv1, _ := ed25519.GenerateKey(nil)
	_, priv2, _ := ed25519.GenerateKey(nil)

	env, _ := NewEnvelope(KindTask, json.RawMessage(`{}`))
	signed, _ := Sign(env, priv1, "human:alice", "author", "")
	signed, _ = Sign(signed, priv2, "human:bob", "reviewer", "")

	author, ok := ExtractAuthor(signed)
	if !ok || author.KeyID != "human:alice" {
		t.Errorf("ExtractAuthor = %+v, %v", author, ok)
	}

	last, ok := ExtractLastModifier(signed)
	if !ok || last.KeyID != "human:bob" {
		t.Errorf("ExtractLastModifier = %+v, %v", last, ok)
	}
}

func TestExtractAuthor_EmptyChain(t *testing.T) {
	env, _ := NewEnvelope(KindTask, json.RawMessage(`{}`))
	if _, ok := ExtractAuthor(env); ok {
		t.Error("expected ExtractAuthor to report false on an unsigned envelope")
	}
}

func TestExtractContributors_DedupesKeyIDs(t *testing.T) {
	_, priv, _ := ed25519.GenerateKey(nil)
	env, _ := NewEnvelope(KindTask, json.RawMessage(`{}`))
	signed, _ := Sign(env, priv, "human:alice", "author", "")
	signed, _ = Sign(signed, priv, "human:alice", "resolver", "re-signed")

	contributors := ExtractContributors(signed)
	if len(contributors) != 1 || contributors[0] != "human:alice" {
		t.Errorf("ExtractContributors = %v, want [human:alice]", contributors)
	}
}

func TestGetSignatureCount_CountsDuplicates(t *testing.T) {
	_, priv, _ := ed25519.GenerateKey(nil)
	env, _ := NewEnvelope(KindTask, json.RawMessage(`{}`))
	signed, _ := Sign(env, priv, "human:alice", "author", "")
	signed, _ = Sign(signed, priv, "human:alice", "resolver", "")

	if n := GetSignatureCount(signed); n != 2 {
		t.Errorf("GetSignatureCount = %d, want 2", n)
	}
}
