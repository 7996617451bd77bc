// Package testidentity provides an in-memory collab.IdentityAdapter
// test double: it generates an Ed25519 keypair for a fixed actor id and
// signs/looks-up against it. It is test infrastructure, not a
// production identity adapter — a real deployment authenticates against
// an external identity service and a real key store.
package testidentity

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"

	"github.com/gitgovernance/gitgov/internal/collab"
	"github.com/gitgovernance/gitgov/internal/record"
)

// Adapter is a single-actor in-memory identity adapter.
type Adapter struct {
	ActorID    string
	KeyID      string
	PrivateKey ed25519.PrivateKey
	PublicKey  ed25519.PublicKey
}

var _ collab.IdentityAdapter = (*Adapter)(nil)

// New generates a fresh keypair for actorID, using keyID as the
// signature's KeyID (defaults to actorID if empty).
func New(actorID, keyID string) (*Adapter, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, fmt.Errorf("testidentity: generating keypair: %w", err)
	}
	if keyID == "" {
		keyID = actorID
	}
	return &Adapter{ActorID: actorID, KeyID: keyID, PrivateKey: priv, PublicKey: pub}, nil
}

func (a *Adapter) AuthenticatedActorID(ctx context.Context) (string, error) {
	return a.ActorID, nil
}

func (a *Adapter) Sign(ctx context.Context, env *record.Envelope, role, notes string) (*record.Envelope, error) {
	return record.Sign(env, a.PrivateKey, a.KeyID, role, notes)
}

func (a *Adapter) PublicKeyLookup(ctx context.Context) (record.PublicKeyLookup, error) {
	return func(keyID string) (ed25519.PublicKey, error) {
		if keyID != a.KeyID {
			return nil, fmt.Errorf("testidentity: unknown key %s", keyID)
		}
		return a.PublicKey, nil
	}, nil
}

// EncodedPublicKey returns the base64 public key, for tests that seed
// an actors/<id>.json record with it.
func (a *Adapter) EncodedPublicKey() string {
	return base64.StdEncoding.EncodeToString(a.PublicKey)
}
