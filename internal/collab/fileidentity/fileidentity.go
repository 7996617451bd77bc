// Package fileidentity is the production collab.IdentityAdapter backing
// cmd/gitgov: a private key kept outside the synced record tree
// (.gitgov/.keys/<actor slug>.key, e.g. human-alice.key for
// human:alice), and public-key lookup by scanning the actor records
// already present under .gitgov/actors.
package fileidentity

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gitgovernance/gitgov/internal/idpath"
	"github.com/gitgovernance/gitgov/internal/record"
	"github.com/gitgovernance/gitgov/internal/record/payload"
)

// KeysDir holds private key material, never synced (it is not a
// sync directory or sync root file per idpath's default policy).
const KeysDir = ".gitgov/.keys"

// Adapter is a single-actor collab.IdentityAdapter whose private key
// lives at RepoRoot/.gitgov/.keys/<actor slug>.key: the actor id with
// ":" mapped to "-", then slugified (human:alice -> human-alice.key).
type Adapter struct {
	RepoRoot string
	ActorID  string
	KeyID    string

	privateKey ed25519.PrivateKey
}

// Load reads (or, if absent, generates and persists) the Ed25519 keypair
// for actorID under repoRoot. keyID defaults to actorID when empty.
func Load(repoRoot, actorID, keyID string) (*Adapter, error) {
	if keyID == "" {
		keyID = actorID
	}
	path := keyPath(repoRoot, actorID)

	priv, err := readKey(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("fileidentity: reading %s: %w", path, err)
		}
		_, priv, err = ed25519.GenerateKey(nil)
		if err != nil {
			return nil, fmt.Errorf("fileidentity: generating key for %s: %w", actorID, err)
		}
		if err := writeKey(path, priv); err != nil {
			return nil, fmt.Errorf("fileidentity: persisting key for %s: %w", actorID, err)
		}
	}

	return &Adapter{RepoRoot: repoRoot, ActorID: actorID, KeyID: keyID, privateKey: priv}, nil
}

func keyPath(repoRoot, actorID string) string {
	safe := idpath.Slugify(strings.ReplaceAll(actorID, ":", "-"))
	return filepath.Join(repoRoot, KeysDir, safe+".key")
}

func readKey(path string) (ed25519.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return nil, fmt.Errorf("fileidentity: decoding key material: %w", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("fileidentity: unexpected key size %d", len(raw))
	}
	return ed25519.PrivateKey(raw), nil
}

func writeKey(path string, priv ed25519.PrivateKey) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString(priv)
	return os.WriteFile(path, []byte(encoded), 0o600)
}

// AuthenticatedActorID returns the locally configured actor id; there is
// no external auth step in the single-machine, file-backed adapter.
func (a *Adapter) AuthenticatedActorID(ctx context.Context) (string, error) {
	return a.ActorID, nil
}

// Sign delegates to record.Sign using the loaded private key.
func (a *Adapter) Sign(ctx context.Context, env *record.Envelope, role, notes string) (*record.Envelope, error) {
	return record.Sign(env, a.privateKey, a.KeyID, role, notes)
}

// EncodedPublicKey returns the base64-encoded Ed25519 public key, for
// seeding this actor's own record at `gitgov init` time.
func (a *Adapter) EncodedPublicKey() string {
	pub := a.privateKey.Public().(ed25519.PublicKey)
	return base64.StdEncoding.EncodeToString(pub)
}

// PublicKeyLookup resolves a keyId to a public key by scanning every
// actor record under .gitgov/actors for a matching id, decoding its
// publicKey field. Agent records under .gitgov/agents are not scanned,
// so a lookup for an agent id falls through without matching.
func (a *Adapter) PublicKeyLookup(ctx context.Context) (record.PublicKeyLookup, error) {
	keys, err := scanActorPublicKeys(a.RepoRoot)
	if err != nil {
		return nil, err
	}
	return func(keyID string) (ed25519.PublicKey, error) {
		pub, ok := keys[keyID]
		if !ok {
			return nil, fmt.Errorf("fileidentity: no actor record found for key %q", keyID)
		}
		return pub, nil
	}, nil
}

func scanActorPublicKeys(repoRoot string) (map[string]ed25519.PublicKey, error) {
	keys := make(map[string]ed25519.PublicKey)
	dir := filepath.Join(repoRoot, idpath.GitgovDir, "actors")
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		env, parseErr := record.Unmarshal(data)
		if parseErr != nil || env.Header.Type != record.KindActor {
			return nil
		}
		decoded, decodeErr := record.DecodePayload(env.Header.Type, env.Payload)
		if decodeErr != nil {
			return nil
		}
		actor, ok := decoded.(payload.Actor)
		if !ok {
			return nil
		}
		raw, err := base64.StdEncoding.DecodeString(actor.PublicKey)
		if err != nil || len(raw) != ed25519.PublicKeySize {
			return nil
		}
		keys[actor.ID] = ed25519.PublicKey(raw)
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("fileidentity: scanning actor records: %w", err)
	}
	return keys, nil
}
