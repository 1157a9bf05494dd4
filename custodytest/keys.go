package custodytest

import (
	"testing"

	"github.com/bosagora/custody/crypto"
)

// NewKey returns a random secp256k1 signing key.
func NewKey(t testing.TB) *crypto.Secp256k1Key {
	t.Helper()

	key, err := crypto.GenSecp256k1Key()
	if err != nil {
		t.Fatalf("cannot generate a key: %s", err)
	}
	return key
}

// NewEd25519Key returns a deterministic ed25519 signing key for the given
// index.
func NewEd25519Key(n byte) *crypto.Ed25519Key {
	seed := make([]byte, 32)
	seed[31] = n
	return crypto.Ed25519KeyFromSeed(seed)
}
