package crypto

import (
	"crypto/ecdsa"

	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/ed25519"
)

// Scheme verifies that a signature over a digest was produced by the
// private key behind an address.
type Scheme interface {
	// Name identifies the scheme in logs and configuration.
	Name() string
	// Verify returns ErrInvalidSignature unless signature was produced by
	// signer over digest.
	Verify(digest, signature []byte, signer common.Address) error
}

// Signer produces signatures that a matching Scheme accepts.
type Signer interface {
	Address() common.Address
	Sign(digest []byte) ([]byte, error)
}

// Secp256k1 is the Ethereum personal message scheme. The digest is
// prefixed with "\x19Ethereum Signed Message:\n32" and hashed again before
// the public key is recovered from the 65 byte signature.
type Secp256k1 struct{}

var _ Scheme = Secp256k1{}

func (Secp256k1) Name() string { return "secp256k1" }

func (Secp256k1) Verify(digest, signature []byte, signer common.Address) error {
	if len(signature) != ethcrypto.SignatureLength {
		return errors.Wrapf(ErrInvalidSignature, "signature length %d", len(signature))
	}
	sig := make([]byte, len(signature))
	copy(sig, signature)
	switch v := sig[ethcrypto.RecoveryIDOffset]; v {
	case 0, 1:
	case 27, 28:
		sig[ethcrypto.RecoveryIDOffset] = v - 27
	default:
		return errors.Wrapf(ErrInvalidSignature, "recovery id %d", v)
	}

	pub, err := ethcrypto.SigToPub(accounts.TextHash(digest), sig)
	if err != nil {
		return errors.Wrapf(ErrInvalidSignature, "recover: %s", err)
	}
	if got := ethcrypto.PubkeyToAddress(*pub); got != signer {
		return errors.Wrapf(ErrInvalidSignature, "signed by %s", got.Hex())
	}
	return nil
}

// Secp256k1Key signs with the Secp256k1 scheme.
type Secp256k1Key struct {
	priv *ecdsa.PrivateKey
}

var _ Signer = (*Secp256k1Key)(nil)

// NewSecp256k1Key wraps an existing private key.
func NewSecp256k1Key(priv *ecdsa.PrivateKey) *Secp256k1Key {
	return &Secp256k1Key{priv: priv}
}

// GenSecp256k1Key returns a random new key.
func GenSecp256k1Key() (*Secp256k1Key, error) {
	priv, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return &Secp256k1Key{priv: priv}, nil
}

// Address returns the account address of this key.
func (k *Secp256k1Key) Address() common.Address {
	return ethcrypto.PubkeyToAddress(k.priv.PublicKey)
}

// Sign returns a 65 byte signature with a recovery id of 27 or 28, as
// produced by Ethereum wallets.
func (k *Secp256k1Key) Sign(digest []byte) ([]byte, error) {
	sig, err := ethcrypto.Sign(accounts.TextHash(digest), k.priv)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	sig[ethcrypto.RecoveryIDOffset] += 27
	return sig, nil
}

// Ed25519 carries the 32 byte public key in front of the 64 byte
// signature. The signer address is derived from the public key the same
// way contract addresses are derived from conditions.
type Ed25519 struct{}

var _ Scheme = Ed25519{}

func (Ed25519) Name() string { return "ed25519" }

func (Ed25519) Verify(digest, signature []byte, signer common.Address) error {
	if len(signature) != ed25519.PublicKeySize+ed25519.SignatureSize {
		return errors.Wrapf(ErrInvalidSignature, "signature length %d", len(signature))
	}
	pub := ed25519.PublicKey(signature[:ed25519.PublicKeySize])
	if got := Ed25519Address(pub); got != signer {
		return errors.Wrapf(ErrInvalidSignature, "signed by %s", got.Hex())
	}
	if !ed25519.Verify(pub, digest, signature[ed25519.PublicKeySize:]) {
		return errors.Wrap(ErrInvalidSignature, "ed25519")
	}
	return nil
}

// Ed25519Address returns the account address of an ed25519 public key.
func Ed25519Address(pub ed25519.PublicKey) common.Address {
	return custody.NewCondition("sigs", "ed25519", pub).Address()
}

// Ed25519Key signs with the Ed25519 scheme.
type Ed25519Key struct {
	priv ed25519.PrivateKey
}

var _ Signer = (*Ed25519Key)(nil)

// GenEd25519Key returns a random new key.
func GenEd25519Key() (*Ed25519Key, error) {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return &Ed25519Key{priv: priv}, nil
}

// Ed25519KeyFromSeed deterministically derives a key from a 32 byte seed.
// Use it for reproducible keys in tests.
func Ed25519KeyFromSeed(seed []byte) *Ed25519Key {
	return &Ed25519Key{priv: ed25519.NewKeyFromSeed(seed)}
}

func (k *Ed25519Key) public() ed25519.PublicKey {
	return k.priv.Public().(ed25519.PublicKey)
}

// Address returns the account address of this key.
func (k *Ed25519Key) Address() common.Address {
	return Ed25519Address(k.public())
}

// Sign returns the public key followed by the signature.
func (k *Ed25519Key) Sign(digest []byte) ([]byte, error) {
	sig := ed25519.Sign(k.priv, digest)
	return append(append([]byte(nil), k.public()...), sig...), nil
}

// SchemeByName returns a registered scheme.
func SchemeByName(name string) (Scheme, error) {
	switch name {
	case "", Secp256k1{}.Name():
		return Secp256k1{}, nil
	case Ed25519{}.Name():
		return Ed25519{}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown signature scheme %q", name)
	}
}

// SignTransfer computes the digest of t and signs it with given key.
func SignTransfer(s Signer, t Transfer) ([]byte, error) {
	digest, err := Digest(t)
	if err != nil {
		return nil, err
	}
	return s.Sign(digest)
}

// VerifyTransfer checks that signature authorizes t on behalf of t.From.
func VerifyTransfer(s Scheme, t Transfer, signature []byte) error {
	digest, err := Digest(t)
	if err != nil {
		return err
	}
	return s.Verify(digest, signature, t.From)
}
