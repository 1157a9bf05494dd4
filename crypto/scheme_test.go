package crypto

import (
	"math/big"
	"testing"

	"github.com/bosagora/custody/custodytest/assert"
	"github.com/bosagora/custody/errors"
	"github.com/ethereum/go-ethereum/common"
)

func newTransfer(from common.Address) Transfer {
	return Transfer{
		ChainID: big.NewInt(2019),
		Asset:   common.HexToAddress("0x1000000000000000000000000000000000000001"),
		From:    from,
		To:      common.HexToAddress("0x2000000000000000000000000000000000000002"),
		Amount:  big.NewInt(1000),
		Nonce:   0,
	}
}

func TestDigestIsDomainSeparated(t *testing.T) {
	base := newTransfer(common.HexToAddress("0x3000000000000000000000000000000000000003"))
	d0, err := Digest(base)
	assert.Nil(t, err)
	assert.Equal(t, 32, len(d0))

	again, err := Digest(base)
	assert.Nil(t, err)
	assert.Equal(t, d0, again)

	variants := map[string]func(*Transfer){
		"chain id": func(t *Transfer) { t.ChainID = big.NewInt(1) },
		"asset":    func(t *Transfer) { t.Asset = common.HexToAddress("0x99") },
		"from":     func(t *Transfer) { t.From = common.HexToAddress("0x98") },
		"to":       func(t *Transfer) { t.To = common.HexToAddress("0x97") },
		"amount":   func(t *Transfer) { t.Amount = big.NewInt(1001) },
		"nonce":    func(t *Transfer) { t.Nonce = 1 },
	}
	for name, change := range variants {
		t.Run(name, func(t *testing.T) {
			tr := base
			change(&tr)
			d, err := Digest(tr)
			assert.Nil(t, err)
			if string(d) == string(d0) {
				t.Fatal("digest must change")
			}
		})
	}
}

func TestDigestRejectsInvalid(t *testing.T) {
	tr := newTransfer(common.Address{})
	tr.ChainID = nil
	_, err := Digest(tr)
	assert.IsErr(t, errors.ErrInput, err)

	tr = newTransfer(common.Address{})
	tr.Amount = big.NewInt(-1)
	_, err = Digest(tr)
	assert.IsErr(t, errors.ErrAmount, err)
}

func TestSchemes(t *testing.T) {
	secpA, err := GenSecp256k1Key()
	assert.Nil(t, err)
	secpB, err := GenSecp256k1Key()
	assert.Nil(t, err)
	edA := Ed25519KeyFromSeed(make([]byte, 32))
	edB, err := GenEd25519Key()
	assert.Nil(t, err)

	cases := map[string]struct {
		scheme  Scheme
		signer  Signer
		claimed common.Address
		mangle  func([]byte) []byte
		wantErr *errors.Error
	}{
		"secp256k1 valid": {
			scheme:  Secp256k1{},
			signer:  secpA,
			claimed: secpA.Address(),
		},
		"secp256k1 recovery id without offset": {
			scheme:  Secp256k1{},
			signer:  secpA,
			claimed: secpA.Address(),
			mangle: func(sig []byte) []byte {
				sig[64] -= 27
				return sig
			},
		},
		"secp256k1 other signer": {
			scheme:  Secp256k1{},
			signer:  secpB,
			claimed: secpA.Address(),
			wantErr: ErrInvalidSignature,
		},
		"secp256k1 bad recovery id": {
			scheme:  Secp256k1{},
			signer:  secpA,
			claimed: secpA.Address(),
			mangle: func(sig []byte) []byte {
				sig[64] = 5
				return sig
			},
			wantErr: ErrInvalidSignature,
		},
		"secp256k1 truncated": {
			scheme:  Secp256k1{},
			signer:  secpA,
			claimed: secpA.Address(),
			mangle:  func(sig []byte) []byte { return sig[:64] },
			wantErr: ErrInvalidSignature,
		},
		"ed25519 valid": {
			scheme:  Ed25519{},
			signer:  edA,
			claimed: edA.Address(),
		},
		"ed25519 other signer": {
			scheme:  Ed25519{},
			signer:  edB,
			claimed: edA.Address(),
			wantErr: ErrInvalidSignature,
		},
		"ed25519 tampered": {
			scheme:  Ed25519{},
			signer:  edA,
			claimed: edA.Address(),
			mangle: func(sig []byte) []byte {
				sig[40] ^= 0xff
				return sig
			},
			wantErr: ErrInvalidSignature,
		},
		"secp256k1 signature under ed25519": {
			scheme:  Ed25519{},
			signer:  secpA,
			claimed: secpA.Address(),
			wantErr: ErrInvalidSignature,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			tr := newTransfer(tc.claimed)
			sig, err := SignTransfer(tc.signer, tr)
			assert.Nil(t, err)
			if tc.mangle != nil {
				sig = tc.mangle(sig)
			}
			err = VerifyTransfer(tc.scheme, tr, sig)
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestSignatureIsBoundToNonce(t *testing.T) {
	key, err := GenSecp256k1Key()
	assert.Nil(t, err)

	tr := newTransfer(key.Address())
	sig, err := SignTransfer(key, tr)
	assert.Nil(t, err)
	assert.Nil(t, VerifyTransfer(Secp256k1{}, tr, sig))

	tr.Nonce++
	assert.IsErr(t, ErrInvalidSignature, VerifyTransfer(Secp256k1{}, tr, sig))
}

func TestSchemeByName(t *testing.T) {
	s, err := SchemeByName("")
	assert.Nil(t, err)
	assert.Equal(t, "secp256k1", s.Name())

	s, err = SchemeByName("ed25519")
	assert.Nil(t, err)
	assert.Equal(t, "ed25519", s.Name())

	_, err = SchemeByName("rsa")
	assert.IsErr(t, errors.ErrInput, err)
}
