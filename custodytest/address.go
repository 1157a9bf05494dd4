package custodytest

import (
	"crypto/rand"
	"testing"

	"github.com/bosagora/custody"
	"github.com/ethereum/go-ethereum/common"
)

// ParseAddress takes an address in a human readable format and returns its
// binary representation. This function is a test helper that is using
// custody.ParseAddress function functionality.
func ParseAddress(t testing.TB, encodedAddress string) common.Address {
	t.Helper()

	addr, err := custody.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) common.Address {
	t.Helper()

	var a common.Address
	if _, err := rand.Read(a[:]); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	if err := custody.ValidateAddress(a); err != nil {
		t.Fatalf("generated address is not valid: %s", err)
	}
	return a
}

// SequenceAddr returns a deterministic address for test fixtures. Equal
// input always returns the same address.
func SequenceAddr(n int) common.Address {
	return custody.NewCondition("test", "account", []byte{byte(n >> 8), byte(n)}).Address()
}
