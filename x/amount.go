package x

import (
	"math/big"

	"github.com/bosagora/custody/errors"
)

// MaxAmount is the largest amount that can be held or moved, 2^256 - 1.
var MaxAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// amountLen is the maximum length of an encoded amount.
const amountLen = 32

// ValidateAmount ensures that given value is a non negative amount that
// fits into 256 bits. A nil amount is zero.
func ValidateAmount(a *big.Int) error {
	if a == nil {
		return nil
	}
	if a.Sign() < 0 {
		return errors.Wrapf(errors.ErrAmount, "negative amount %s", a)
	}
	if a.Cmp(MaxAmount) > 0 {
		return errors.Wrap(errors.ErrOverflow, "amount exceeds 256 bits")
	}
	return nil
}

// IsPositive returns true if given amount is greater than zero.
func IsPositive(a *big.Int) bool {
	return a != nil && a.Sign() > 0
}

// EncodeAmount returns the big endian representation of the amount, as
// stored in models. Zero is encoded as an empty slice.
func EncodeAmount(a *big.Int) []byte {
	if a == nil {
		return nil
	}
	return a.Bytes()
}

// DecodeAmount reverses EncodeAmount.
func DecodeAmount(raw []byte) (*big.Int, error) {
	if len(raw) > amountLen {
		return nil, errors.Wrapf(errors.ErrOverflow, "encoded amount of %d bytes", len(raw))
	}
	return new(big.Int).SetBytes(raw), nil
}

// AddAmount returns a + b, failing if the result does not fit into 256
// bits.
func AddAmount(a, b *big.Int) (*big.Int, error) {
	sum := new(big.Int)
	if a != nil {
		sum.Set(a)
	}
	if b != nil {
		sum.Add(sum, b)
	}
	if err := ValidateAmount(sum); err != nil {
		return nil, err
	}
	return sum, nil
}

// SubAmount returns a - b, failing with ErrAmount if the result would be
// negative.
func SubAmount(a, b *big.Int) (*big.Int, error) {
	diff := new(big.Int)
	if a != nil {
		diff.Set(a)
	}
	if b != nil {
		diff.Sub(diff, b)
	}
	if diff.Sign() < 0 {
		return nil, errors.Wrapf(errors.ErrAmount, "cannot subtract %s from %s", b, a)
	}
	return diff, nil
}

// ParseAmount reads a decimal amount, as used in genesis files.
func ParseAmount(s string) (*big.Int, error) {
	a, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInput, "invalid amount %q", s)
	}
	if err := ValidateAmount(a); err != nil {
		return nil, err
	}
	return a, nil
}
