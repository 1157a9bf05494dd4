package custodytest

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Unpack decodes the output of given method. Decoded integers are
// rewritten into the form big.NewInt produces, so that a decoded zero
// compares equal to big.NewInt(0) with reflect.DeepEqual.
func Unpack(t testing.TB, a abi.ABI, method string, out []byte) []interface{} {
	t.Helper()
	values, err := a.Unpack(method, out)
	if err != nil {
		t.Fatalf("cannot unpack %s output: %s", method, err)
	}
	for i, v := range values {
		switch v := v.(type) {
		case *big.Int:
			values[i] = new(big.Int).Set(v)
		case []*big.Int:
			for j := range v {
				v[j] = new(big.Int).Set(v[j])
			}
		}
	}
	return values
}
