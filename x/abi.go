package x

import (
	"strings"

	"github.com/bosagora/custody/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
)

// MustParseABI parses the JSON description of a contract interface. It
// panics on malformed input and is meant for package level declarations.
func MustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// DecodeCall resolves the method selected by the first four bytes of
// input and unpacks its arguments.
func DecodeCall(a abi.ABI, input []byte) (*abi.Method, []interface{}, error) {
	if len(input) < 4 {
		return nil, nil, errors.Wrap(errors.ErrMsg, "missing method selector")
	}
	m, err := a.MethodById(input[:4])
	if err != nil {
		return nil, nil, errors.Wrapf(errors.ErrMsg, "unknown method %x", input[:4])
	}
	args, err := m.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, nil, errors.Wrapf(errors.ErrMsg, "%s arguments: %s", m.Name, err)
	}
	return m, args, nil
}

// DecodeArgs unpacks constructor arguments.
func DecodeArgs(a abi.ABI, raw []byte) ([]interface{}, error) {
	args, err := a.Constructor.Inputs.Unpack(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "constructor arguments: %s", err)
	}
	return args, nil
}

// EncodeOutput packs the return values of given method.
func EncodeOutput(m *abi.Method, values ...interface{}) ([]byte, error) {
	out, err := m.Outputs.Pack(values...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrHuman, "%s output: %s", m.Name, err)
	}
	return out, nil
}

// MethodName returns the name of the method selected by input, or an
// empty string if none matches.
func MethodName(a abi.ABI, input []byte) string {
	if len(input) < 4 {
		return ""
	}
	m, err := a.MethodById(input[:4])
	if err != nil {
		return ""
	}
	return m.Name
}
