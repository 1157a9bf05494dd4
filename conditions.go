package custody

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/bosagora/custody/errors"
	"github.com/ethereum/go-ethereum/common"
)

// AddressLength is the length of all addresses.
const AddressLength = common.AddressLength

var (
	// it must have (?s) flags, otherwise it errors when last section contains 0x20 (newline)
	perm = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)
)

// Condition is a specially formatted array, containing
// information on who or what controls an address.
// It is of the format:
//
//   sprintf("%s/%s/%s", extension, type, data)
//
// Contract instances get their address from a condition, which keeps them
// apart from addresses derived from a public key.
type Condition []byte

// NewCondition builds a condition from its three sections.
func NewCondition(ext, typ string, data []byte) Condition {
	pre := fmt.Sprintf("%s/%s/", ext, typ)
	return append([]byte(pre), data...)
}

// Parse will extract the sections from the Condition bytes
// and verify it is properly formatted
func (c Condition) Parse() (string, string, []byte, error) {
	chunks := perm.FindSubmatch(c)
	if len(chunks) == 0 {
		return "", "", nil, errors.Wrapf(errors.ErrInput, "condition: %X", []byte(c))
	}
	// returns [all, match1, match2, match3]
	return string(chunks[1]), string(chunks[2]), chunks[3], nil
}

// Address will convert a Condition into an Address
func (c Condition) Address() common.Address {
	return NewAddress(c)
}

// Equals checks if two permissions are the same
func (c Condition) Equals(b Condition) bool {
	return bytes.Equal(c, b)
}

// String returns a human readable string.
// We keep the extension and type in ascii and
// hex-encode the binary data
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("Invalid Condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

// Validate returns an error if the Condition is not the proper format
func (c Condition) Validate() error {
	if !perm.Match(c) {
		return errors.Wrapf(errors.ErrInput, "condition: %X", []byte(c))
	}
	return nil
}

func (c Condition) MarshalJSON() ([]byte, error) {
	var serialized string
	if c != nil {
		serialized = c.String()
	}
	return json.Marshal(serialized)
}

func (c *Condition) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	if len(enc) == 0 {
		*c = nil
		return nil
	}
	args := strings.Split(enc, "/")
	if len(args) != 3 {
		return errors.Wrap(errors.ErrInput, "invalid condition format")
	}
	data, err := hex.DecodeString(args[2])
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "malformed condition data: %s", err)
	}
	*c = NewCondition(args[0], args[1], data)
	return nil
}

// NewAddress hashes and truncates into the proper size
func NewAddress(data []byte) common.Address {
	h := sha256.Sum256(data)
	return common.BytesToAddress(h[:AddressLength])
}

// ParseAddress decodes a hex encoded address, with or without the 0x
// prefix. The "cond:" prefix accepts a human readable condition instead.
func ParseAddress(enc string) (common.Address, error) {
	if strings.HasPrefix(enc, "cond:") {
		var c Condition
		raw, _ := json.Marshal(strings.TrimPrefix(enc, "cond:"))
		if err := c.UnmarshalJSON(raw); err != nil {
			return common.Address{}, err
		}
		if err := c.Validate(); err != nil {
			return common.Address{}, err
		}
		return c.Address(), nil
	}
	if !common.IsHexAddress(enc) {
		return common.Address{}, errors.Wrapf(errors.ErrInput, "address %q", enc)
	}
	return common.HexToAddress(enc), nil
}

// ValidateAddress returns an error for the zero address.
func ValidateAddress(a common.Address) error {
	if a == (common.Address{}) {
		return errors.Wrap(errors.ErrEmpty, "zero address")
	}
	return nil
}

// AddressesEqual reports whether both lists hold the same addresses in the
// same order.
func AddressesEqual(a, b []common.Address) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
