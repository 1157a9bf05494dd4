package crypto

import (
	"math/big"

	"github.com/bosagora/custody/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// digestArgs is the layout of a transfer authorization. It matches
// abi.encode(uint256, address, address, address, uint256, uint256).
var digestArgs = func() abi.Arguments {
	uint256, err := abi.NewType("uint256", "", nil)
	if err != nil {
		panic(err)
	}
	address, err := abi.NewType("address", "", nil)
	if err != nil {
		panic(err)
	}
	return abi.Arguments{
		{Name: "chainId", Type: uint256},
		{Name: "asset", Type: address},
		{Name: "from", Type: address},
		{Name: "to", Type: address},
		{Name: "amount", Type: uint256},
		{Name: "nonce", Type: uint256},
	}
}()

// Transfer is the content of a delegated transfer authorization.
type Transfer struct {
	ChainID *big.Int
	Asset   common.Address
	From    common.Address
	To      common.Address
	Amount  *big.Int
	Nonce   uint64
}

// Digest returns the Keccak-256 hash of the ABI encoded transfer. Every
// field takes part, so changing any of them invalidates a signature.
func Digest(t Transfer) ([]byte, error) {
	if t.ChainID == nil || t.ChainID.Sign() <= 0 {
		return nil, errors.Wrap(errors.ErrInput, "chain id must be positive")
	}
	if t.Amount == nil || t.Amount.Sign() < 0 {
		return nil, errors.Wrap(errors.ErrAmount, "amount must not be negative")
	}
	raw, err := digestArgs.Pack(
		t.ChainID,
		t.Asset,
		t.From,
		t.To,
		t.Amount,
		new(big.Int).SetUint64(t.Nonce),
	)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "encode transfer: %s", err)
	}
	return ethcrypto.Keccak256(raw), nil
}
