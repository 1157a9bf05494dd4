package asset

import (
	"math/big"

	"github.com/bosagora/custody"
	"github.com/bosagora/custody/crypto"
	"github.com/bosagora/custody/errors"
	"github.com/bosagora/custody/x"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Params describe an asset kind. They are fixed when the kind is
// registered and shared by all its instances.
type Params struct {
	Name     string
	Symbol   string
	Decimals uint8
	// Capped assets take a maximum supply and a fee account as
	// constructor arguments.
	Capped bool
	// InitialSupply is minted to the owner when an instance is deployed.
	InitialSupply *big.Int
	// Scheme verifies delegated transfer signatures. Defaults to
	// crypto.Secp256k1.
	Scheme crypto.Scheme
}

// Contract implements an asset kind.
type Contract struct {
	params   Params
	abi      abi.ABI
	assets   Bucket
	balances BalanceBucket
	nonces   NonceBucket
}

var (
	_ custody.Contract  = Contract{}
	_ custody.Describer = Contract{}
)

// NewContract returns an asset contract for given params.
func NewContract(p Params) Contract {
	if p.Scheme == nil {
		p.Scheme = crypto.Secp256k1{}
	}
	if p.InitialSupply == nil {
		p.InitialSupply = new(big.Int)
	}
	a := ABI
	if p.Capped {
		a = CappedABI
	}
	return Contract{
		params:   p,
		abi:      a,
		assets:   NewBucket(),
		balances: NewBalanceBucket(),
		nonces:   NewNonceBucket(),
	}
}

// Method returns the name of the method input selects.
func (c Contract) Method(input []byte) string {
	return x.MethodName(c.abi, input)
}

// Init creates the asset from constructor arguments: (owner) or, for a
// capped asset, (owner, feeAccount, maxSupply). The owner must be a
// contract.
func (c Contract) Init(ctx custody.Context, db custody.KVStore, call custody.Call) error {
	args, err := x.DecodeArgs(c.abi, call.Input)
	if err != nil {
		return err
	}
	owner := args[0].(common.Address)
	h, ok := custody.GetHost(ctx)
	if !ok {
		return errors.Wrap(errors.ErrHuman, "no host in context")
	}
	switch kind, err := h.KindOf(db, owner); {
	case err != nil:
		return err
	case kind == "":
		return errors.Wrapf(errors.ErrNotAContract, "owner %s", owner.Hex())
	}

	a := &Asset{Owner: owner.Bytes(), Capped: c.params.Capped}
	if c.params.Capped {
		a.FeeAccount = args[1].(common.Address).Bytes()
		maxSupply := args[2].(*big.Int)
		if err := x.ValidateAmount(maxSupply); err != nil {
			return errors.Wrap(err, "max supply")
		}
		a.MaxSupply = x.EncodeAmount(maxSupply)
	}
	if err := c.issue(ctx, db, call.Contract, a, c.params.InitialSupply); err != nil {
		return err
	}
	return c.assets.Put(db, call.Contract, a)
}

// issue mints amount to the owner of a.
func (c Contract) issue(ctx custody.Context, db custody.KVStore, asset common.Address, a *Asset, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	if err := a.Issue(amount); err != nil {
		return err
	}
	owner := a.OwnerAddress()
	have, err := c.balances.Balance(db, asset, owner)
	if err != nil {
		return err
	}
	sum, err := x.AddAmount(have, amount)
	if err != nil {
		return err
	}
	if err := c.balances.SetBalance(db, asset, owner, sum); err != nil {
		return err
	}
	custody.Emit(ctx, asset, "Transfer", "from", common.Address{}, "to", owner, "value", amount)
	return nil
}

// Call dispatches the call to the method its input selects.
func (c Contract) Call(ctx custody.Context, db custody.KVStore, call custody.Call) ([]byte, error) {
	if call.HasValue() {
		return nil, errors.Wrap(errors.ErrInput, "asset does not accept value")
	}
	if len(call.Input) == 0 {
		return nil, nil
	}
	m, args, err := x.DecodeCall(c.abi, call.Input)
	if err != nil {
		return nil, err
	}
	a, err := c.assets.GetAsset(db, call.Contract)
	if err != nil {
		return nil, err
	}

	switch m.Name {
	case "mint":
		if call.Caller != a.OwnerAddress() {
			return nil, errors.Wrap(errors.ErrUnauthorized, "only the owner can mint")
		}
		amount := args[0].(*big.Int)
		if err := x.ValidateAmount(amount); err != nil {
			return nil, err
		}
		if err := c.issue(ctx, db, call.Contract, a, amount); err != nil {
			return nil, err
		}
		return nil, c.assets.Put(db, call.Contract, a)
	case "transfer":
		if err := c.move(ctx, db, call.Contract, call.Caller, args[0].(common.Address), args[1].(*big.Int)); err != nil {
			return nil, err
		}
		return x.EncodeOutput(m, true)
	case "delegatedTransfer":
		err := c.delegatedTransfer(ctx, db, call.Contract,
			args[0].(common.Address), args[1].(common.Address), args[2].(*big.Int), args[3].([]byte))
		if err != nil {
			return nil, err
		}
		return x.EncodeOutput(m, true)
	case "name":
		return x.EncodeOutput(m, c.params.Name)
	case "symbol":
		return x.EncodeOutput(m, c.params.Symbol)
	case "decimals":
		return x.EncodeOutput(m, c.params.Decimals)
	case "totalSupply":
		return x.EncodeOutput(m, a.Supply())
	case "maxSupply":
		return x.EncodeOutput(m, a.Cap())
	case "balanceOf":
		bal, err := c.balances.Balance(db, call.Contract, args[0].(common.Address))
		if err != nil {
			return nil, err
		}
		return x.EncodeOutput(m, bal)
	case "nonceOf":
		n, err := c.nonces.Nonce(db, call.Contract, args[0].(common.Address))
		if err != nil {
			return nil, err
		}
		return x.EncodeOutput(m, new(big.Int).SetUint64(n))
	case "getOwner":
		return x.EncodeOutput(m, a.OwnerAddress())
	case "feeAccount":
		return x.EncodeOutput(m, a.FeeAccountAddress())
	}
	return nil, errors.Wrapf(errors.ErrHuman, "unhandled method %q", m.Name)
}

// move debits from and credits to. Moving to self is allowed.
func (c Contract) move(ctx custody.Context, db custody.KVStore, asset, from, to common.Address, amount *big.Int) error {
	if err := custody.ValidateAddress(to); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if err := x.ValidateAmount(amount); err != nil {
		return err
	}
	have, err := c.balances.Balance(db, asset, from)
	if err != nil {
		return err
	}
	if have.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientBalance, "have %s, need %s", have, amount)
	}
	if err := c.balances.SetBalance(db, asset, from, new(big.Int).Sub(have, amount)); err != nil {
		return err
	}
	// Read after the debit so that a transfer to self is a no-op.
	got, err := c.balances.Balance(db, asset, to)
	if err != nil {
		return err
	}
	sum, err := x.AddAmount(got, amount)
	if err != nil {
		return err
	}
	if err := c.balances.SetBalance(db, asset, to, sum); err != nil {
		return err
	}
	custody.Emit(ctx, asset, "Transfer", "from", from, "to", to, "value", amount)
	return nil
}

// delegatedTransfer moves amount on behalf of from, authorized by a
// signature over the current nonce of from.
func (c Contract) delegatedTransfer(ctx custody.Context, db custody.KVStore, asset, from, to common.Address, amount *big.Int, signature []byte) error {
	chainID := custody.GetChainID(ctx)
	if chainID == nil {
		return errors.Wrap(errors.ErrState, "chain id not set")
	}
	nonce, err := c.nonces.Nonce(db, asset, from)
	if err != nil {
		return err
	}
	t := crypto.Transfer{
		ChainID: chainID,
		Asset:   asset,
		From:    from,
		To:      to,
		Amount:  amount,
		Nonce:   nonce,
	}
	if err := crypto.VerifyTransfer(c.params.Scheme, t, signature); err != nil {
		return err
	}
	if err := c.nonces.Increment(db, asset, from, nonce); err != nil {
		return err
	}
	return c.move(ctx, db, asset, from, to, amount)
}

// Balance returns the amount of asset held by holder.
func (c Contract) Balance(db custody.ReadOnlyKVStore, asset, holder common.Address) (*big.Int, error) {
	return c.balances.Balance(db, asset, holder)
}

// Nonce returns the nonce the next delegated transfer of holder must be
// signed with.
func (c Contract) Nonce(db custody.ReadOnlyKVStore, asset, holder common.Address) (uint64, error) {
	return c.nonces.Nonce(db, asset, holder)
}

// Holders returns all non zero balances of asset.
func (c Contract) Holders(db custody.ReadOnlyKVStore, asset common.Address) (map[common.Address]*big.Int, error) {
	return c.balances.Holders(db, asset)
}

// Info returns the state of the asset deployed at given address.
func (c Contract) Info(db custody.ReadOnlyKVStore, asset common.Address) (*Asset, error) {
	return c.assets.GetAsset(db, asset)
}
