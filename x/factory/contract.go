package factory

import (
	"math/big"

	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
	"github.com/bosagora/custody/x"
	"github.com/bosagora/custody/x/wallet"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Contract implements the factory kind.
type Contract struct {
	bucket Bucket
}

var (
	_ custody.Contract  = Contract{}
	_ custody.Describer = Contract{}
)

// NewContract returns the factory contract.
func NewContract() Contract {
	return Contract{bucket: NewBucket()}
}

// Method returns the name of the method input selects.
func (Contract) Method(input []byte) string {
	return x.MethodName(ABI, input)
}

// Init accepts no constructor arguments.
func (Contract) Init(ctx custody.Context, db custody.KVStore, call custody.Call) error {
	if len(call.Input) != 0 {
		return errors.Wrap(errors.ErrInput, "factory takes no constructor arguments")
	}
	return nil
}

// Call dispatches the call to the method its input selects.
func (c Contract) Call(ctx custody.Context, db custody.KVStore, call custody.Call) ([]byte, error) {
	if call.HasValue() {
		return nil, errors.Wrap(errors.ErrInput, "factory does not accept value")
	}
	if len(call.Input) == 0 {
		return nil, nil
	}
	m, args, err := x.DecodeCall(ABI, call.Input)
	if err != nil {
		return nil, err
	}

	switch m.Name {
	case "create":
		return c.create(ctx, db, call, m, args, nil)
	case "createWithSeed":
		seed := args[4].(*big.Int)
		return c.create(ctx, db, call, m, args, common.BigToHash(seed).Bytes())
	case "getNumberOfWalletsForOwner", "getNumberOfWalletsForMember":
		n, err := c.bucket.CountOf(db, call.Contract, args[0].(common.Address))
		if err != nil {
			return nil, err
		}
		return x.EncodeOutput(m, big.NewInt(int64(n)))
	case "getWalletsForOwner":
		wallets, err := c.bucket.WalletsOf(db, call.Contract, args[0].(common.Address))
		if err != nil {
			return nil, err
		}
		return x.EncodeOutput(m, wallets)
	case "getNumberOfWallets":
		n, err := c.bucket.Count(db, call.Contract)
		if err != nil {
			return nil, err
		}
		return x.EncodeOutput(m, big.NewInt(n))
	case "isInstantiation":
		ok, err := c.bucket.IsInstantiation(db, call.Contract, args[0].(common.Address))
		if err != nil {
			return nil, err
		}
		return x.EncodeOutput(m, ok)
	}
	return nil, errors.Wrapf(errors.ErrHuman, "unhandled method %q", m.Name)
}

// create deploys a wallet owned by the given owners and records it. The
// wallet constructor validates the arguments.
func (c Contract) create(ctx custody.Context, db custody.KVStore, call custody.Call, m *abi.Method, args []interface{}, salt []byte) ([]byte, error) {
	h, ok := custody.GetHost(ctx)
	if !ok {
		return nil, errors.Wrap(errors.ErrHuman, "no host in context")
	}
	owners := args[2].([]common.Address)
	ctorArgs, err := wallet.ABI.Pack("", args[0].(string), args[1].(string), owners, args[3].(*big.Int))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "wallet arguments: %s", err)
	}
	addr, err := h.Deploy(ctx, db, custody.Deployment{
		Kind:     wallet.Kind,
		Deployer: call.Contract,
		Salt:     salt,
		Args:     ctorArgs,
	})
	if err != nil {
		return nil, err
	}

	inst := &Instantiation{Wallet: addr.Bytes(), Creator: call.Caller.Bytes()}
	for _, o := range owners {
		inst.Owners = append(inst.Owners, o.Bytes())
	}
	if err := c.bucket.Create(db, call.Contract, inst); err != nil {
		return nil, errors.Wrap(err, "record instantiation")
	}
	custody.Emit(ctx, call.Contract, "ContractInstantiation", "sender", call.Caller, "wallet", addr)
	return x.EncodeOutput(m, addr)
}
