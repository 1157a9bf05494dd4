package wallet

import (
	"math/big"

	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
	"github.com/bosagora/custody/x"
	"github.com/bosagora/custody/x/utils"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Contract implements the wallet kind. All state lives in the buckets, so
// a single value serves every wallet instance.
type Contract struct {
	wallets Bucket
	txs     TransactionBucket
}

var (
	_ custody.Contract  = Contract{}
	_ custody.Describer = Contract{}
)

// NewContract returns the wallet contract.
func NewContract() Contract {
	return Contract{
		wallets: NewBucket(),
		txs:     NewTransactionBucket(),
	}
}

// Method returns the name of the method input selects.
func (Contract) Method(input []byte) string {
	return x.MethodName(ABI, input)
}

// Init creates the wallet from constructor arguments
// (name, description, owners, required).
func (c Contract) Init(ctx custody.Context, db custody.KVStore, call custody.Call) error {
	args, err := x.DecodeArgs(ABI, call.Input)
	if err != nil {
		return err
	}
	var (
		name        = args[0].(string)
		description = args[1].(string)
		owners      = args[2].([]common.Address)
		required    = args[3].(*big.Int)
	)
	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	if len(owners) > int(conf.MaxOwners) {
		return errors.Wrapf(ErrTooManyOwners, "%d owners, at most %d allowed", len(owners), conf.MaxOwners)
	}

	w := &Wallet{Name: name, Description: description}
	for _, o := range owners {
		if err := custody.ValidateAddress(o); err != nil {
			return errors.Wrap(err, "owner")
		}
		if w.IsOwner(o) {
			return errors.Wrapf(ErrDuplicateOwner, "owner %s", o.Hex())
		}
		w.Owners = append(w.Owners, o.Bytes())
	}
	if w.Required, err = requirement(required, len(owners)); err != nil {
		return err
	}
	return c.wallets.Put(db, call.Contract, w)
}

// requirement validates that 1 <= required <= owners.
func requirement(required *big.Int, owners int) (uint32, error) {
	if required.Sign() <= 0 || required.Cmp(big.NewInt(int64(owners))) > 0 {
		return 0, errors.Wrapf(ErrInvalidRequirement, "%s of %d owners", required, owners)
	}
	return uint32(required.Uint64()), nil
}

// Call dispatches the call to the method its input selects. A call
// without input is a deposit.
func (c Contract) Call(ctx custody.Context, db custody.KVStore, call custody.Call) ([]byte, error) {
	if len(call.Input) == 0 {
		if call.HasValue() {
			custody.Emit(ctx, call.Contract, "Deposit", "sender", call.Caller, "value", call.Value)
		}
		return nil, nil
	}
	if call.HasValue() {
		return nil, errors.Wrap(errors.ErrInput, "method does not accept value")
	}
	m, args, err := x.DecodeCall(ABI, call.Input)
	if err != nil {
		return nil, err
	}
	w, err := c.wallets.GetWallet(db, call.Contract)
	if err != nil {
		return nil, err
	}

	switch m.Name {
	case "submitTransaction":
		return c.submit(ctx, db, call, m, w, args)
	case "confirmTransaction":
		return c.confirmTransaction(ctx, db, call, m, w, args)
	case "revokeConfirmation":
		return nil, c.revoke(ctx, db, call, w, args)
	case "addOwner", "removeOwner", "replaceOwner", "changeRequirement":
		if call.Caller != call.Contract {
			return nil, errors.Wrapf(errors.ErrUnauthorized, "%s must be called by the wallet", m.Name)
		}
		return nil, c.manage(ctx, db, call.Contract, m.Name, w, args)
	}
	return c.view(db, call.Contract, m, w, args)
}

func (c Contract) submit(ctx custody.Context, db custody.KVStore, call custody.Call, m *abi.Method, w *Wallet, args []interface{}) ([]byte, error) {
	if !w.IsOwner(call.Caller) {
		return nil, errors.Wrapf(ErrNotAnOwner, "%s", call.Caller.Hex())
	}
	tx := &Transaction{
		Title:       args[0].(string),
		Description: args[1].(string),
		Destination: args[2].(common.Address).Bytes(),
		Data:        args[4].([]byte),
	}
	if err := custody.ValidateAddress(tx.DestinationAddress()); err != nil {
		return nil, errors.Wrap(err, "destination")
	}
	value := args[3].(*big.Int)
	if err := x.ValidateAmount(value); err != nil {
		return nil, errors.Wrap(err, "value")
	}
	tx.Value = x.EncodeAmount(value)

	id := w.TransactionCount
	w.TransactionCount++
	if err := c.wallets.Put(db, call.Contract, w); err != nil {
		return nil, err
	}
	if err := c.txs.Put(db, call.Contract, id, tx); err != nil {
		return nil, err
	}
	custody.Emit(ctx, call.Contract, "Submission", "transactionId", id)

	// The wallet record must not be saved again from here on: the
	// execution may change it through a nested call.
	if _, err := c.confirm(ctx, db, call.Contract, w, id, tx, call.Caller); err != nil {
		return nil, err
	}
	return x.EncodeOutput(m, new(big.Int).SetUint64(id))
}

func (c Contract) confirmTransaction(ctx custody.Context, db custody.KVStore, call custody.Call, m *abi.Method, w *Wallet, args []interface{}) ([]byte, error) {
	if !w.IsOwner(call.Caller) {
		return nil, errors.Wrapf(ErrNotAnOwner, "%s", call.Caller.Hex())
	}
	id, tx, err := c.transaction(db, call.Contract, args[0])
	if err != nil {
		return nil, err
	}
	if tx.Executed {
		return nil, errors.Wrapf(ErrAlreadyExecuted, "transaction %d", id)
	}
	if tx.ConfirmedBy(call.Caller) {
		return nil, errors.Wrapf(ErrAlreadyConfirmed, "transaction %d by %s", id, call.Caller.Hex())
	}
	executed, err := c.confirm(ctx, db, call.Contract, w, id, tx, call.Caller)
	if err != nil {
		return nil, err
	}
	return x.EncodeOutput(m, new(big.Int).SetUint64(id), executed)
}

// confirm records the confirmation of owner and executes the action once
// the quorum is reached.
func (c Contract) confirm(ctx custody.Context, db custody.KVStore, wallet common.Address, w *Wallet, id uint64, tx *Transaction, owner common.Address) (bool, error) {
	tx.Confirmations = append(tx.Confirmations, owner.Bytes())
	if err := c.txs.Put(db, wallet, id, tx); err != nil {
		return false, err
	}
	custody.Emit(ctx, wallet, "Confirmation", "sender", owner, "transactionId", id)

	if len(tx.Confirmations) < int(w.Required) {
		return false, nil
	}
	return c.execute(ctx, db, wallet, id, tx)
}

// execute calls the destination of the action. A failing destination
// leaves the action pending and does not fail the caller.
func (c Contract) execute(ctx custody.Context, db custody.KVStore, wallet common.Address, id uint64, tx *Transaction) (bool, error) {
	h, ok := custody.GetHost(ctx)
	if !ok {
		return false, errors.Wrap(errors.ErrHuman, "no host in context")
	}
	_, err := utils.InSavepoint(ctx, db, func(db custody.KVStore) ([]byte, error) {
		done := *tx
		done.Executed = true
		if err := c.txs.Put(db, wallet, id, &done); err != nil {
			return nil, err
		}
		return h.Call(ctx, db, custody.Call{
			Caller:   wallet,
			Contract: tx.DestinationAddress(),
			Value:    tx.Amount(),
			Input:    tx.Data,
		})
	})
	if err != nil {
		custody.GetLogger(ctx).Info("wallet execution failed",
			"wallet", wallet.Hex(), "transactionId", id, "err", err)
		custody.Emit(ctx, wallet, "ExecutionFailure", "transactionId", id)
		return false, nil
	}
	tx.Executed = true
	custody.Emit(ctx, wallet, "Execution", "transactionId", id)
	return true, nil
}

func (c Contract) revoke(ctx custody.Context, db custody.KVStore, call custody.Call, w *Wallet, args []interface{}) error {
	if !w.IsOwner(call.Caller) {
		return errors.Wrapf(ErrNotAnOwner, "%s", call.Caller.Hex())
	}
	id, tx, err := c.transaction(db, call.Contract, args[0])
	if err != nil {
		return err
	}
	i := tx.confirmationIndex(call.Caller)
	if i < 0 {
		return errors.Wrapf(ErrNotConfirmed, "transaction %d by %s", id, call.Caller.Hex())
	}
	if tx.Executed {
		return errors.Wrapf(ErrAlreadyExecuted, "transaction %d", id)
	}
	tx.Confirmations = append(tx.Confirmations[:i], tx.Confirmations[i+1:]...)
	if err := c.txs.Put(db, call.Contract, id, tx); err != nil {
		return err
	}
	custody.Emit(ctx, call.Contract, "Revocation", "sender", call.Caller, "transactionId", id)
	return nil
}

// manage applies an owner management method. The wallet invariants are
// checked before anything is written.
func (c Contract) manage(ctx custody.Context, db custody.KVStore, wallet common.Address, method string, w *Wallet, args []interface{}) error {
	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	switch method {
	case "addOwner":
		owner := args[0].(common.Address)
		if err := c.canAdd(w, owner); err != nil {
			return err
		}
		if len(w.Owners) >= int(conf.MaxOwners) {
			return errors.Wrapf(ErrTooManyOwners, "at most %d allowed", conf.MaxOwners)
		}
		w.Owners = append(w.Owners, owner.Bytes())
		if err := c.wallets.Put(db, wallet, w); err != nil {
			return err
		}
		custody.Emit(ctx, wallet, "OwnerAddition", "owner", owner)
	case "removeOwner":
		owner := args[0].(common.Address)
		i := w.ownerIndex(owner)
		if i < 0 {
			return errors.Wrapf(ErrNotAnOwner, "%s", owner.Hex())
		}
		if len(w.Owners)-1 < int(w.Required) {
			return errors.Wrapf(ErrInvalidRequirement, "%d owners would remain, %d required", len(w.Owners)-1, w.Required)
		}
		w.Owners = append(w.Owners[:i], w.Owners[i+1:]...)
		if err := c.wallets.Put(db, wallet, w); err != nil {
			return err
		}
		custody.Emit(ctx, wallet, "OwnerRemoval", "owner", owner)
	case "replaceOwner":
		owner, newOwner := args[0].(common.Address), args[1].(common.Address)
		i := w.ownerIndex(owner)
		if i < 0 {
			return errors.Wrapf(ErrNotAnOwner, "%s", owner.Hex())
		}
		if err := c.canAdd(w, newOwner); err != nil {
			return err
		}
		w.Owners[i] = newOwner.Bytes()
		if err := c.wallets.Put(db, wallet, w); err != nil {
			return err
		}
		custody.Emit(ctx, wallet, "OwnerRemoval", "owner", owner)
		custody.Emit(ctx, wallet, "OwnerAddition", "owner", newOwner)
	case "changeRequirement":
		required, err := requirement(args[0].(*big.Int), len(w.Owners))
		if err != nil {
			return err
		}
		w.Required = required
		if err := c.wallets.Put(db, wallet, w); err != nil {
			return err
		}
		custody.Emit(ctx, wallet, "RequirementChange", "required", required)
	default:
		return errors.Wrapf(errors.ErrHuman, "unhandled method %q", method)
	}
	return nil
}

func (Contract) canAdd(w *Wallet, owner common.Address) error {
	if err := custody.ValidateAddress(owner); err != nil {
		return errors.Wrap(err, "owner")
	}
	if w.IsOwner(owner) {
		return errors.Wrapf(ErrDuplicateOwner, "owner %s", owner.Hex())
	}
	return nil
}

// view answers the read only methods.
func (c Contract) view(db custody.KVStore, wallet common.Address, m *abi.Method, w *Wallet, args []interface{}) ([]byte, error) {
	switch m.Name {
	case "getOwners", "getMembers":
		return x.EncodeOutput(m, w.OwnerAddresses())
	case "isOwner":
		return x.EncodeOutput(m, w.IsOwner(args[0].(common.Address)))
	case "required":
		return x.EncodeOutput(m, new(big.Int).SetUint64(uint64(w.Required)))
	case "name":
		return x.EncodeOutput(m, w.Name)
	case "description":
		return x.EncodeOutput(m, w.Description)
	case "transactionCount":
		return x.EncodeOutput(m, new(big.Int).SetUint64(w.TransactionCount))
	case "getTransactionCount", "getTransactionIds":
		return c.list(db, wallet, m, args)
	}

	_, tx, err := c.transaction(db, wallet, args[0])
	if err != nil {
		return nil, err
	}
	switch m.Name {
	case "getTransaction":
		return x.EncodeOutput(m, tx.Title, tx.Description, tx.DestinationAddress(), tx.Amount(), tx.Data, tx.Executed)
	case "isConfirmed":
		return x.EncodeOutput(m, len(tx.Confirmations) >= int(w.Required))
	case "getConfirmationCount":
		return x.EncodeOutput(m, big.NewInt(int64(len(tx.Confirmations))))
	case "getConfirmations":
		return x.EncodeOutput(m, tx.Confirmers())
	case "isConfirmedBy":
		return x.EncodeOutput(m, tx.ConfirmedBy(args[1].(common.Address)))
	case "isExecuted":
		return x.EncodeOutput(m, tx.Executed)
	}
	return nil, errors.Wrapf(errors.ErrHuman, "unhandled method %q", m.Name)
}

// list filters the actions of a wallet by state. getTransactionIds
// returns the [from, to) window of the matching ids.
func (c Contract) list(db custody.KVStore, wallet common.Address, m *abi.Method, args []interface{}) ([]byte, error) {
	var pending, executed bool
	if m.Name == "getTransactionCount" {
		pending, executed = args[0].(bool), args[1].(bool)
	} else {
		pending, executed = args[2].(bool), args[3].(bool)
	}
	txs, err := c.txs.Transactions(db, wallet)
	if err != nil {
		return nil, err
	}
	ids := make([]*big.Int, 0, len(txs))
	for i, tx := range txs {
		if (pending && !tx.Executed) || (executed && tx.Executed) {
			ids = append(ids, big.NewInt(int64(i)))
		}
	}
	if m.Name == "getTransactionCount" {
		return x.EncodeOutput(m, big.NewInt(int64(len(ids))))
	}

	from, to := args[0].(*big.Int), args[1].(*big.Int)
	if to.Cmp(big.NewInt(int64(len(ids)))) > 0 {
		to = big.NewInt(int64(len(ids)))
	}
	if from.Cmp(to) > 0 {
		return nil, errors.Wrapf(errors.ErrInput, "range [%s, %s)", from, to)
	}
	return x.EncodeOutput(m, ids[from.Int64():to.Int64()])
}

// transaction loads the action selected by a uint256 id argument.
func (c Contract) transaction(db custody.ReadOnlyKVStore, wallet common.Address, arg interface{}) (uint64, *Transaction, error) {
	id := arg.(*big.Int)
	if !id.IsUint64() {
		return 0, nil, errors.Wrapf(ErrUnknownAction, "transaction %s", id)
	}
	tx, err := c.txs.GetTransaction(db, wallet, id.Uint64())
	return id.Uint64(), tx, err
}
