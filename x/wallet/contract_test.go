package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"testing"

	"github.com/bosagora/custody"
	"github.com/bosagora/custody/app"
	"github.com/bosagora/custody/custodytest"
	"github.com/bosagora/custody/errors"
	"github.com/bosagora/custody/store/iavl"
	"github.com/bosagora/custody/x/cash"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture is a ledger with a wallet deployed and its first owner funded.
type fixture struct {
	t      *testing.T
	l      *app.Ledger
	mock   *custodytest.Contract
	owners []common.Address
	wallet common.Address
}

func newFixture(t *testing.T, owners int, required int64, conf string) *fixture {
	t.Helper()
	f := &fixture{t: t, mock: &custodytest.Contract{Key: []byte("mock"), Value: []byte("called")}}
	for i := 0; i < owners; i++ {
		f.owners = append(f.owners, custodytest.SequenceAddr(i+1))
	}

	r := app.NewRouter()
	r.Register(Kind, NewContract())
	r.Register("mock", f.mock)
	l, err := app.NewLedger(iavl.NewMemCommitStore(), r, app.WithChainID(big.NewInt(2019)))
	require.NoError(t, err)
	f.l = l

	state := custody.Options{
		"cash": json.RawMessage(fmt.Sprintf(`[{"address": %q, "amount": "5000"}]`, f.owners[0].Hex())),
	}
	if conf != "" {
		state["conf"] = json.RawMessage(conf)
	}
	require.NoError(t, l.InitChain(context.Background(), app.Genesis{AppState: state},
		app.ChainInitializers(cash.Initializer{}, Initializer{})))

	f.wallet, err = f.deploy(f.owners, big.NewInt(required))
	require.NoError(t, err)
	return f
}

func (f *fixture) deploy(owners []common.Address, required *big.Int) (common.Address, error) {
	args, err := ABI.Pack("", "treasury", "funds of the project", owners, required)
	require.NoError(f.t, err)
	res, err := f.l.Deploy(context.Background(), custody.Deployment{
		Kind:     Kind,
		Deployer: custodytest.SequenceAddr(0),
		Args:     args,
	})
	if err != nil {
		return common.Address{}, err
	}
	return res.Contract, nil
}

func (f *fixture) execute(caller common.Address, method string, args ...interface{}) (*app.Receipt, error) {
	input, err := ABI.Pack(method, args...)
	require.NoError(f.t, err)
	return f.l.Execute(context.Background(), custody.Call{Caller: caller, Contract: f.wallet, Input: input})
}

func (f *fixture) mustExecute(caller common.Address, method string, args ...interface{}) *app.Receipt {
	f.t.Helper()
	res, err := f.execute(caller, method, args...)
	require.NoError(f.t, err)
	return res
}

func (f *fixture) query(method string, args ...interface{}) []interface{} {
	f.t.Helper()
	input, err := ABI.Pack(method, args...)
	require.NoError(f.t, err)
	out, err := f.l.Query(context.Background(), custody.Call{Contract: f.wallet, Input: input})
	require.NoError(f.t, err)
	values := custodytest.Unpack(f.t, ABI, method, out)
	return values
}

func (f *fixture) balance(addr common.Address) *big.Int {
	f.t.Helper()
	var amount *big.Int
	require.NoError(f.t, f.l.View(func(db custody.ReadOnlyKVStore) error {
		var err error
		amount, err = cash.NewController(cash.NewBucket()).Balance(db, addr)
		return err
	}))
	return amount
}

// selfCall is the payload of an action the wallet sends to itself.
func (f *fixture) selfCall(method string, args ...interface{}) []byte {
	input, err := ABI.Pack(method, args...)
	require.NoError(f.t, err)
	return input
}

func assertEvent(t *testing.T, res *app.Receipt, contract common.Address, name string, kv ...string) {
	t.Helper()
	e, ok := res.Event(contract, name)
	require.True(t, ok, "missing %s event in %v", name, res.Events)
	for i := 0; i < len(kv); i += 2 {
		v, ok := e.Attr(kv[i])
		require.True(t, ok, "missing %s attribute", kv[i])
		assert.Equal(t, kv[i+1], v, kv[i])
	}
}

func assertNoEvent(t *testing.T, res *app.Receipt, contract common.Address, name string) {
	t.Helper()
	_, ok := res.Event(contract, name)
	assert.False(t, ok, "unexpected %s event", name)
}

func TestConstructor(t *testing.T) {
	f := newFixture(t, 3, 2, `{"wallet": {"max_owners": 3}}`)
	a, b, c := f.owners[0], f.owners[1], f.owners[2]

	cases := map[string]struct {
		owners   []common.Address
		required int64
		wantErr  *errors.Error
	}{
		"valid":              {owners: []common.Address{a, b}, required: 2},
		"no owners":          {owners: nil, required: 1, wantErr: ErrInvalidRequirement},
		"zero required":      {owners: []common.Address{a}, required: 0, wantErr: ErrInvalidRequirement},
		"required too large": {owners: []common.Address{a, b}, required: 3, wantErr: ErrInvalidRequirement},
		"duplicate owner":    {owners: []common.Address{a, b, a}, required: 1, wantErr: ErrDuplicateOwner},
		"zero owner":         {owners: []common.Address{a, {}}, required: 1, wantErr: errors.ErrEmpty},
		"too many owners": {
			owners:   []common.Address{a, b, c, custodytest.SequenceAddr(99)},
			required: 1,
			wantErr:  ErrTooManyOwners,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := f.deploy(tc.owners, big.NewInt(tc.required))
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}

	assert.Equal(t, []interface{}{[]common.Address{a, b, c}}, f.query("getOwners"))
	assert.Equal(t, []interface{}{[]common.Address{a, b, c}}, f.query("getMembers"))
	assert.Equal(t, []interface{}{big.NewInt(2)}, f.query("required"))
	assert.Equal(t, []interface{}{"treasury"}, f.query("name"))
	assert.Equal(t, []interface{}{true}, f.query("isOwner", b))
	assert.Equal(t, []interface{}{false}, f.query("isOwner", custodytest.SequenceAddr(99)))
}

func TestSubmitConfirmExecute(t *testing.T) {
	f := newFixture(t, 3, 2, "")
	recipient := custodytest.SequenceAddr(50)

	// Fund the wallet with a plain deposit.
	res, err := f.l.Execute(context.Background(), custody.Call{Caller: f.owners[0], Contract: f.wallet, Value: big.NewInt(3000)})
	require.NoError(t, err)
	assertEvent(t, res, f.wallet, "Deposit", "sender", f.owners[0].Hex(), "value", "3000")

	res = f.mustExecute(f.owners[0], "submitTransaction", "pay", "first payment", recipient, big.NewInt(1000), []byte{})
	assertEvent(t, res, f.wallet, "Submission", "transactionId", "0")
	assertEvent(t, res, f.wallet, "Confirmation", "sender", f.owners[0].Hex(), "transactionId", "0")
	assertNoEvent(t, res, f.wallet, "Execution")
	out := custodytest.Unpack(t, ABI, "submitTransaction", res.Output)
	assert.Equal(t, []interface{}{big.NewInt(0)}, out)
	assert.Equal(t, int64(0), f.balance(recipient).Int64())
	assert.Equal(t, []interface{}{false}, f.query("isConfirmed", big.NewInt(0)))

	res = f.mustExecute(f.owners[1], "confirmTransaction", big.NewInt(0))
	assertEvent(t, res, f.wallet, "Confirmation", "sender", f.owners[1].Hex(), "transactionId", "0")
	assertEvent(t, res, f.wallet, "Execution", "transactionId", "0")
	out = custodytest.Unpack(t, ABI, "confirmTransaction", res.Output)
	assert.Equal(t, []interface{}{big.NewInt(0), true}, out)

	assert.Equal(t, int64(1000), f.balance(recipient).Int64())
	assert.Equal(t, int64(2000), f.balance(f.wallet).Int64())
	assert.Equal(t, []interface{}{true}, f.query("isExecuted", big.NewInt(0)))
	assert.Equal(t, []interface{}{true}, f.query("isConfirmed", big.NewInt(0)))
	assert.Equal(t, []interface{}{[]common.Address{f.owners[0], f.owners[1]}}, f.query("getConfirmations", big.NewInt(0)))

	tx := f.query("getTransaction", big.NewInt(0))
	assert.Equal(t, "pay", tx[0])
	assert.Equal(t, recipient, tx[2])
	assert.Equal(t, big.NewInt(1000), tx[3])
	assert.Equal(t, true, tx[5])

	// An executed action can no longer be confirmed.
	_, err = f.execute(f.owners[2], "confirmTransaction", big.NewInt(0))
	assert.True(t, ErrAlreadyExecuted.Is(err), "%+v", err)
	_, err = f.execute(f.owners[0], "revokeConfirmation", big.NewInt(0))
	assert.True(t, ErrAlreadyExecuted.Is(err), "%+v", err)
}

func TestConfirmErrors(t *testing.T) {
	f := newFixture(t, 3, 3, "")
	stranger := custodytest.SequenceAddr(60)
	f.mustExecute(f.owners[0], "submitTransaction", "", "", custodytest.SequenceAddr(50), big.NewInt(0), []byte{})

	cases := map[string]struct {
		caller  common.Address
		method  string
		args    []interface{}
		wantErr *errors.Error
	}{
		"submit by stranger": {
			caller:  stranger,
			method:  "submitTransaction",
			args:    []interface{}{"", "", custodytest.SequenceAddr(50), big.NewInt(0), []byte{}},
			wantErr: ErrNotAnOwner,
		},
		"submit to zero address": {
			caller:  f.owners[0],
			method:  "submitTransaction",
			args:    []interface{}{"", "", common.Address{}, big.NewInt(0), []byte{}},
			wantErr: errors.ErrEmpty,
		},
		"confirm by stranger": {
			caller:  stranger,
			method:  "confirmTransaction",
			args:    []interface{}{big.NewInt(0)},
			wantErr: ErrNotAnOwner,
		},
		"confirm unknown action": {
			caller:  f.owners[1],
			method:  "confirmTransaction",
			args:    []interface{}{big.NewInt(7)},
			wantErr: ErrUnknownAction,
		},
		"confirm twice": {
			caller:  f.owners[0],
			method:  "confirmTransaction",
			args:    []interface{}{big.NewInt(0)},
			wantErr: ErrAlreadyConfirmed,
		},
		"revoke without confirmation": {
			caller:  f.owners[1],
			method:  "revokeConfirmation",
			args:    []interface{}{big.NewInt(0)},
			wantErr: ErrNotConfirmed,
		},
		"add owner directly": {
			caller:  f.owners[0],
			method:  "addOwner",
			args:    []interface{}{stranger},
			wantErr: errors.ErrUnauthorized,
		},
		"change requirement directly": {
			caller:  f.owners[0],
			method:  "changeRequirement",
			args:    []interface{}{big.NewInt(1)},
			wantErr: errors.ErrUnauthorized,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := f.execute(tc.caller, tc.method, tc.args...)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}

	// Failed calls changed nothing.
	assert.Equal(t, []interface{}{big.NewInt(1)}, f.query("transactionCount"))
	assert.Equal(t, []interface{}{big.NewInt(1)}, f.query("getConfirmationCount", big.NewInt(0)))
}

func TestRevokeConfirmation(t *testing.T) {
	f := newFixture(t, 3, 2, "")
	f.mustExecute(f.owners[0], "submitTransaction", "", "", custodytest.SequenceAddr(50), big.NewInt(0), []byte{})

	res := f.mustExecute(f.owners[0], "revokeConfirmation", big.NewInt(0))
	assertEvent(t, res, f.wallet, "Revocation", "sender", f.owners[0].Hex(), "transactionId", "0")
	assert.Equal(t, []interface{}{big.NewInt(0)}, f.query("getConfirmationCount", big.NewInt(0)))
	assert.Equal(t, []interface{}{false}, f.query("isConfirmedBy", big.NewInt(0), f.owners[0]))

	// A single confirmation is not enough after the revocation.
	res = f.mustExecute(f.owners[1], "confirmTransaction", big.NewInt(0))
	assertNoEvent(t, res, f.wallet, "Execution")
	res = f.mustExecute(f.owners[0], "confirmTransaction", big.NewInt(0))
	assertEvent(t, res, f.wallet, "Execution", "transactionId", "0")
}

func TestFailedExecutionKeepsConfirmation(t *testing.T) {
	f := newFixture(t, 2, 1, "")
	mock, err := f.l.Deploy(context.Background(), custody.Deployment{Kind: "mock", Deployer: f.owners[0]})
	require.NoError(t, err)
	f.mock.CallErr = errors.ErrUnauthorized

	res := f.mustExecute(f.owners[0], "submitTransaction", "call", "", mock.Contract, big.NewInt(0), []byte{1, 2, 3, 4})
	assertEvent(t, res, f.wallet, "Submission", "transactionId", "0")
	assertEvent(t, res, f.wallet, "Confirmation", "transactionId", "0")
	assertEvent(t, res, f.wallet, "ExecutionFailure", "transactionId", "0")
	assertNoEvent(t, res, f.wallet, "Execution")
	assertNoEvent(t, res, mock.Contract, "Called")
	assert.Equal(t, 1, f.mock.CallCount())

	assert.Equal(t, []interface{}{false}, f.query("isExecuted", big.NewInt(0)))
	assert.Equal(t, []interface{}{big.NewInt(1)}, f.query("getConfirmationCount", big.NewInt(0)))
	require.NoError(t, f.l.View(func(db custody.ReadOnlyKVStore) error {
		has, err := db.Has([]byte("mock"))
		assert.False(t, has)
		return err
	}))

	// The next confirmation retries the execution.
	f.mock.CallErr = nil
	res = f.mustExecute(f.owners[1], "confirmTransaction", big.NewInt(0))
	assertEvent(t, res, f.wallet, "Execution", "transactionId", "0")
	assertEvent(t, res, mock.Contract, "Called")
	assert.Equal(t, f.wallet, f.mock.Last.Caller)
	assert.Equal(t, []interface{}{true}, f.query("isExecuted", big.NewInt(0)))
}

func TestOwnerManagement(t *testing.T) {
	f := newFixture(t, 3, 2, `{"wallet": {"max_owners": 4}}`)
	a, b, c := f.owners[0], f.owners[1], f.owners[2]
	d, e := custodytest.SequenceAddr(40), custodytest.SequenceAddr(41)

	// approve submits an action to the wallet itself and confirms it.
	approve := func(data []byte) *app.Receipt {
		t.Helper()
		res := f.mustExecute(a, "submitTransaction", "admin", "", f.wallet, big.NewInt(0), data)
		out := custodytest.Unpack(t, ABI, "submitTransaction", res.Output)
		return f.mustExecute(b, "confirmTransaction", out[0])
	}

	res := approve(f.selfCall("addOwner", d))
	assertEvent(t, res, f.wallet, "OwnerAddition", "owner", d.Hex())
	assertEvent(t, res, f.wallet, "Execution")
	assert.Equal(t, []interface{}{[]common.Address{a, b, c, d}}, f.query("getOwners"))

	// Limit of four owners reached.
	res = approve(f.selfCall("addOwner", e))
	assertEvent(t, res, f.wallet, "ExecutionFailure")
	assertNoEvent(t, res, f.wallet, "OwnerAddition")

	res = approve(f.selfCall("addOwner", c))
	assertEvent(t, res, f.wallet, "ExecutionFailure")

	res = approve(f.selfCall("replaceOwner", d, e))
	assertEvent(t, res, f.wallet, "OwnerRemoval", "owner", d.Hex())
	assertEvent(t, res, f.wallet, "OwnerAddition", "owner", e.Hex())
	assert.Equal(t, []interface{}{[]common.Address{a, b, c, e}}, f.query("getOwners"))

	res = approve(f.selfCall("changeRequirement", big.NewInt(5)))
	assertEvent(t, res, f.wallet, "ExecutionFailure")
	res = approve(f.selfCall("changeRequirement", big.NewInt(4)))
	assertEvent(t, res, f.wallet, "RequirementChange", "required", "4")
	assert.Equal(t, []interface{}{big.NewInt(4)}, f.query("required"))

	// With four owners required, none can be removed.
	submit := f.mustExecute(a, "submitTransaction", "", "", f.wallet, big.NewInt(0), f.selfCall("removeOwner", e))
	out := custodytest.Unpack(t, ABI, "submitTransaction", submit.Output)
	f.mustExecute(b, "confirmTransaction", out[0])
	f.mustExecute(c, "confirmTransaction", out[0])
	res = f.mustExecute(e, "confirmTransaction", out[0])
	assertEvent(t, res, f.wallet, "ExecutionFailure")
	assert.Equal(t, []interface{}{[]common.Address{a, b, c, e}}, f.query("getOwners"))
}

func TestRemovedOwnerConfirmationCounts(t *testing.T) {
	f := newFixture(t, 3, 2, "")
	a, b, c := f.owners[0], f.owners[1], f.owners[2]
	recipient := custodytest.SequenceAddr(50)

	_, err := f.l.Execute(context.Background(), custody.Call{Caller: a, Contract: f.wallet, Value: big.NewInt(100)})
	require.NoError(t, err)

	// c confirms a payment, then gets removed.
	f.mustExecute(c, "submitTransaction", "pay", "", recipient, big.NewInt(100), []byte{})
	f.mustExecute(a, "submitTransaction", "remove", "", f.wallet, big.NewInt(0), f.selfCall("removeOwner", c))
	res := f.mustExecute(b, "confirmTransaction", big.NewInt(1))
	assertEvent(t, res, f.wallet, "OwnerRemoval", "owner", c.Hex())
	assert.Equal(t, []interface{}{false}, f.query("isOwner", c))

	_, err = f.execute(c, "revokeConfirmation", big.NewInt(0))
	assert.True(t, ErrNotAnOwner.Is(err), "%+v", err)

	res = f.mustExecute(a, "confirmTransaction", big.NewInt(0))
	assertEvent(t, res, f.wallet, "Execution", "transactionId", "0")
	assert.Equal(t, int64(100), f.balance(recipient).Int64())
}

func TestTransactionListing(t *testing.T) {
	f := newFixture(t, 2, 2, "")
	for i := 0; i < 4; i++ {
		f.mustExecute(f.owners[0], "submitTransaction", "", "", custodytest.SequenceAddr(50), big.NewInt(0), []byte{})
	}
	f.mustExecute(f.owners[1], "confirmTransaction", big.NewInt(1))
	f.mustExecute(f.owners[1], "confirmTransaction", big.NewInt(3))

	cases := map[string]struct {
		from, to          int64
		pending, executed bool
		wantCount         int64
		wantIDs           []*big.Int
	}{
		"all":          {to: 10, pending: true, executed: true, wantCount: 4, wantIDs: ids(0, 1, 2, 3)},
		"pending":      {to: 10, pending: true, wantCount: 2, wantIDs: ids(0, 2)},
		"executed":     {to: 10, executed: true, wantCount: 2, wantIDs: ids(1, 3)},
		"window":       {from: 1, to: 3, pending: true, executed: true, wantCount: 4, wantIDs: ids(1, 2)},
		"nothing":      {to: 10, wantCount: 0, wantIDs: ids()},
		"empty window": {from: 2, to: 2, pending: true, wantCount: 2, wantIDs: ids()},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			count := f.query("getTransactionCount", tc.pending, tc.executed)
			assert.Equal(t, []interface{}{big.NewInt(tc.wantCount)}, count)
			got := f.query("getTransactionIds", big.NewInt(tc.from), big.NewInt(tc.to), tc.pending, tc.executed)
			assert.Equal(t, []interface{}{tc.wantIDs}, got)
		})
	}
}

func ids(values ...int64) []*big.Int {
	res := make([]*big.Int, 0, len(values))
	for _, v := range values {
		res = append(res, big.NewInt(v))
	}
	return res
}

func TestCallWithValueRequiresDeposit(t *testing.T) {
	f := newFixture(t, 1, 1, "")
	input := f.selfCall("required")
	_, err := f.l.Execute(context.Background(), custody.Call{
		Caller:   f.owners[0],
		Contract: f.wallet,
		Value:    big.NewInt(1),
		Input:    input,
	})
	assert.True(t, errors.ErrInput.Is(err), "%+v", err)
	assert.Equal(t, int64(5000), f.balance(f.owners[0]).Int64())
}
