package asset

import (
	"context"
	"math/big"
	"testing"

	"github.com/bosagora/custody"
	"github.com/bosagora/custody/app"
	"github.com/bosagora/custody/crypto"
	"github.com/bosagora/custody/custodytest"
	"github.com/bosagora/custody/errors"
	"github.com/bosagora/custody/store/iavl"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var chainID = big.NewInt(2019)

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

func mul(a int64, b *big.Int) *big.Int {
	return new(big.Int).Mul(big.NewInt(a), b)
}

type fixture struct {
	t     *testing.T
	l     *app.Ledger
	owner common.Address
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	r := app.NewRouter()
	r.Register("mock", &custodytest.Contract{})
	r.Register(Kind, NewContract(Params{Name: "KIOS", Symbol: "KIOS", Decimals: 18, InitialSupply: pow10(28)}))
	r.Register(CappedKind, NewContract(Params{Name: "LYT", Symbol: "LYT", Decimals: 18, Capped: true}))
	r.Register("edasset", NewContract(Params{Name: "ED", Symbol: "ED", Scheme: crypto.Ed25519{}}))
	l, err := app.NewLedger(iavl.NewMemCommitStore(), r, app.WithChainID(chainID))
	require.NoError(t, err)

	res, err := l.Deploy(context.Background(), custody.Deployment{Kind: "mock", Deployer: custodytest.SequenceAddr(0)})
	require.NoError(t, err)
	return &fixture{t: t, l: l, owner: res.Contract}
}

func (f *fixture) deploy(kind string, args ...interface{}) (*app.Receipt, error) {
	a := ABI
	if kind == CappedKind {
		a = CappedABI
	}
	input, err := a.Pack("", args...)
	require.NoError(f.t, err)
	return f.l.Deploy(context.Background(), custody.Deployment{
		Kind:     kind,
		Deployer: custodytest.SequenceAddr(0),
		Args:     input,
	})
}

func (f *fixture) mustDeploy(kind string, args ...interface{}) common.Address {
	f.t.Helper()
	res, err := f.deploy(kind, args...)
	require.NoError(f.t, err)
	return res.Contract
}

func (f *fixture) execute(caller, asset common.Address, method string, args ...interface{}) (*app.Receipt, error) {
	input, err := ABI.Pack(method, args...)
	require.NoError(f.t, err)
	return f.l.Execute(context.Background(), custody.Call{Caller: caller, Contract: asset, Input: input})
}

func (f *fixture) query(asset common.Address, method string, args ...interface{}) interface{} {
	f.t.Helper()
	input, err := ABI.Pack(method, args...)
	require.NoError(f.t, err)
	out, err := f.l.Query(context.Background(), custody.Call{Contract: asset, Input: input})
	require.NoError(f.t, err)
	values := custodytest.Unpack(f.t, ABI, method, out)
	require.Len(f.t, values, 1)
	return values[0]
}

func (f *fixture) balance(asset, holder common.Address) *big.Int {
	f.t.Helper()
	return f.query(asset, "balanceOf", holder).(*big.Int)
}

// assertSupply checks that the balances add up to the total supply.
func (f *fixture) assertSupply(asset common.Address) {
	f.t.Helper()
	var holders map[common.Address]*big.Int
	require.NoError(f.t, f.l.View(func(db custody.ReadOnlyKVStore) error {
		var err error
		holders, err = NewBalanceBucket().Holders(db, asset)
		return err
	}))
	sum := new(big.Int)
	for _, v := range holders {
		sum.Add(sum, v)
	}
	assert.Equal(f.t, f.query(asset, "totalSupply"), sum)
}

func TestOwnerMustBeContract(t *testing.T) {
	f := newFixture(t)
	_, err := f.deploy(Kind, custodytest.SequenceAddr(1))
	assert.True(t, errors.ErrNotAContract.Is(err), "%+v", err)
	_, err = f.deploy(CappedKind, custodytest.SequenceAddr(1), custodytest.SequenceAddr(2), pow10(28))
	assert.True(t, errors.ErrNotAContract.Is(err), "%+v", err)
}

func TestInitialSupply(t *testing.T) {
	f := newFixture(t)
	res, err := f.deploy(Kind, f.owner)
	require.NoError(t, err)
	e, ok := res.Event(res.Contract, "Transfer")
	require.True(t, ok)
	to, _ := e.Attr("to")
	assert.Equal(t, f.owner.Hex(), to)

	kios := res.Contract
	assert.Equal(t, pow10(28), f.balance(kios, f.owner))
	assert.Equal(t, pow10(28), f.query(kios, "totalSupply"))
	assert.Equal(t, big.NewInt(0), f.query(kios, "maxSupply"))
	assert.Equal(t, f.owner, f.query(kios, "getOwner"))
	assert.Equal(t, "KIOS", f.query(kios, "name"))
	assert.Equal(t, "KIOS", f.query(kios, "symbol"))
	assert.Equal(t, uint8(18), f.query(kios, "decimals"))
}

func TestCappedMint(t *testing.T) {
	f := newFixture(t)
	fee := custodytest.SequenceAddr(7)
	lyt := f.mustDeploy(CappedKind, f.owner, fee, mul(8, pow10(27)))

	assert.Equal(t, big.NewInt(0), f.query(lyt, "totalSupply"))
	assert.Equal(t, big.NewInt(0), f.balance(lyt, f.owner))
	assert.Equal(t, mul(8, pow10(27)), f.query(lyt, "maxSupply"))
	assert.Equal(t, fee, f.query(lyt, "feeAccount"))

	_, err := f.execute(custodytest.SequenceAddr(1), lyt, "mint", pow10(18))
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)

	res, err := f.execute(f.owner, lyt, "mint", mul(5, pow10(27)))
	require.NoError(t, err)
	e, ok := res.Event(lyt, "Transfer")
	require.True(t, ok)
	from, _ := e.Attr("from")
	assert.Equal(t, common.Address{}.Hex(), from)

	_, err = f.execute(f.owner, lyt, "mint", mul(3, pow10(27)))
	require.NoError(t, err)
	_, err = f.execute(f.owner, lyt, "mint", big.NewInt(1))
	assert.True(t, ErrSupplyCapExceeded.Is(err), "%+v", err)

	assert.Equal(t, mul(8, pow10(27)), f.query(lyt, "totalSupply"))
	assert.Equal(t, mul(8, pow10(27)), f.balance(lyt, f.owner))
	f.assertSupply(lyt)
}

func TestTransfer(t *testing.T) {
	f := newFixture(t)
	kios := f.mustDeploy(Kind, f.owner)
	alice, bob := custodytest.SequenceAddr(1), custodytest.SequenceAddr(2)

	cases := map[string]struct {
		caller  common.Address
		to      common.Address
		amount  *big.Int
		wantErr *errors.Error
	}{
		"owner to alice": {caller: f.owner, to: alice, amount: big.NewInt(1000)},
		"alice to bob":   {caller: alice, to: bob, amount: big.NewInt(400)},
		"alice to self":  {caller: alice, to: alice, amount: big.NewInt(600)},
		"bob too much":   {caller: bob, to: alice, amount: big.NewInt(401), wantErr: ErrInsufficientBalance},
		"stranger":       {caller: custodytest.SequenceAddr(3), to: alice, amount: big.NewInt(1), wantErr: ErrInsufficientBalance},
		"zero recipient": {caller: alice, to: common.Address{}, amount: big.NewInt(1), wantErr: errors.ErrEmpty},
		"zero amount":    {caller: bob, to: alice, amount: big.NewInt(0)},
	}
	// Order matters, later cases rely on earlier balances.
	for _, name := range []string{"owner to alice", "alice to bob", "alice to self", "bob too much", "stranger", "zero recipient", "zero amount"} {
		tc := cases[name]
		t.Run(name, func(t *testing.T) {
			res, err := f.execute(tc.caller, kios, "transfer", tc.to, tc.amount)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				_, ok := res.Event(kios, "Transfer")
				assert.True(t, ok)
			}
		})
	}

	assert.Equal(t, big.NewInt(600), f.balance(kios, alice))
	assert.Equal(t, big.NewInt(400), f.balance(kios, bob))
	assert.Equal(t, new(big.Int).Sub(pow10(28), big.NewInt(1000)), f.balance(kios, f.owner))
	f.assertSupply(kios)
}

func TestDelegatedTransfer(t *testing.T) {
	f := newFixture(t)
	kios := f.mustDeploy(Kind, f.owner)
	other := f.mustDeploy(Kind, f.owner)
	holder, thief := custodytest.NewKey(t), custodytest.NewKey(t)
	recipient, relayer := custodytest.SequenceAddr(5), custodytest.SequenceAddr(6)

	for _, asset := range []common.Address{kios, other} {
		_, err := f.execute(f.owner, asset, "transfer", holder.Address(), big.NewInt(1000))
		require.NoError(t, err)
	}

	sign := func(key crypto.Signer, chain *big.Int, asset common.Address, amount int64, nonce uint64) []byte {
		sig, err := crypto.SignTransfer(key, crypto.Transfer{
			ChainID: chain,
			Asset:   asset,
			From:    holder.Address(),
			To:      recipient,
			Amount:  big.NewInt(amount),
			Nonce:   nonce,
		})
		require.NoError(t, err)
		return sig
	}
	transfer := func(amount int64, sig []byte) error {
		_, err := f.execute(relayer, kios, "delegatedTransfer", holder.Address(), recipient, big.NewInt(amount), sig)
		return err
	}

	assert.Equal(t, big.NewInt(0), f.query(kios, "nonceOf", holder.Address()))

	cases := []struct {
		name    string
		amount  int64
		sig     []byte
		wantErr *errors.Error
	}{
		{name: "signed by another key", amount: 100, sig: sign(thief, chainID, kios, 100, 0), wantErr: crypto.ErrInvalidSignature},
		{name: "signed for another asset", amount: 100, sig: sign(holder, chainID, other, 100, 0), wantErr: crypto.ErrInvalidSignature},
		{name: "signed for another chain", amount: 100, sig: sign(holder, big.NewInt(1), kios, 100, 0), wantErr: crypto.ErrInvalidSignature},
		{name: "signed for another amount", amount: 200, sig: sign(holder, chainID, kios, 100, 0), wantErr: crypto.ErrInvalidSignature},
		{name: "signed for a future nonce", amount: 100, sig: sign(holder, chainID, kios, 100, 1), wantErr: crypto.ErrInvalidSignature},
		{name: "malformed", amount: 100, sig: []byte{1, 2, 3}, wantErr: crypto.ErrInvalidSignature},
		{name: "too much", amount: 1001, sig: sign(holder, chainID, kios, 1001, 0), wantErr: ErrInsufficientBalance},
		{name: "valid", amount: 100, sig: sign(holder, chainID, kios, 100, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := transfer(tc.amount, tc.sig); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}

	assert.Equal(t, big.NewInt(1), f.query(kios, "nonceOf", holder.Address()))
	assert.Equal(t, big.NewInt(0), f.query(other, "nonceOf", holder.Address()))
	assert.Equal(t, big.NewInt(900), f.balance(kios, holder.Address()))
	assert.Equal(t, big.NewInt(100), f.balance(kios, recipient))
	assert.Equal(t, big.NewInt(0), f.balance(kios, relayer))

	// Replaying a consumed signature fails.
	err := transfer(100, sign(holder, chainID, kios, 100, 0))
	assert.True(t, crypto.ErrInvalidSignature.Is(err), "%+v", err)

	require.NoError(t, transfer(100, sign(holder, chainID, kios, 100, 1)))
	assert.Equal(t, big.NewInt(2), f.query(kios, "nonceOf", holder.Address()))
	f.assertSupply(kios)
}

func TestDelegatedTransferEd25519(t *testing.T) {
	f := newFixture(t)
	asset := f.mustDeploy("edasset", f.owner)
	holder := custodytest.NewEd25519Key(1)
	recipient := custodytest.SequenceAddr(5)

	// The ed asset has no initial supply; mint and hand out.
	_, err := f.execute(f.owner, asset, "mint", big.NewInt(50))
	require.NoError(t, err)
	_, err = f.execute(f.owner, asset, "transfer", holder.Address(), big.NewInt(50))
	require.NoError(t, err)

	sig, err := crypto.SignTransfer(holder, crypto.Transfer{
		ChainID: chainID,
		Asset:   asset,
		From:    holder.Address(),
		To:      recipient,
		Amount:  big.NewInt(20),
	})
	require.NoError(t, err)
	_, err = f.execute(custodytest.SequenceAddr(6), asset, "delegatedTransfer", holder.Address(), recipient, big.NewInt(20), sig)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(20), f.balance(asset, recipient))

	_, err = f.execute(custodytest.SequenceAddr(6), asset, "delegatedTransfer", holder.Address(), recipient, big.NewInt(20), sig)
	assert.True(t, crypto.ErrInvalidSignature.Is(err), "%+v", err)
}
