package asset

import (
	"math"
	"math/big"

	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
	"github.com/bosagora/custody/orm"
	"github.com/bosagora/custody/x"
	"github.com/bosagora/custody/x/cash"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gogo/protobuf/proto"
)

const (
	// BucketName is where we store the asset instances
	BucketName = "asset"
	// BalanceBucketName is where we store holder balances
	BalanceBucketName = "balance"
	// NonceBucketName is where we store delegated transfer nonces
	NonceBucketName = "nonce"
)

// Asset is the state of a single asset instance.
type Asset struct {
	Owner       []byte `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	FeeAccount  []byte `protobuf:"bytes,2,opt,name=fee_account,json=feeAccount,proto3" json:"fee_account,omitempty"`
	Capped      bool   `protobuf:"varint,3,opt,name=capped,proto3" json:"capped,omitempty"`
	MaxSupply   []byte `protobuf:"bytes,4,opt,name=max_supply,json=maxSupply,proto3" json:"max_supply,omitempty"`
	TotalSupply []byte `protobuf:"bytes,5,opt,name=total_supply,json=totalSupply,proto3" json:"total_supply,omitempty"`
}

func (m *Asset) Reset()         { *m = Asset{} }
func (m *Asset) String() string { return proto.CompactTextString(m) }
func (*Asset) ProtoMessage()    {}

var _ orm.Model = (*Asset)(nil)

// Validate ensures the supply never exceeds the cap.
func (m *Asset) Validate() error {
	var errs error
	if len(m.Owner) != common.AddressLength {
		errs = errors.AppendField(errs, "Owner", errors.ErrInput)
	}
	if len(m.FeeAccount) != 0 && len(m.FeeAccount) != common.AddressLength {
		errs = errors.AppendField(errs, "FeeAccount", errors.ErrInput)
	}
	total, err := x.DecodeAmount(m.TotalSupply)
	if err != nil {
		return errors.AppendField(errs, "TotalSupply", err)
	}
	limit, err := x.DecodeAmount(m.MaxSupply)
	if err != nil {
		return errors.AppendField(errs, "MaxSupply", err)
	}
	if m.Capped && total.Cmp(limit) > 0 {
		errs = errors.AppendField(errs, "TotalSupply", ErrSupplyCapExceeded)
	}
	return errs
}

// OwnerAddress returns the only address allowed to mint.
func (m *Asset) OwnerAddress() common.Address {
	return common.BytesToAddress(m.Owner)
}

// FeeAccountAddress returns the fee account, zero for an uncapped asset.
func (m *Asset) FeeAccountAddress() common.Address {
	return common.BytesToAddress(m.FeeAccount)
}

// Supply returns the total amount minted so far.
func (m *Asset) Supply() *big.Int {
	v, _ := x.DecodeAmount(m.TotalSupply)
	return v
}

// Cap returns the maximum supply. It is zero for an uncapped asset.
func (m *Asset) Cap() *big.Int {
	v, _ := x.DecodeAmount(m.MaxSupply)
	return v
}

// Issue increases the total supply by amount.
func (m *Asset) Issue(amount *big.Int) error {
	total, err := x.AddAmount(m.Supply(), amount)
	if err != nil {
		return err
	}
	if m.Capped && total.Cmp(m.Cap()) > 0 {
		return errors.Wrapf(ErrSupplyCapExceeded, "supply %s, cap %s", total, m.Cap())
	}
	m.TotalSupply = x.EncodeAmount(total)
	return nil
}

// Nonce is the delegated transfer counter of a holder.
type Nonce struct {
	Value uint64 `protobuf:"varint,1,opt,name=value,proto3" json:"value,omitempty"`
}

func (m *Nonce) Reset()         { *m = Nonce{} }
func (m *Nonce) String() string { return proto.CompactTextString(m) }
func (*Nonce) ProtoMessage()    {}

// Validate accepts any counter value.
func (m *Nonce) Validate() error { return nil }

// Bucket is a type-safe wrapper around orm.Bucket storing assets keyed
// by instance address.
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes an asset Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(Asset))),
	}
}

// GetAsset returns the asset deployed at given address.
func (b Bucket) GetAsset(db custody.ReadOnlyKVStore, addr common.Address) (*Asset, error) {
	obj, err := b.Get(db, addr.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "asset %s", addr.Hex())
	}
	a, ok := obj.Value().(*Asset)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return a, nil
}

// Put saves the asset under given address.
func (b Bucket) Put(db custody.KVStore, addr common.Address, a *Asset) error {
	return b.Save(db, orm.NewSimpleObj(addr.Bytes(), a))
}

func holderKey(asset, holder common.Address) []byte {
	key := make([]byte, 0, 2*common.AddressLength)
	key = append(key, asset.Bytes()...)
	return append(key, holder.Bytes()...)
}

// BalanceBucket stores balances keyed by asset and holder address.
type BalanceBucket struct {
	orm.Bucket
}

// NewBalanceBucket initializes a BalanceBucket with default name
func NewBalanceBucket() BalanceBucket {
	return BalanceBucket{
		Bucket: orm.NewBucket(BalanceBucketName, orm.NewSimpleObj(nil, new(cash.Balance))),
	}
}

// Balance returns the amount of asset held by holder.
func (b BalanceBucket) Balance(db custody.ReadOnlyKVStore, asset, holder common.Address) (*big.Int, error) {
	obj, err := b.Get(db, holderKey(asset, holder))
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return new(big.Int), nil
	}
	bal, ok := obj.Value().(*cash.Balance)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return x.DecodeAmount(bal.Amount)
}

// SetBalance stores the balance of holder. A zero balance is removed.
func (b BalanceBucket) SetBalance(db custody.KVStore, asset, holder common.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return b.Delete(db, holderKey(asset, holder))
	}
	return b.Save(db, orm.NewSimpleObj(holderKey(asset, holder), &cash.Balance{Amount: x.EncodeAmount(amount)}))
}

// Holders returns all non zero balances of asset.
func (b BalanceBucket) Holders(db custody.ReadOnlyKVStore, asset common.Address) (map[common.Address]*big.Int, error) {
	objs, err := b.PrefixScan(db, asset.Bytes(), false)
	if err != nil {
		return nil, err
	}
	res := make(map[common.Address]*big.Int, len(objs))
	for _, obj := range objs {
		bal, ok := obj.Value().(*cash.Balance)
		if !ok {
			return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
		}
		amount, err := x.DecodeAmount(bal.Amount)
		if err != nil {
			return nil, err
		}
		res[common.BytesToAddress(obj.Key()[common.AddressLength:])] = amount
	}
	return res, nil
}

// NonceBucket stores the delegated transfer nonces keyed by asset and
// holder address.
type NonceBucket struct {
	orm.Bucket
}

// NewNonceBucket initializes a NonceBucket with default name
func NewNonceBucket() NonceBucket {
	return NonceBucket{
		Bucket: orm.NewBucket(NonceBucketName, orm.NewSimpleObj(nil, new(Nonce))),
	}
}

// Nonce returns the nonce the next delegated transfer of holder must be
// signed with. It starts at zero.
func (b NonceBucket) Nonce(db custody.ReadOnlyKVStore, asset, holder common.Address) (uint64, error) {
	obj, err := b.Get(db, holderKey(asset, holder))
	if err != nil {
		return 0, err
	}
	if obj == nil {
		return 0, nil
	}
	n, ok := obj.Value().(*Nonce)
	if !ok {
		return 0, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return n.Value, nil
}

// Increment advances the nonce of holder by one, provided it still equals
// expected.
func (b NonceBucket) Increment(db custody.KVStore, asset, holder common.Address, expected uint64) error {
	current, err := b.Nonce(db, asset, holder)
	if err != nil {
		return err
	}
	if current != expected {
		return errors.Wrapf(errors.ErrState, "nonce is %d, expected %d", current, expected)
	}
	if current == math.MaxUint64 {
		return errors.Wrap(errors.ErrOverflow, "nonce")
	}
	return b.Save(db, orm.NewSimpleObj(holderKey(asset, holder), &Nonce{Value: current + 1}))
}
