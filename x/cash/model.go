package cash

import (
	"math/big"

	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
	"github.com/bosagora/custody/orm"
	"github.com/bosagora/custody/x"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gogo/protobuf/proto"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Balance is the stored value of an account, a big endian unsigned
// integer.
type Balance struct {
	Amount []byte `protobuf:"bytes,1,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *Balance) Reset()         { *m = Balance{} }
func (m *Balance) String() string { return proto.CompactTextString(m) }
func (*Balance) ProtoMessage()    {}

// Validate ensures the amount fits into 256 bits.
func (m *Balance) Validate() error {
	if _, err := x.DecodeAmount(m.Amount); err != nil {
		return errors.Field("Amount", err, "invalid balance")
	}
	return nil
}

//--- Account (Balance object, address + balance)

// Account is the actual object that we want to pass around
// in our code. It is connected to the Bucket to easily manipulate
// state.
//
// Account is a type-safe wrapper around orm.SimpleObj
type Account struct {
	key   []byte
	value *Balance
}

var _ orm.Object = (*Account)(nil)

// NewAccount creates an empty account with this address
func NewAccount(addr common.Address) *Account {
	return &Account{key: addr.Bytes(), value: new(Balance)}
}

// Value gets the value stored in the object
func (a Account) Value() orm.Model {
	return a.value
}

// Key returns the key to store the object under
func (a Account) Key() []byte {
	return a.key
}

// Address returns the owner of the account.
func (a Account) Address() common.Address {
	return common.BytesToAddress(a.key)
}

// Validate makes sure the fields aren't empty.
// And delegates to the value validator if present
func (a Account) Validate() error {
	if len(a.key) != common.AddressLength {
		return errors.Field("Key", errors.ErrInput, "invalid account address")
	}
	return a.value.Validate()
}

// SetKey may be used to update a simple obj key
func (a *Account) SetKey(key []byte) {
	a.key = key
}

// Clone will make a copy of this object
func (a *Account) Clone() orm.Object {
	res := &Account{
		value: &Balance{Amount: append([]byte(nil), a.value.Amount...)},
	}
	// only copy key if non-nil
	if len(a.key) > 0 {
		res.key = append([]byte(nil), a.key...)
	}
	return res
}

// Amount returns the balance of the account.
func (a Account) Amount() *big.Int {
	amount, err := x.DecodeAmount(a.value.Amount)
	if err != nil {
		// Only valid accounts are ever loaded from the store.
		panic(err)
	}
	return amount
}

// Add modifies the account to add given amount.
func (a *Account) Add(amount *big.Int) error {
	sum, err := x.AddAmount(a.Amount(), amount)
	if err != nil {
		return err
	}
	a.value.Amount = x.EncodeAmount(sum)
	return nil
}

// Subtract modifies the account to remove given amount.
func (a *Account) Subtract(amount *big.Int) error {
	have := a.Amount()
	if have.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientFunds, "have %s, need %s", have, amount)
	}
	diff, err := x.SubAmount(have, amount)
	if err != nil {
		return err
	}
	a.value.Amount = x.EncodeAmount(diff)
	return nil
}

//--- cash.Bucket - type-safe bucket

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewAccount(common.Address{})),
	}
}

// Get returns the account of given address or nil if it holds nothing.
func (b Bucket) Get(db custody.ReadOnlyKVStore, addr common.Address) (*Account, error) {
	obj, err := b.Bucket.Get(db, addr.Bytes())
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	acc, ok := obj.(*Account)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj)
	}
	return acc, nil
}

// Save persists given account.
func (b Bucket) Save(db custody.KVStore, acc *Account) error {
	return b.Bucket.Save(db, acc)
}

// GetOrCreate returns the account of given address, or a new empty one if
// none was stored yet.
func (b Bucket) GetOrCreate(db custody.ReadOnlyKVStore, addr common.Address) (*Account, error) {
	acc, err := b.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		acc = NewAccount(addr)
	}
	return acc, nil
}
