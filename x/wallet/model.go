package wallet

import (
	"bytes"
	"encoding/binary"
	"math/big"

	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
	"github.com/bosagora/custody/orm"
	"github.com/bosagora/custody/x"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gogo/protobuf/proto"
)

const (
	// BucketName is where we store the wallets
	BucketName = "wallet"
	// TransactionBucketName is where we store the submitted actions
	TransactionBucketName = "wallet_tx"
)

// Wallet is the state of a single wallet instance.
type Wallet struct {
	Name             string   `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Description      string   `protobuf:"bytes,2,opt,name=description,proto3" json:"description,omitempty"`
	Owners           [][]byte `protobuf:"bytes,3,rep,name=owners,proto3" json:"owners,omitempty"`
	Required         uint32   `protobuf:"varint,4,opt,name=required,proto3" json:"required,omitempty"`
	TransactionCount uint64   `protobuf:"varint,5,opt,name=transaction_count,json=transactionCount,proto3" json:"transaction_count,omitempty"`
}

func (m *Wallet) Reset()         { *m = Wallet{} }
func (m *Wallet) String() string { return proto.CompactTextString(m) }
func (*Wallet) ProtoMessage()    {}

var _ orm.Model = (*Wallet)(nil)

// Validate ensures the owner list and the requirement are consistent.
func (m *Wallet) Validate() error {
	var errs error
	if len(m.Owners) == 0 {
		errs = errors.AppendField(errs, "Owners", errors.ErrEmpty)
	}
	for i, o := range m.Owners {
		if len(o) != common.AddressLength {
			errs = errors.Append(errs, errors.Field("Owners", errors.ErrInput, "owner %d: invalid address", i))
		}
	}
	if m.Required == 0 || int(m.Required) > len(m.Owners) {
		errs = errors.AppendField(errs, "Required", ErrInvalidRequirement)
	}
	return errs
}

// OwnerAddresses returns the owners in the order they were added.
func (m *Wallet) OwnerAddresses() []common.Address {
	res := make([]common.Address, len(m.Owners))
	for i, o := range m.Owners {
		res[i] = common.BytesToAddress(o)
	}
	return res
}

// IsOwner returns true if given address is a current owner.
func (m *Wallet) IsOwner(addr common.Address) bool {
	return m.ownerIndex(addr) >= 0
}

func (m *Wallet) ownerIndex(addr common.Address) int {
	for i, o := range m.Owners {
		if bytes.Equal(o, addr.Bytes()) {
			return i
		}
	}
	return -1
}

// Transaction is an action submitted to a wallet.
type Transaction struct {
	Title         string   `protobuf:"bytes,1,opt,name=title,proto3" json:"title,omitempty"`
	Description   string   `protobuf:"bytes,2,opt,name=description,proto3" json:"description,omitempty"`
	Destination   []byte   `protobuf:"bytes,3,opt,name=destination,proto3" json:"destination,omitempty"`
	Value         []byte   `protobuf:"bytes,4,opt,name=value,proto3" json:"value,omitempty"`
	Data          []byte   `protobuf:"bytes,5,opt,name=data,proto3" json:"data,omitempty"`
	Executed      bool     `protobuf:"varint,6,opt,name=executed,proto3" json:"executed,omitempty"`
	Confirmations [][]byte `protobuf:"bytes,7,rep,name=confirmations,proto3" json:"confirmations,omitempty"`
}

func (m *Transaction) Reset()         { *m = Transaction{} }
func (m *Transaction) String() string { return proto.CompactTextString(m) }
func (*Transaction) ProtoMessage()    {}

var _ orm.Model = (*Transaction)(nil)

// Validate ensures the destination and the value are well formed.
func (m *Transaction) Validate() error {
	var errs error
	if len(m.Destination) != common.AddressLength {
		errs = errors.AppendField(errs, "Destination", errors.ErrInput)
	} else if common.BytesToAddress(m.Destination) == (common.Address{}) {
		errs = errors.AppendField(errs, "Destination", errors.ErrEmpty)
	}
	if _, err := x.DecodeAmount(m.Value); err != nil {
		errs = errors.AppendField(errs, "Value", err)
	}
	for i, c := range m.Confirmations {
		if len(c) != common.AddressLength {
			errs = errors.Append(errs, errors.Field("Confirmations", errors.ErrInput, "confirmation %d: invalid address", i))
		}
	}
	return errs
}

// DestinationAddress returns the address the action calls.
func (m *Transaction) DestinationAddress() common.Address {
	return common.BytesToAddress(m.Destination)
}

// Amount returns the value the action moves.
func (m *Transaction) Amount() *big.Int {
	v, _ := x.DecodeAmount(m.Value)
	return v
}

// ConfirmedBy returns true if given address confirmed the action.
func (m *Transaction) ConfirmedBy(addr common.Address) bool {
	return m.confirmationIndex(addr) >= 0
}

// Confirmers returns the confirming addresses in confirmation order.
func (m *Transaction) Confirmers() []common.Address {
	res := make([]common.Address, len(m.Confirmations))
	for i, c := range m.Confirmations {
		res[i] = common.BytesToAddress(c)
	}
	return res
}

func (m *Transaction) confirmationIndex(addr common.Address) int {
	for i, c := range m.Confirmations {
		if bytes.Equal(c, addr.Bytes()) {
			return i
		}
	}
	return -1
}

// Bucket is a type-safe wrapper around orm.Bucket storing wallets keyed by
// instance address.
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a wallet Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(Wallet))),
	}
}

// GetWallet returns the wallet deployed at given address.
func (b Bucket) GetWallet(db custody.ReadOnlyKVStore, addr common.Address) (*Wallet, error) {
	obj, err := b.Get(db, addr.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "wallet %s", addr.Hex())
	}
	w, ok := obj.Value().(*Wallet)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return w, nil
}

// Put saves the wallet under given address.
func (b Bucket) Put(db custody.KVStore, addr common.Address, w *Wallet) error {
	return b.Save(db, orm.NewSimpleObj(addr.Bytes(), w))
}

// TransactionBucket stores actions keyed by wallet address and action id.
type TransactionBucket struct {
	orm.Bucket
}

// NewTransactionBucket initializes a TransactionBucket with default name
func NewTransactionBucket() TransactionBucket {
	return TransactionBucket{
		Bucket: orm.NewBucket(TransactionBucketName, orm.NewSimpleObj(nil, new(Transaction))),
	}
}

func transactionKey(wallet common.Address, id uint64) []byte {
	key := make([]byte, common.AddressLength+8)
	copy(key, wallet.Bytes())
	binary.BigEndian.PutUint64(key[common.AddressLength:], id)
	return key
}

// GetTransaction returns the action of given wallet. It fails with
// ErrUnknownAction if none was submitted under id.
func (b TransactionBucket) GetTransaction(db custody.ReadOnlyKVStore, wallet common.Address, id uint64) (*Transaction, error) {
	obj, err := b.Get(db, transactionKey(wallet, id))
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(ErrUnknownAction, "transaction %d", id)
	}
	tx, ok := obj.Value().(*Transaction)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return tx, nil
}

// Put saves the action of given wallet.
func (b TransactionBucket) Put(db custody.KVStore, wallet common.Address, id uint64, tx *Transaction) error {
	return b.Save(db, orm.NewSimpleObj(transactionKey(wallet, id), tx))
}

// Transactions returns all actions of given wallet, ordered by id.
func (b TransactionBucket) Transactions(db custody.ReadOnlyKVStore, wallet common.Address) ([]*Transaction, error) {
	objs, err := b.PrefixScan(db, wallet.Bytes(), false)
	if err != nil {
		return nil, err
	}
	res := make([]*Transaction, 0, len(objs))
	for _, obj := range objs {
		tx, ok := obj.Value().(*Transaction)
		if !ok {
			return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
		}
		res = append(res, tx)
	}
	return res, nil
}
