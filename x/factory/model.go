package factory

import (
	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
	"github.com/bosagora/custody/orm"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gogo/protobuf/proto"
)

const (
	// BucketName is where we store the instantiation records
	BucketName = "factory"
	// SequenceName counts the wallets of each factory
	SequenceName = "wallets"

	ownerIndex  = "owner"
	walletIndex = "wallet"
)

// Instantiation records a wallet created by a factory.
type Instantiation struct {
	Wallet  []byte   `protobuf:"bytes,1,opt,name=wallet,proto3" json:"wallet,omitempty"`
	Creator []byte   `protobuf:"bytes,2,opt,name=creator,proto3" json:"creator,omitempty"`
	Owners  [][]byte `protobuf:"bytes,3,rep,name=owners,proto3" json:"owners,omitempty"`
}

func (m *Instantiation) Reset()         { *m = Instantiation{} }
func (m *Instantiation) String() string { return proto.CompactTextString(m) }
func (*Instantiation) ProtoMessage()    {}

var _ orm.Model = (*Instantiation)(nil)

// Validate ensures all addresses are well formed.
func (m *Instantiation) Validate() error {
	var errs error
	if len(m.Wallet) != common.AddressLength {
		errs = errors.AppendField(errs, "Wallet", errors.ErrInput)
	}
	if len(m.Creator) != common.AddressLength {
		errs = errors.AppendField(errs, "Creator", errors.ErrInput)
	}
	if len(m.Owners) == 0 {
		errs = errors.AppendField(errs, "Owners", errors.ErrEmpty)
	}
	for i, o := range m.Owners {
		if len(o) != common.AddressLength {
			errs = errors.Append(errs, errors.Field("Owners", errors.ErrInput, "owner %d: invalid address", i))
		}
	}
	return errs
}

// WalletAddress returns the address of the created wallet.
func (m *Instantiation) WalletAddress() common.Address {
	return common.BytesToAddress(m.Wallet)
}

// Bucket stores instantiation records keyed by factory address and
// creation sequence. Owners and wallets are indexed within the scope of
// their factory.
type Bucket struct {
	orm.Bucket
	seq orm.Sequence
}

// NewBucket initializes a factory Bucket with default name
func NewBucket() Bucket {
	b := orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(Instantiation))).
		WithMultiKeyIndex(ownerIndex, ownersIndexer, false).
		WithIndex(walletIndex, walletIndexer, true)
	return Bucket{
		Bucket: b,
		seq:    b.Sequence(SequenceName),
	}
}

// scope returns the factory prefix of a record key.
func scope(obj orm.Object) ([]byte, *Instantiation, error) {
	if obj == nil {
		return nil, nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	inst, ok := obj.Value().(*Instantiation)
	if !ok {
		return nil, nil, errors.Wrapf(errors.ErrHuman, "can only take index of Instantiation, got %T", obj.Value())
	}
	if len(obj.Key()) < common.AddressLength {
		return nil, nil, errors.Wrap(errors.ErrHuman, "invalid record key")
	}
	return obj.Key()[:common.AddressLength], inst, nil
}

func ownersIndexer(obj orm.Object) ([][]byte, error) {
	factory, inst, err := scope(obj)
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, 0, len(inst.Owners))
	for _, o := range inst.Owners {
		keys = append(keys, scopedKey(factory, o))
	}
	return keys, nil
}

func walletIndexer(obj orm.Object) ([]byte, error) {
	factory, inst, err := scope(obj)
	if err != nil {
		return nil, err
	}
	return scopedKey(factory, inst.Wallet), nil
}

func scopedKey(factory, addr []byte) []byte {
	key := make([]byte, 0, len(factory)+len(addr))
	key = append(key, factory...)
	return append(key, addr...)
}

// Create stores a new record for given factory.
func (b Bucket) Create(db custody.KVStore, factory common.Address, inst *Instantiation) error {
	id, err := b.seq.ScopedBy(factory.Bytes()).NextVal(db)
	if err != nil {
		return errors.Wrap(err, "cannot acquire ID")
	}
	return b.Save(db, orm.NewSimpleObj(scopedKey(factory.Bytes(), id), inst))
}

// Count returns how many wallets given factory created.
func (b Bucket) Count(db custody.ReadOnlyKVStore, factory common.Address) (int64, error) {
	return b.seq.ScopedBy(factory.Bytes()).Latest(db)
}

// WalletsOf returns the wallets created by factory with given owner, in
// creation order.
func (b Bucket) WalletsOf(db custody.ReadOnlyKVStore, factory, owner common.Address) ([]common.Address, error) {
	objs, err := b.GetIndexed(db, ownerIndex, scopedKey(factory.Bytes(), owner.Bytes()))
	if err != nil {
		return nil, err
	}
	res := make([]common.Address, 0, len(objs))
	for _, obj := range objs {
		inst, ok := obj.Value().(*Instantiation)
		if !ok {
			return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
		}
		res = append(res, inst.WalletAddress())
	}
	return res, nil
}

// CountOf returns how many wallets created by factory list given owner.
func (b Bucket) CountOf(db custody.ReadOnlyKVStore, factory, owner common.Address) (int, error) {
	return b.CountIndexed(db, ownerIndex, scopedKey(factory.Bytes(), owner.Bytes()))
}

// IsInstantiation returns true if wallet was created by given factory.
func (b Bucket) IsInstantiation(db custody.ReadOnlyKVStore, factory, wallet common.Address) (bool, error) {
	n, err := b.CountIndexed(db, walletIndex, scopedKey(factory.Bytes(), wallet.Bytes()))
	return n > 0, err
}
