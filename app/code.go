package app

import (
	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
	"github.com/bosagora/custody/orm"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gogo/protobuf/proto"
)

// Code is stored for every deployed instance. Its presence is what makes
// an address a contract.
type Code struct {
	Kind     string `protobuf:"bytes,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Deployer []byte `protobuf:"bytes,2,opt,name=deployer,proto3" json:"deployer,omitempty"`
	Salt     []byte `protobuf:"bytes,3,opt,name=salt,proto3" json:"salt,omitempty"`
}

func (m *Code) Reset()         { *m = Code{} }
func (m *Code) String() string { return proto.CompactTextString(m) }
func (*Code) ProtoMessage()    {}

// Validate ensures the kind and deployer are set.
func (m *Code) Validate() error {
	var errs error
	if !isKind(m.Kind) {
		errs = errors.AppendField(errs, "Kind", errors.ErrInput)
	}
	if len(m.Deployer) != common.AddressLength {
		errs = errors.AppendField(errs, "Deployer", errors.ErrInput)
	}
	return errs
}

// CodeBucket stores the kind of every deployed instance, keyed by
// instance address.
type CodeBucket struct {
	orm.Bucket
	seq orm.Sequence
}

// NewCodeBucket returns a bucket for instance code records.
func NewCodeBucket() CodeBucket {
	b := orm.NewBucket("code", orm.NewSimpleObj(nil, new(Code)))
	return CodeBucket{
		Bucket: b,
		seq:    b.Sequence("deploy"),
	}
}

// GetCode returns the code record of given address or nil.
func (b CodeBucket) GetCode(db custody.ReadOnlyKVStore, addr common.Address) (*Code, error) {
	obj, err := b.Get(db, addr.Bytes())
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	c, ok := obj.Value().(*Code)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return c, nil
}

// Create allocates the address of a new instance and stores its code
// record. The address is a function of the deployer and salt when a salt
// is given, otherwise of a ledger wide deployment counter.
func (b CodeBucket) Create(db custody.KVStore, req custody.Deployment) (common.Address, error) {
	var addr common.Address
	if len(req.Salt) > 0 {
		data := append(req.Deployer.Bytes(), req.Salt...)
		addr = custody.NewCondition("code", "salt", data).Address()
	} else {
		seq, err := b.seq.NextVal(db)
		if err != nil {
			return addr, errors.Wrap(err, "deployment sequence")
		}
		addr = custody.NewCondition("code", "seq", seq).Address()
	}

	switch exists, err := b.Has(db, addr.Bytes()); {
	case err != nil:
		return addr, err
	case exists:
		return addr, errors.Wrapf(errors.ErrDuplicate, "instance %s", addr.Hex())
	}

	code := &Code{Kind: req.Kind, Deployer: req.Deployer.Bytes(), Salt: req.Salt}
	if err := b.Save(db, orm.NewSimpleObj(addr.Bytes(), code)); err != nil {
		return addr, err
	}
	return addr, nil
}
