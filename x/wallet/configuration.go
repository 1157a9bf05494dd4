package wallet

import (
	"github.com/bosagora/custody/errors"
	"github.com/bosagora/custody/gconf"
	"github.com/gogo/protobuf/proto"
)

const (
	// ConfigPkg is the gconf key of the wallet configuration.
	ConfigPkg = "wallet"

	// DefaultMaxOwners applies while no configuration was stored.
	DefaultMaxOwners = 50
)

// Configuration limits the wallets deployed on a ledger.
type Configuration struct {
	MaxOwners uint32 `protobuf:"varint,1,opt,name=max_owners,json=maxOwners,proto3" json:"max_owners,omitempty"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

// Validate ensures at least one owner is allowed.
func (m *Configuration) Validate() error {
	if m.MaxOwners == 0 {
		return errors.Field("MaxOwners", errors.ErrInput, "must allow at least one owner")
	}
	return nil
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	conf := Configuration{MaxOwners: DefaultMaxOwners}
	if err := gconf.LoadOr(db, ConfigPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
