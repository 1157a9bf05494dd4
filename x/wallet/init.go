package wallet

import (
	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
	"github.com/bosagora/custody/gconf"
)

// Initializer fulfils the Initializer interface to load the wallet
// configuration from the genesis file
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis stores the "conf.wallet" section of the genesis file. Without
// one the defaults apply.
func (Initializer) FromGenesis(ctx custody.Context, opts custody.Options, db custody.KVStore) error {
	var conf Configuration
	err := gconf.InitConfig(db, opts, ConfigPkg, &conf)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil
	case err != nil:
		return err
	}
	custody.GetLogger(ctx).Debug("wallet configuration loaded", "max_owners", conf.MaxOwners)
	return nil
}
