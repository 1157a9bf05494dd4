package cash

import (
	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
	"github.com/bosagora/custody/x"
	"github.com/ethereum/go-ethereum/common"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file.
// Amount is a decimal string, so that values above 2^53 survive JSON.
type GenesisAccount struct {
	Address common.Address `json:"address"`
	Amount  string         `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(ctx custody.Context, opts custody.Options, db custody.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot read %q genesis: %s", optKey, err)
	}
	ctrl := NewController(NewBucket())
	for i, acct := range accts {
		if err := custody.ValidateAddress(acct.Address); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		amount, err := x.ParseAmount(acct.Amount)
		if err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := ctrl.IssueCoins(db, acct.Address, amount); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	custody.GetLogger(ctx).Debug("cash genesis loaded", "accounts", len(accts))
	return nil
}
