package std

import (
	"encoding/json"
	"math/big"

	"github.com/bosagora/custody"
	"github.com/bosagora/custody/app"
	"github.com/bosagora/custody/errors"
	"github.com/bosagora/custody/x/cash"
	"github.com/bosagora/custody/x/wallet"
	"github.com/ethereum/go-ethereum/common"
)

// DevGenesis produces a genesis for development setups: every funded
// address receives amount native units and wallets are limited to the
// default number of owners.
func DevGenesis(chainID string, amount *big.Int, funded ...common.Address) (app.Genesis, error) {
	if _, err := app.ParseChainID(chainID); err != nil {
		return app.Genesis{}, err
	}
	accts := make([]cash.GenesisAccount, 0, len(funded))
	for _, a := range funded {
		accts = append(accts, cash.GenesisAccount{Address: a, Amount: amount.String()})
	}
	rawCash, err := json.Marshal(accts)
	if err != nil {
		return app.Genesis{}, errors.Wrapf(errors.ErrInput, "cash genesis: %s", err)
	}
	rawConf, err := json.Marshal(map[string]interface{}{
		wallet.ConfigPkg: wallet.Configuration{MaxOwners: wallet.DefaultMaxOwners},
	})
	if err != nil {
		return app.Genesis{}, errors.Wrapf(errors.ErrInput, "conf genesis: %s", err)
	}
	return app.Genesis{
		ChainID: chainID,
		AppState: custody.Options{
			"cash": rawCash,
			"conf": rawConf,
		},
	}, nil
}
