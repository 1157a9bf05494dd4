/*
Package std wires the standard contract kinds into a ledger.

It is a good place to see how the components fit together: the router
with the wallet, factory and asset kinds, the genesis initializers and
the commit store selected by configuration.
*/
package std

import (
	"math/big"
	"path/filepath"
	"strings"

	"github.com/bosagora/custody"
	"github.com/bosagora/custody/app"
	"github.com/bosagora/custody/errors"
	"github.com/bosagora/custody/store/iavl"
	"github.com/bosagora/custody/x/asset"
	"github.com/bosagora/custody/x/cash"
	"github.com/bosagora/custody/x/factory"
	"github.com/bosagora/custody/x/wallet"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
)

// KIOS mints its whole supply to the owner at construction.
var KIOS = asset.Params{
	Name:          "KIOS",
	Symbol:        "KIOS",
	Decimals:      18,
	InitialSupply: new(big.Int).Exp(big.NewInt(10), big.NewInt(28), nil),
}

// LYT is minted by its owner up to the maximum supply given at
// construction.
var LYT = asset.Params{
	Name:     "LYT",
	Symbol:   "LYT",
	Decimals: 18,
	Capped:   true,
}

// Router returns a router with all standard kinds registered.
func Router() *app.Router {
	r := app.NewRouter()
	r.Register(wallet.Kind, wallet.NewContract())
	r.Register(factory.Kind, factory.NewContract())
	r.Register(asset.Kind, asset.NewContract(KIOS))
	r.Register(asset.CappedKind, asset.NewContract(LYT))
	return r
}

// Initializers loads the genesis state of all standard kinds.
func Initializers() custody.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		wallet.Initializer{},
	)
}

// Application returns a ledger serving the standard kinds on the store
// described by cfg. Metrics are registered with reg unless it is nil.
func Application(cfg app.Config, logger log.Logger, reg prometheus.Registerer) (*app.Ledger, error) {
	kv, err := CommitKVStore(cfg.DataDir, cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	opts := []app.Option{
		app.WithChainID(cfg.ChainIDValue()),
		app.WithLogger(logger.With("module", "custody", "version", custody.Version())),
	}
	if cfg.MaxCallDepth > 0 {
		opts = append(opts, app.WithMaxCallDepth(cfg.MaxCallDepth))
	}
	if reg != nil {
		opts = append(opts, app.WithMetrics(app.NewMetrics(reg)))
	}
	return app.NewLedger(kv, Router(), opts...)
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string, cacheSize int) (custody.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name, cacheSize)
}
