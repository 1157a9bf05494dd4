package app

import (
	"encoding/json"
	"math/big"
	"os"

	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
)

// Genesis file format
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState custody.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "loading genesis file: %s", err)
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "unmarshaling genesis file: %s", err)
	}
	return gen, nil
}

// ParseChainID reads a decimal chain id. Only positive values are valid.
func ParseChainID(s string) (*big.Int, error) {
	id, ok := new(big.Int).SetString(s, 10)
	if !ok || id.Sign() <= 0 {
		return nil, errors.Wrapf(errors.ErrInput, "chain id %q", s)
	}
	return id, nil
}

//------ init state -----

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...custody.Initializer) custody.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []custody.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(ctx custody.Context, opts custody.Options, db custody.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(ctx, opts, db); err != nil {
			return err
		}
	}
	return nil
}

//------- storing chainID ---------

// _cu: is a prefix for host internal data
const chainIDKey = "_cu:chainID"

// getter is satisfied by both committed and cache wrapped stores.
type getter interface {
	Get(key []byte) ([]byte, error)
}

// loadChainID returns the chain id stored if any
func loadChainID(db getter) (*big.Int, error) {
	v, err := db.Get([]byte(chainIDKey))
	if err != nil {
		return nil, errors.Wrap(err, "load chain id")
	}
	if v == nil {
		return nil, nil
	}
	return ParseChainID(string(v))
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set
func saveChainID(db custody.KVStore, chainID *big.Int) error {
	k := []byte(chainIDKey)
	exists, err := db.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	if err := db.Set(k, []byte(chainID.String())); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
