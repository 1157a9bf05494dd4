package gconf

import (
	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
	"github.com/gogo/protobuf/proto"
)

// ReadStore is a subset of custody.ReadOnlyKVStore.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is a subset of custody.KVStore.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// Configuration is a protobuf message that can validate itself.
type Configuration interface {
	proto.Message
	Validate() error
}

func key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save will Validate the object, before writing it to a special "configuration"
// singleton for that package name.
func Save(db Store, pkg string, src Configuration) error {
	k := key(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", k)
	}
	raw, err := proto.Marshal(src)
	if err != nil {
		return errors.Wrapf(errors.ErrState, "marshal: key %q: %s", k, err)
	}
	return db.Set(k, raw)
}

// Load reads the configuration of given package into dst. It fails with
// ErrNotFound when no configuration was saved.
func Load(db ReadStore, pkg string, dst Configuration) error {
	k := key(pkg)
	raw, err := db.Get(k)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "key %q", k)
	}
	if err := proto.Unmarshal(raw, dst); err != nil {
		return errors.Wrapf(errors.ErrState, "unmarshal: key %q: %s", k, err)
	}
	return nil
}

// LoadOr is Load that leaves dst untouched when no configuration was
// saved. Use it for packages that have a working default.
func LoadOr(db ReadStore, pkg string, dst Configuration) error {
	err := Load(db, pkg, dst)
	if errors.ErrNotFound.Is(err) {
		return nil
	}
	return err
}

// InitConfig will take opts["conf"][pkg], parse it into the given Configuration object
// validate it, and store under the proper key in the database
// Returns an error if anything goes wrong
func InitConfig(db Store, opts custody.Options, pkg string, conf Configuration) error {
	var confOptions custody.Options
	if err := opts.ReadOptions("conf", &confOptions); err != nil {
		return errors.Wrap(err, "read conf")
	}
	if confOptions[pkg] == nil {
		return errors.Wrapf(errors.ErrNotFound, "no configuration in genesis for %q package", pkg)
	}
	if err := confOptions.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(errors.ErrInput, "read configuration for %s: %s", pkg, err)
	}
	if err := Save(db, pkg, conf); err != nil {
		return errors.Wrapf(err, "save configuration for %s", pkg)
	}
	return nil
}
