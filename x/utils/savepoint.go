package utils

import (
	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
)

// Savepoint will isolate all data inside of the call,
// and commit/rollback to savepoint based on if error
type Savepoint struct{}

var _ custody.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// Dispatch runs the rest of the chain in a savepoint.
func (Savepoint) Dispatch(ctx custody.Context, db custody.KVStore, call custody.Call, next custody.Dispatcher) ([]byte, error) {
	return InSavepoint(ctx, db, func(db custody.KVStore) ([]byte, error) {
		return next.Dispatch(ctx, db, call)
	})
}

// InSavepoint runs fn on a cache wrap of db. Writes done by fn and events
// it emitted to the context event log are kept only if fn succeeds.
func InSavepoint(ctx custody.Context, db custody.KVStore, fn func(custody.KVStore) ([]byte, error)) ([]byte, error) {
	cstore, ok := db.(custody.CacheableKVStore)
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "store %T cannot be cache wrapped", db)
	}

	events, hasEvents := custody.GetEvents(ctx)
	var mark int
	if hasEvents {
		mark = events.Mark()
	}
	rollback := func() {
		if hasEvents {
			events.Rollback(mark)
		}
	}

	cache := cstore.CacheWrap()
	res, err := fn(cache)
	if err != nil {
		cache.Discard()
		rollback()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		rollback()
		return nil, errors.Wrap(err, "writing savepoint")
	}
	return res, nil
}
