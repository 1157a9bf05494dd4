package iavl

import (
	"github.com/bosagora/custody/errors"
	"github.com/bosagora/custody/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// DefaultCacheSize is the number of tree nodes kept in memory.
const DefaultCacheSize = 10000

// CommitStore manages a iavl committed state
type CommitStore struct {
	db         dbm.DB
	tree       *iavl.MutableTree
	numHistory int64
}

var _ store.CommitKVStore = CommitStore{}

// NewCommitStore creates a new store with a goleveldb backing stored in
// dir/name.db.
func NewCommitStore(dir, name string, cacheSize int) (CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return CommitStore{}, errors.Wrapf(errors.ErrDatabase, "open %s/%s: %s", dir, name, err)
	}
	return newCommitStore(db, cacheSize), nil
}

// NewMemCommitStore creates a store kept in memory only. Committed
// versions are lost when the process exits.
func NewMemCommitStore() CommitStore {
	return newCommitStore(dbm.NewMemDB(), DefaultCacheSize)
}

func newCommitStore(db dbm.DB, cacheSize int) CommitStore {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return CommitStore{
		db:   db,
		tree: iavl.NewMutableTree(db, cacheSize),
		// keep all versions
		numHistory: 0,
	}
}

// WithHistory returns a store that prunes all but the last n versions on
// commit. Zero keeps everything.
func (s CommitStore) WithHistory(n int64) CommitStore {
	s.numHistory = n
	return s
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist. Panics on nil key.
func (s CommitStore) Get(key []byte) ([]byte, error) {
	version := s.tree.Version()
	if version == 0 {
		return nil, nil
	}
	_, val := s.tree.GetVersioned(key, version)
	return val, nil
}

// Commit saves the working tree as the next version.
func (s CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}

	if s.numHistory > 0 && version > s.numHistory {
		if err := s.tree.DeleteVersion(version - s.numHistory); err != nil {
			return store.CommitID{}, errors.Wrapf(errors.ErrDatabase, "prune version %d: %s", version-s.numHistory, err)
		}
	}

	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// CacheWrap returns a cache over the working tree. Writing the cache
// updates the working tree, Commit persists it.
func (s CommitStore) CacheWrap() store.KVCacheWrap {
	return s.Adapter().CacheWrap()
}

// Adapter returns a KVStore view of the working tree. Writes are visible
// immediately and persisted with the next Commit.
func (s CommitStore) Adapter() store.CacheableKVStore {
	return adapter{tree: s.tree}
}

// Close releases the backing database.
func (s CommitStore) Close() {
	s.db.Close()
}

// adapter exposes the working tree as a KVStore.
type adapter struct {
	tree *iavl.MutableTree
}

var _ store.CacheableKVStore = adapter{}

// Get returns nil iff key doesn't exist. Panics on nil key.
func (a adapter) Get(key []byte) ([]byte, error) {
	_, val := a.tree.Get(key)
	return val, nil
}

// Has checks if a key exists. Panics on nil key.
func (a adapter) Has(key []byte) (bool, error) {
	return a.tree.Has(key), nil
}

// Set adds a new value
func (a adapter) Set(key, value []byte) error {
	a.tree.Set(key, value)
	return nil
}

// Delete removes from the tree
func (a adapter) Delete(key []byte) error {
	a.tree.Remove(key)
	return nil
}

// NewBatch returns a batch that can write multiple ops atomically
func (a adapter) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(a)
}

// CacheWrap wraps us once again, with btree
func (a adapter) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(a, a.NewBatch(), nil)
}

// Iterator over a domain of keys in ascending order. End is exclusive.
func (a adapter) Iterator(start, end []byte) (store.Iterator, error) {
	return a.collect(start, end, true), nil
}

// ReverseIterator over a domain of keys in descending order. End is exclusive.
func (a adapter) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return a.collect(start, end, false), nil
}

func (a adapter) collect(start, end []byte, ascending bool) store.Iterator {
	var res []store.Model
	a.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		res = append(res, store.Pair(key, value))
		return false
	})
	return store.NewSliceIterator(res)
}
