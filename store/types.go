package store

import "github.com/bosagora/custody"

// Storage types are aliased here so that store implementations can use
// short names.

type (
	ReadOnlyKVStore  = custody.ReadOnlyKVStore
	SetDeleter       = custody.SetDeleter
	KVStore          = custody.KVStore
	Batch            = custody.Batch
	Iterator         = custody.Iterator
	CacheableKVStore = custody.CacheableKVStore
	KVCacheWrap      = custody.KVCacheWrap
	CommitKVStore    = custody.CommitKVStore
	CommitID         = custody.CommitID
	Model            = custody.Model
)

// Pair builds a Model from a key and a value.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}
