package store

import (
	"bytes"

	"github.com/bosagora/custody/errors"
	"github.com/google/btree"
)

// DefaultFreeListSize is the size we hold for free node in btree
const DefaultFreeListSize = btree.DefaultFreeListSize

// BTreeCacheable adds a btree based CacheWrap to any KVStore.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a BTreeCacheWrap that can be later written to this
// store, or discarded.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an in-memory store without any persistence. Writing
// to it is final.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap places a btree cache over a read only view of a store.
// All writes are recorded both in the btree, so that they are visible to
// reads, and in the batch, so that Write can apply them to the parent.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap initializes a btree cache around kv. free may be nil,
// set it to an existing list to share nodes between cache wraps.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap layers another btree on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch that writes into this cache wrap.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all recorded operations to the parent and clears the
// cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all cached data.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
}

// Set writes to the btree and to the batch.
func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(setItem{bkey{key}, value})
	return b.batch.Set(key, value)
}

// Delete marks the key deleted in the btree and records it in the batch.
func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(deletedItem{bkey{key}})
	return b.batch.Delete(key)
}

// Get reads from btree if there, else backing store
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	switch t := b.bt.Get(bkey{key}).(type) {
	case nil:
		return b.back.Get(key)
	case setItem:
		return t.value, nil
	case deletedItem:
		return nil, nil
	default:
		return nil, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", t)
	}
}

// Has reads from btree if there, else backing store
func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	switch t := b.bt.Get(bkey{key}).(type) {
	case nil:
		return b.back.Has(key)
	case setItem:
		return true, nil
	case deletedItem:
		return false, nil
	default:
		return false, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", t)
	}
}

// Iterator over a domain of keys in ascending order. Combines results
// from the btree and the backing store.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	models, err := b.collect(start, end)
	if err != nil {
		return nil, err
	}
	return NewSliceIterator(models), nil
}

// ReverseIterator over a domain of keys in descending order. Combines
// results from the btree and the backing store.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	models, err := b.collect(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return NewSliceIterator(models), nil
}

// collect merges the ascending content of the backing store with the
// cached items in [start, end). Cached items shadow the parent, deleted
// items hide it.
func (b BTreeCacheWrap) collect(start, end []byte) ([]Model, error) {
	parentIter, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	parent, err := ReadAll(parentIter)
	if err != nil {
		return nil, err
	}

	var ours []btree.Item
	ascendRange(b.bt, start, end, func(i btree.Item) bool {
		ours = append(ours, i)
		return true
	})

	res := make([]Model, 0, len(parent)+len(ours))
	var p, o int
	for p < len(parent) || o < len(ours) {
		var cmp int
		switch {
		case p == len(parent):
			cmp = 1
		case o == len(ours):
			cmp = -1
		default:
			cmp = bytes.Compare(parent[p].Key, ours[o].(keyer).Key())
		}

		if cmp < 0 {
			res = append(res, parent[p])
			p++
			continue
		}
		if cmp == 0 {
			p++
		}
		if s, ok := ours[o].(setItem); ok {
			res = append(res, Model{Key: s.key, Value: s.value})
		}
		o++
	}
	return res, nil
}

func ascendRange(bt *btree.BTree, start, end []byte, fn btree.ItemIterator) {
	switch {
	case start == nil && end == nil:
		bt.Ascend(fn)
	case start == nil:
		bt.AscendLessThan(bkey{end}, fn)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, fn)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, fn)
	}
}

// keyer is implemented by all items stored in the btree.
type keyer interface {
	Key() []byte
}

// bkey implements keyer and btree.Item and may be used for queries or
// embedded in data to store.
type bkey struct {
	key []byte
}

var _ btree.Item = bkey{}

func (k bkey) Key() []byte {
	return k.key
}

// Less panics if the item to compare doesn't implement keyer.
func (k bkey) Less(item btree.Item) bool {
	return bytes.Compare(k.key, item.(keyer).Key()) < 0
}

type deletedItem struct {
	bkey
}

type setItem struct {
	bkey
	value []byte
}
