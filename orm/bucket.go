/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* It has a primary index (which may be composite),
and may possess secondary indexes.
* Easy queries for one and iteration.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
	"github.com/gogo/protobuf/proto"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// Bucket is a prefixed subspace of the DB that holds objects of a
// single type, as well as references to secondary indexes and sequences.
//
// This is a generic building block that should generally
// be embedded in a type-safe wrapper to ensure all data
// is the same type.
type Bucket struct {
	name    string
	prefix  []byte
	proto   Cloneable
	indexes map[string]Index
}

// NewBucket creates a bucket to store data
func NewBucket(name string, proto Cloneable) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

// Name returns the name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get one element, nil if not found.
func (b Bucket) Get(db custody.ReadOnlyKVStore, key []byte) (Object, error) {
	bz, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, nil
	}
	return b.Parse(key, bz)
}

// Has returns true if an element is stored under given key.
func (b Bucket) Has(db custody.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Parse takes a key and value data and reconstructs the data this
// Bucket would return.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := proto.Unmarshal(value, obj.Value()); err != nil {
		return nil, errors.Wrapf(errors.ErrState, "unmarshal %s: %s", b.name, err)
	}
	obj.SetKey(key)
	return obj, nil
}

// Save will write a model, it must be of the same type as proto
func (b Bucket) Save(db custody.KVStore, model Object) error {
	if err := model.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	bz, err := proto.Marshal(model.Value())
	if err != nil {
		return errors.Wrapf(errors.ErrState, "marshal %s: %s", b.name, err)
	}
	if err := b.updateIndexes(db, model.Key(), model); err != nil {
		return err
	}
	return db.Set(b.DBKey(model.Key()), bz)
}

// Delete will remove the value at a key
func (b Bucket) Delete(db custody.KVStore, key []byte) error {
	if err := b.updateIndexes(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

func (b Bucket) updateIndexes(db custody.KVStore, key []byte, model Object) error {
	if len(b.indexes) == 0 {
		return nil
	}
	prev, err := b.Get(db, key)
	if err != nil {
		return err
	}
	if prev == nil && model == nil {
		return nil
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, prev, model); err != nil {
			return err
		}
	}
	return nil
}

// PrefixScan returns all objects whose key starts with prefix, in key
// order. Use it only where the result is known to be small.
func (b Bucket) PrefixScan(db custody.ReadOnlyKVStore, prefix []byte, reverse bool) ([]Object, error) {
	start, end := prefixRange(b.DBKey(prefix))
	var (
		it  custody.Iterator
		err error
	)
	if reverse {
		it, err = db.ReverseIterator(start, end)
	} else {
		it, err = db.Iterator(start, end)
	}
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []Object
	for {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		obj, err := b.Parse(k[len(b.prefix):], v)
		if err != nil {
			return nil, err
		}
		res = append(res, obj)
	}
}

// Sequence returns a Sequence by name
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// WithIndex returns a copy of this bucket with given index,
// panics if it an index with that name is already registered.
//
// Designed to be chained.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	return b.WithMultiKeyIndex(name, asMultiKeyIndexer(indexer), unique)
}

// WithMultiKeyIndex returns a copy of this bucket with an index that may
// store a single object under many keys.
func (b Bucket) WithMultiKeyIndex(name string, indexer MultiKeyIndexer, unique bool) Bucket {
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("Index %s registered twice", name))
	}

	iname := b.name + "_" + name
	add := NewMultiKeyIndex(iname, indexer, unique)
	indexes := make(map[string]Index, len(b.indexes)+1)
	for n, i := range b.indexes {
		indexes[n] = i
	}
	indexes[name] = add
	b.indexes = indexes
	return b
}

// GetIndexed queries the named index for the given key
func (b Bucket) GetIndexed(db custody.ReadOnlyKVStore, name string, key []byte) ([]Object, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return nil, errors.Wrap(ErrInvalidIndex, name)
	}
	refs, err := idx.Refs(db, key)
	if err != nil {
		return nil, err
	}
	return b.readRefs(db, refs)
}

// CountIndexed returns how many objects are stored under given index key.
func (b Bucket) CountIndexed(db custody.ReadOnlyKVStore, name string, key []byte) (int, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return 0, errors.Wrap(ErrInvalidIndex, name)
	}
	refs, err := idx.Refs(db, key)
	return len(refs), err
}

func (b Bucket) readRefs(db custody.ReadOnlyKVStore, refs [][]byte) ([]Object, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	objs := make([]Object, len(refs))
	for i, key := range refs {
		obj, err := b.Get(db, key)
		if err != nil {
			return nil, err
		}
		if obj == nil {
			return nil, errors.Wrapf(errors.ErrState, "dangling index reference %X", key)
		}
		objs[i] = obj
	}
	return objs, nil
}

// prefixRange turns a prefix into (start, end) to create
// and iterator
func prefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed?....
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}
