package orm

import (
	"bytes"

	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
	"github.com/gogo/protobuf/proto"
)

// Index is a secondary index of a bucket.
type Index interface {
	// Name returns the name of this index.
	Name() string

	// Update updates the index. It should be called when any of the bucket
	// entities has changed in the store.
	//
	// prev == nil means insert
	// save == nil means delete
	// both == nil is error
	// if both != nil and prev.Key() != save.Key() this is an error
	Update(db custody.KVStore, prev Object, save Object) error

	// Refs returns the primary keys of all objects indexed under given
	// value, in ascending key order.
	Refs(db custody.ReadOnlyKVStore, value []byte) ([][]byte, error)
}

const compactIdxPrefix = "_i."

// Indexer calculates the secondary index key for a given object
type Indexer func(Object) ([]byte, error)

// MultiKeyIndexer calculates the secondary index keys for a given object
type MultiKeyIndexer func(Object) ([][]byte, error)

// compactIndex stores all references of an index key as a set,
// serialized under that single key. Use it for small collections only.
//
// The value is one primary key (unique),
// Or a MultiRef of primary keys (!unique).
type compactIndex struct {
	name   string
	id     []byte
	unique bool
	index  MultiKeyIndexer
}

// NewMultiKeyIndex constructs an index with multi key indexer.
// unique enforces a unique constraint on the index
func NewMultiKeyIndex(name string, indexer MultiKeyIndexer, unique bool) Index {
	return compactIndex{
		name:   name,
		id:     append([]byte(compactIdxPrefix), []byte(name+":")...),
		index:  indexer,
		unique: unique,
	}
}

// NewIndex constructs an index with a single key indexer.
func NewIndex(name string, indexer Indexer, unique bool) Index {
	return NewMultiKeyIndex(name, asMultiKeyIndexer(indexer), unique)
}

func asMultiKeyIndexer(indexer Indexer) MultiKeyIndexer {
	return func(obj Object) ([][]byte, error) {
		key, err := indexer(obj)
		switch {
		case err != nil:
			return nil, err
		case key == nil:
			return nil, nil
		}
		return [][]byte{key}, nil
	}
}

func (i compactIndex) Name() string {
	return i.name
}

func (i compactIndex) indexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

// Update moves the references of the object so that they match the
// current index keys.
func (i compactIndex) Update(db custody.KVStore, prev Object, save Object) error {
	switch {
	case prev == nil && save == nil:
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	case prev == nil:
		keys, err := i.index(save)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := i.insert(db, key, save.Key()); err != nil {
				return err
			}
		}
		return nil
	case save == nil:
		keys, err := i.index(prev)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := i.remove(db, key, prev.Key()); err != nil {
				return err
			}
		}
		return nil
	default:
		return i.move(db, prev, save)
	}
}

// Refs returns all primary keys indexed under given value.
func (i compactIndex) Refs(db custody.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	val, err := db.Get(i.indexKey(value))
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	if i.unique {
		return [][]byte{val}, nil
	}
	var data MultiRef
	if err := proto.Unmarshal(val, &data); err != nil {
		return nil, errors.Wrapf(errors.ErrState, "index %s: %s", i.name, err)
	}
	return data.GetRefs(), nil
}

func (i compactIndex) move(db custody.KVStore, prev Object, save Object) error {
	if !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrImmutable, "cannot modify the primary key of an object")
	}

	oldKeys, err := i.index(prev)
	if err != nil {
		return err
	}
	newKeys, err := i.index(save)
	if err != nil {
		return err
	}
	keysToAdd := subtract(newKeys, oldKeys)
	keysToRemove := subtract(oldKeys, newKeys)

	if i.unique {
		for _, newKey := range keysToAdd {
			val, err := db.Get(i.indexKey(newKey))
			if err != nil {
				return err
			}
			if val != nil {
				return errors.Wrap(errors.ErrDuplicate, i.name)
			}
		}
	}

	for _, oldKey := range keysToRemove {
		if err := i.remove(db, oldKey, prev.Key()); err != nil {
			return err
		}
	}
	for _, newKey := range keysToAdd {
		if err := i.insert(db, newKey, prev.Key()); err != nil {
			return err
		}
	}
	return nil
}

// subtract returns all keys of a that are not in b.
func subtract(a, b [][]byte) [][]byte {
	var res [][]byte
outer:
	for _, x := range a {
		for _, y := range b {
			if bytes.Equal(x, y) {
				continue outer
			}
		}
		res = append(res, x)
	}
	return res
}

func (i compactIndex) remove(db custody.KVStore, index []byte, pk []byte) error {
	if len(index) == 0 {
		return nil
	}

	key := i.indexKey(index)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}
	if cur == nil {
		return errors.Wrap(errors.ErrNotFound, "cannot remove index from nothing")
	}
	if i.unique {
		if !bytes.Equal(cur, pk) {
			return errors.Wrap(errors.ErrNotFound, "cannot remove index from invalid object")
		}
		return db.Delete(key)
	}

	var data MultiRef
	if err := proto.Unmarshal(cur, &data); err != nil {
		return errors.Wrapf(errors.ErrState, "index %s: %s", i.name, err)
	}
	if err := data.Remove(pk); err != nil {
		return err
	}
	if data.Size() == 0 {
		return db.Delete(key)
	}
	return i.store(db, key, &data)
}

func (i compactIndex) insert(db custody.KVStore, index []byte, pk []byte) error {
	if len(index) == 0 {
		return nil
	}

	key := i.indexKey(index)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}

	if i.unique {
		if cur != nil {
			return errors.Wrap(errors.ErrDuplicate, i.name)
		}
		return db.Set(key, pk)
	}

	var data MultiRef
	if cur != nil {
		if err := proto.Unmarshal(cur, &data); err != nil {
			return errors.Wrapf(errors.ErrState, "index %s: %s", i.name, err)
		}
	}
	if err := data.Add(pk); err != nil {
		return err
	}
	return i.store(db, key, &data)
}

func (i compactIndex) store(db custody.KVStore, key []byte, data *MultiRef) error {
	raw, err := proto.Marshal(data)
	if err != nil {
		return errors.Wrapf(errors.ErrState, "index %s: %s", i.name, err)
	}
	return db.Set(key, raw)
}
