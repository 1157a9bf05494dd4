package orm

import (
	"testing"

	"github.com/bosagora/custody/custodytest/assert"
	"github.com/bosagora/custody/errors"
	"github.com/bosagora/custody/store"
)

func TestBucketName(t *testing.T) {
	assert.Panics(t, func() {
		NewBucket("l33t", newCounter("", 0))
	})
}

func TestBucketSaveGetDelete(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("counter", newCounter("", 0))

	obj, err := b.Get(db, []byte("missing"))
	assert.Nil(t, err)
	assert.Nil(t, obj)

	assert.Nil(t, b.Save(db, newCounter("a", 7)))
	obj, err = b.Get(db, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("a"), obj.Key())
	assert.Equal(t, int64(7), obj.Value().(*Counter).Count)

	has, err := b.Has(db, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, true, has)

	assert.Nil(t, b.Delete(db, []byte("a")))
	obj, err = b.Get(db, []byte("a"))
	assert.Nil(t, err)
	assert.Nil(t, obj)
}

func TestBucketCannotSaveInvalid(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("counter", newCounter("", 0))

	err := b.Save(db, newCounter("a", -1))
	assert.FieldError(t, err, "Count", errors.ErrInput)

	err = b.Save(db, newCounter("", 1))
	assert.FieldError(t, err, "Key", errors.ErrEmpty)
}

func TestBucketPrefixScan(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("counter", newCounter("", 0))

	for i, k := range []string{"w1/b", "w1/a", "w2/a", "w1/c"} {
		assert.Nil(t, b.Save(db, newCounter(k, int64(i))))
	}

	objs, err := b.PrefixScan(db, []byte("w1/"), false)
	assert.Nil(t, err)
	var keys []string
	for _, o := range objs {
		keys = append(keys, string(o.Key()))
	}
	assert.Equal(t, []string{"w1/a", "w1/b", "w1/c"}, keys)

	objs, err = b.PrefixScan(db, []byte("w1/"), true)
	assert.Nil(t, err)
	assert.Equal(t, []byte("w1/c"), objs[0].Key())
}

func TestBucketIndexes(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("counter", newCounter("", 0)).
		WithIndex("value", byCount, false)

	assert.Nil(t, b.Save(db, newCounter("a", 5)))
	assert.Nil(t, b.Save(db, newCounter("b", 5)))
	assert.Nil(t, b.Save(db, newCounter("c", 9)))

	objs, err := b.GetIndexed(db, "value", EncodeSequence(5))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(objs))
	assert.Equal(t, []byte("a"), objs[0].Key())
	assert.Equal(t, []byte("b"), objs[1].Key())

	// moving a value updates the index
	assert.Nil(t, b.Save(db, newCounter("a", 9)))
	n, err := b.CountIndexed(db, "value", EncodeSequence(5))
	assert.Nil(t, err)
	assert.Equal(t, 1, n)
	n, err = b.CountIndexed(db, "value", EncodeSequence(9))
	assert.Nil(t, err)
	assert.Equal(t, 2, n)

	assert.Nil(t, b.Delete(db, []byte("c")))
	n, err = b.CountIndexed(db, "value", EncodeSequence(9))
	assert.Nil(t, err)
	assert.Equal(t, 1, n)

	_, err = b.GetIndexed(db, "unknown", nil)
	assert.IsErr(t, ErrInvalidIndex, err)
}

func TestBucketUniqueIndex(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("counter", newCounter("", 0)).
		WithIndex("value", byCount, true)

	assert.Nil(t, b.Save(db, newCounter("a", 5)))
	err := b.Save(db, newCounter("b", 5))
	assert.IsErr(t, errors.ErrDuplicate, err)

	assert.Panics(t, func() {
		b.WithIndex("value", byCount, false)
	})
}
