package orm

import (
	"bytes"
	"testing"

	"github.com/bosagora/custody/custodytest/assert"
	"github.com/bosagora/custody/errors"
	"github.com/bosagora/custody/store"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("wallet", "id")

	latest, err := s.Latest(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), latest)

	first, err := s.NextVal(db)
	assert.Nil(t, err)
	second, err := s.NextVal(db)
	assert.Nil(t, err)
	if bytes.Compare(first, second) >= 0 {
		t.Fatalf("sequence must grow: %X >= %X", first, second)
	}

	n, err := s.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(3), n)

	// scoped sequences are independent
	scoped := s.ScopedBy([]byte("instance"))
	n, err = scoped.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), n)
	latest, err = s.Latest(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(3), latest)
}

func TestDecodeSequence(t *testing.T) {
	v, err := DecodeSequence(EncodeSequence(42))
	assert.Nil(t, err)
	assert.Equal(t, int64(42), v)

	_, err = DecodeSequence([]byte{1, 2})
	assert.IsErr(t, errors.ErrInput, err)
}
