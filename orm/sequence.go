package orm

import (
	"encoding/binary"

	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
)

// Sequence maintains a counter, and generates a
// series of keys. Each key is greater than the last,
// both NextInt() as well as bytes.Compare() on NextVal().
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using following pattern
// to construct a key:
//    _s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	return Sequence{
		id: []byte("_s." + bucket + ":" + name),
	}
}

// ScopedBy returns a sequence that is private to given scope, for
// example a per instance counter.
func (s Sequence) ScopedBy(scope []byte) Sequence {
	id := make([]byte, 0, len(s.id)+1+len(scope))
	id = append(id, s.id...)
	id = append(id, '/')
	id = append(id, scope...)
	return Sequence{id: id}
}

// NextVal increments the sequence and returns its state as 8 bytes.
func (s Sequence) NextVal(db custody.KVStore) ([]byte, error) {
	_, bz, err := s.increment(db, 1)
	return bz, err
}

// NextInt increments the sequence and returns its state as int.
func (s Sequence) NextInt(db custody.KVStore) (int64, error) {
	val, _, err := s.increment(db, 1)
	return val, err
}

// Latest returns the recently returned value of the sequence, zero if
// nothing was ever returned. It does not modify the sequence state.
func (s Sequence) Latest(db custody.ReadOnlyKVStore) (int64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, err
	}
	return DecodeSequence(raw)
}

func (s Sequence) increment(db custody.KVStore, inc int64) (int64, []byte, error) {
	val, err := s.Latest(db)
	if err != nil {
		return 0, nil, err
	}
	val += inc
	if val < 0 {
		return 0, nil, errors.Wrap(errors.ErrOverflow, "sequence")
	}
	raw := EncodeSequence(val)
	if err := db.Set(s.id, raw); err != nil {
		return 0, nil, err
	}
	return val, raw, nil
}

// DecodeSequence returns the value of an 8 byte sequence. Missing data
// decodes to zero.
func DecodeSequence(bz []byte) (int64, error) {
	if bz == nil {
		return 0, nil
	}
	if len(bz) != 8 {
		return 0, errors.Wrap(errors.ErrInput, "sequence is invalid length (expect 8 bytes)")
	}
	return int64(binary.BigEndian.Uint64(bz)), nil
}

// EncodeSequence returns the big endian form of val.
func EncodeSequence(val int64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(val))
	return bz
}
