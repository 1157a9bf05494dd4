package orm

import (
	"bytes"

	"github.com/bosagora/custody/errors"
	"github.com/gogo/protobuf/proto"
)

// MultiRef is a sorted set of references, used as the value of a non
// unique index entry.
type MultiRef struct {
	Refs [][]byte `protobuf:"bytes,1,rep,name=refs,proto3" json:"refs,omitempty"`
}

var _ Model = (*MultiRef)(nil)

func (m *MultiRef) Reset()         { *m = MultiRef{} }
func (m *MultiRef) String() string { return proto.CompactTextString(m) }
func (*MultiRef) ProtoMessage()    {}

// NewMultiRef creates a MultiRef with any number of initial references
func NewMultiRef(refs ...[]byte) (*MultiRef, error) {
	m := new(MultiRef)
	for _, r := range refs {
		if err := m.Add(r); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// GetRefs returns the references, nil safe.
func (m *MultiRef) GetRefs() [][]byte {
	if m == nil {
		return nil
	}
	return m.Refs
}

// Size returns the number of references.
func (m *MultiRef) Size() int {
	return len(m.GetRefs())
}

// Add inserts this reference in the multiref, sorted by order.
// Returns an error if already there
func (m *MultiRef) Add(ref []byte) error {
	i, found := m.findRef(ref)
	if found {
		return errors.Wrap(errors.ErrDuplicate, "ref already in set")
	}
	if i == len(m.Refs) {
		m.Refs = append(m.Refs, ref)
		return nil
	}
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[i+1:], m.Refs[i:])
	m.Refs[i] = ref
	return nil
}

// Remove removes this reference from the multiref.
// Returns an error if not there
func (m *MultiRef) Remove(ref []byte) error {
	i, found := m.findRef(ref)
	if !found {
		return errors.Wrap(errors.ErrNotFound, "ref not in set")
	}
	m.Refs = append(m.Refs[:i], m.Refs[i+1:]...)
	return nil
}

// returns (index, found) where found is true if
// the ref was in the set, index is where it is
// (or where it should be)
func (m *MultiRef) findRef(ref []byte) (int, bool) {
	for i, r := range m.Refs {
		switch bytes.Compare(ref, r) {
		case -1:
			return i, false
		case 0:
			return i, true
		}
	}
	return len(m.Refs), false
}

// Validate returns an error if empty
func (m *MultiRef) Validate() error {
	if m.Size() == 0 {
		return errors.Wrap(errors.ErrEmpty, "no references")
	}
	return nil
}
