package orm

import (
	"github.com/bosagora/custody/errors"
	"github.com/gogo/protobuf/proto"
)

// Counter is a model used to exercise buckets and indexes.
type Counter struct {
	Count int64  `protobuf:"varint,1,opt,name=count,proto3" json:"count,omitempty"`
	Owner []byte `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner,omitempty"`
}

func (m *Counter) Reset()         { *m = Counter{} }
func (m *Counter) String() string { return proto.CompactTextString(m) }
func (*Counter) ProtoMessage()    {}

func (m *Counter) Validate() error {
	if m.Count < 0 {
		return errors.Field("Count", errors.ErrInput, "negative")
	}
	return nil
}

func newCounter(key string, count int64) *SimpleObj {
	return NewSimpleObj([]byte(key), &Counter{Count: count})
}

// byCount indexes a counter by its value.
func byCount(obj Object) ([]byte, error) {
	c, ok := obj.Value().(*Counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return EncodeSequence(c.Count), nil
}
