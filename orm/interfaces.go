package orm

import (
	"github.com/bosagora/custody"
	"github.com/gogo/protobuf/proto"
)

// Model is the value stored in a bucket. It is serialized with protobuf
// and must validate itself before it is written.
type Model interface {
	proto.Message
	Validate() error
}

// Object is what is stored in the bucket
// Key is joined with the prefix to set the full key
// Value is the data stored
type Object interface {
	Keyed
	Cloneable
	// Validate returns error if the object is not in a valid
	// state to save to the db (eg. field missing, out of range, ...)
	Validate() error
	Value() Model
}

// Reader defines an interface that allows reading objects from the db
type Reader interface {
	Get(db custody.ReadOnlyKVStore, key []byte) (Object, error)
}

// Keyed is anything that can identify itself
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable will create a new object that can be loaded into
type Cloneable interface {
	Clone() Object
}
