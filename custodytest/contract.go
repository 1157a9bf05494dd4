package custodytest

import (
	"github.com/bosagora/custody"
)

// Contract is a mock implementation of the custody.Contract interface.
//
// Set InitErr or CallErr to force an error response for the corresponding
// method. When Key is set, a successful call writes Value under it, so that
// tests can verify the write is dropped together with a failing caller.
// Each method call is counted, regardless of the result.
type Contract struct {
	initCall int
	InitErr  error

	callCall int
	CallErr  error
	Output   []byte
	// PanicWith, when set, makes Call panic with given value.
	PanicWith interface{}

	Key   []byte
	Value []byte

	// Last is the most recent call received.
	Last custody.Call
}

var _ custody.Contract = (*Contract)(nil)

func (c *Contract) Init(ctx custody.Context, db custody.KVStore, call custody.Call) error {
	c.initCall++
	return c.InitErr
}

func (c *Contract) Call(ctx custody.Context, db custody.KVStore, call custody.Call) ([]byte, error) {
	c.callCall++
	c.Last = call
	if c.PanicWith != nil {
		panic(c.PanicWith)
	}
	if c.Key != nil {
		if err := db.Set(c.Key, c.Value); err != nil {
			return nil, err
		}
	}
	custody.Emit(ctx, call.Contract, "Called")
	if c.CallErr != nil {
		return nil, c.CallErr
	}
	return c.Output, nil
}

func (c *Contract) InitCallCount() int {
	return c.initCall
}

func (c *Contract) CallCount() int {
	return c.callCall
}
