package utils

import (
	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
)

// Recovery is a decorator to recover from panics in contract code,
// so we can log them as errors
type Recovery struct{}

var _ custody.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Dispatch turns panics into normal errors
func (Recovery) Dispatch(ctx custody.Context, db custody.KVStore, call custody.Call, next custody.Dispatcher) (_ []byte, err error) {
	defer errors.Recover(&err)
	return next.Dispatch(ctx, db, call)
}
