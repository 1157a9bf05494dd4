package asset

import (
	"github.com/bosagora/custody/errors"
)

// Asset reserves 500~519 error codes
var (
	ErrSupplyCapExceeded   = errors.Register(500, "supply cap exceeded")
	ErrInsufficientBalance = errors.Register(501, "insufficient balance")
)
