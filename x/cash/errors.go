package cash

import (
	"github.com/bosagora/custody/errors"
)

// Cash reserves 600~609 error codes

// ErrInsufficientFunds is returned when a balance is too low to cover a
// transfer.
var ErrInsufficientFunds = errors.Register(600, "insufficient funds")
