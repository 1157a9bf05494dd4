package wallet

import (
	"github.com/bosagora/custody/errors"
)

// Wallet reserves 300~319 error codes
var (
	ErrNotAnOwner         = errors.Register(300, "not an owner")
	ErrUnknownAction      = errors.Register(301, "unknown action")
	ErrAlreadyConfirmed   = errors.Register(302, "already confirmed")
	ErrAlreadyExecuted    = errors.Register(303, "already executed")
	ErrNotConfirmed       = errors.Register(304, "not confirmed")
	ErrDuplicateOwner     = errors.Register(305, "duplicate owner")
	ErrInvalidRequirement = errors.Register(306, "invalid requirement")
	ErrTooManyOwners      = errors.Register(307, "too many owners")
)
