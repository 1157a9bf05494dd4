package crypto

import (
	"github.com/bosagora/custody/errors"
)

// Crypto reserves 200~209 error codes

// ErrInvalidSignature is returned when a signature was not produced by the
// claimed signer over the given digest.
var ErrInvalidSignature = errors.Register(200, "invalid signature")
