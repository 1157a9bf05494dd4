package app

import (
	"github.com/bosagora/custody/errors"
)

// App reserves 700~709 error codes
var (
	// ErrUnknownKind is returned when deploying a kind that was never
	// registered.
	ErrUnknownKind = errors.Register(700, "unknown contract kind")

	// ErrCallDepth is returned when nested calls exceed the allowed depth.
	ErrCallDepth = errors.Register(701, "call depth exceeded")
)
