package custody

import (
	"context"
	"math/big"

	"github.com/tendermint/tendermint/libs/log"
)

type contextKey int // local to the custody module

const (
	contextKeyChainID contextKey = iota
	contextKeyLogger
	contextKeyHost
	contextKeyEvents
	contextKeyDepth
)

var (
	// DefaultLogger is used for all context that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()
)

// Context is just an alias for the standard implementation.
// We use functions to extend it to our domain
type Context = context.Context

// WithChainID sets the chain id for the Context.
// panics if called with chain id already set
func WithChainID(ctx Context, chainID *big.Int) Context {
	if ctx.Value(contextKeyChainID) != nil {
		panic("Chain id already set")
	}
	if chainID == nil || chainID.Sign() <= 0 {
		panic("Invalid chain id")
	}
	return context.WithValue(ctx, contextKeyChainID, new(big.Int).Set(chainID))
}

// GetChainID returns the current chain id, or nil if not set. The returned
// value is a copy and may be modified.
func GetChainID(ctx Context) *big.Int {
	val, _ := ctx.Value(contextKeyChainID).(*big.Int)
	if val == nil {
		return nil
	}
	return new(big.Int).Set(val)
}

// WithLogger sets the logger for this Context
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or
// DefaultLogger if none was set
func GetLogger(ctx Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}

// WithHost sets the host that contracts use to reach other instances.
func WithHost(ctx Context, h Host) Context {
	return context.WithValue(ctx, contextKeyHost, h)
}

// GetHost returns the host set for this context.
func GetHost(ctx Context) (Host, bool) {
	h, ok := ctx.Value(contextKeyHost).(Host)
	return h, ok
}

// WithEvents attaches the event log that all calls made with this context
// append to.
func WithEvents(ctx Context, l *EventLog) Context {
	return context.WithValue(ctx, contextKeyEvents, l)
}

// GetEvents returns the event log attached to the context.
func GetEvents(ctx Context) (*EventLog, bool) {
	l, ok := ctx.Value(contextKeyEvents).(*EventLog)
	return l, ok
}

// WithCallDepth returns a context one call level deeper than given one.
func WithCallDepth(ctx Context) Context {
	return context.WithValue(ctx, contextKeyDepth, GetCallDepth(ctx)+1)
}

// GetCallDepth returns how many nested calls lead to this context. The top
// level call made by an account has depth 1.
func GetCallDepth(ctx Context) int {
	d, _ := ctx.Value(contextKeyDepth).(int)
	return d
}
