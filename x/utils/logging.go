package utils

import (
	"time"

	"github.com/bosagora/custody"
)

// Logging is a decorator to log calls as they pass through
type Logging struct {
	lowPrio bool
}

var _ custody.Decorator = Logging{}

// NewLogging creates a Logging decorator. Errors are logged at error
// level, success at info level.
func NewLogging() Logging {
	return Logging{}
}

// NewQueryLogging creates a Logging decorator for read only calls. Errors
// are logged at info level, success at debug level.
func NewQueryLogging() Logging {
	return Logging{lowPrio: true}
}

// Dispatch logs the call together with its duration and result.
func (l Logging) Dispatch(ctx custody.Context, db custody.KVStore, call custody.Call, next custody.Dispatcher) ([]byte, error) {
	start := time.Now()
	res, err := next.Dispatch(ctx, db, call)
	logDuration(ctx, start, call, err, l.lowPrio)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx custody.Context, start time.Time, call custody.Call, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := custody.GetLogger(ctx).With(
		"duration", delta/time.Microsecond,
		"caller", call.Caller.Hex(),
		"contract", call.Contract.Hex(),
		"depth", custody.GetCallDepth(ctx),
	)

	if err != nil {
		logger = logger.With("err", err)
		if lowPrio {
			logger.Info("call failed")
		} else {
			logger.Error("call failed")
		}
		return
	}
	if lowPrio {
		logger.Debug("call")
	} else {
		logger.Info("call")
	}
}
