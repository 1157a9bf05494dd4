package app

import (
	"reflect"

	"github.com/bosagora/custody"
)

// Decorators holds a chain of decorators, not yet resolved by a Dispatcher
type Decorators struct {
	chain []custody.Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Dispatcher (often a Ledger router),
returns a Dispatcher that will execute this whole stack.

	app.ChainDecorators(
	  utils.NewLogging(),
	  utils.NewRecovery(),
	  utils.NewSavepoint(),
	).WithDispatcher(
	  dispatcher,
	)
*/
func ChainDecorators(chain ...custody.Decorator) Decorators {
	chain = cutoffNil(chain)
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain
func (d Decorators) Chain(chain ...custody.Decorator) Decorators {
	chain = cutoffNil(chain)
	newChain := append(append([]custody.Decorator(nil), d.chain...), chain...)
	return Decorators{newChain}
}

// cutoffNil will in-place remove all all nil values from given slice.
func cutoffNil(ds []custody.Decorator) []custody.Decorator {
	var cutoff int
	for i := 0; i < len(ds); i++ {
		ds[i-cutoff] = ds[i]
		if ds[i] == nil || (reflect.ValueOf(ds[i]).Kind() == reflect.Ptr && reflect.ValueOf(ds[i]).IsNil()) {
			cutoff++
		}
	}
	return ds[:len(ds)-cutoff]
}

// WithDispatcher resolves the stack and returns a concrete Dispatcher
// that will pass through the chain of decorators before calling
// the final Dispatcher.
func (d Decorators) WithDispatcher(h custody.Dispatcher) custody.Dispatcher {
	// start wrapping the dispatcher from last decorator to first one
	// as the top of the chain is understood to be executed first
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

//------------------ internal types to build chain ---------------

// step captures one step executing a decorator around a
// specific Dispatcher. Simplified version of a closure.
//
// Heavily inspired by negroni's design
type step struct {
	d    custody.Decorator
	next custody.Dispatcher
}

var _ custody.Dispatcher = step{}

// Dispatch passes the next dispatcher into the decorator
func (s step) Dispatch(ctx custody.Context, db custody.KVStore, call custody.Call) ([]byte, error) {
	return s.d.Dispatch(ctx, db, call, s.next)
}
