package app

import (
	"github.com/bosagora/custody"
	"github.com/ethereum/go-ethereum/common"
)

// Receipt is the result of a successful mutation.
type Receipt struct {
	// Contract is the address of the deployed instance. Set by Deploy
	// only.
	Contract common.Address
	// Output is the ABI encoded return value of the call.
	Output []byte
	// Events are all events emitted by the call and its nested calls
	// that were not rolled back, in emission order.
	Events []custody.Event
	// Version of the store that contains the result.
	Version int64
}

// Event returns the first event with given name emitted by contract.
func (r *Receipt) Event(contract common.Address, name string) (custody.Event, bool) {
	for _, e := range r.Events {
		if e.Name == name && e.Contract == contract {
			return e, true
		}
	}
	return custody.Event{}, false
}
