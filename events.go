package custody

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Event is a signal emitted by an instance for consumption by external
// indexers. Events emitted by a call that fails are dropped together with
// the state changes of that call.
type Event struct {
	// Contract is the address of the instance that emitted the event.
	Contract   common.Address
	Name       string
	Attributes []Attribute
}

// Attribute is a single key value pair of an event.
type Attribute struct {
	Key   string
	Value string
}

// Attr returns the value of the first attribute with given key.
func (e Event) Attr(key string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func (e Event) String() string {
	return fmt.Sprintf("%s@%s%v", e.Name, e.Contract.Hex(), e.Attributes)
}

// EventLog collects the events of a single top level call. Marks allow
// dropping everything emitted after a savepoint.
type EventLog struct {
	mu     sync.Mutex
	events []Event
}

// Emit appends an event to the log.
func (l *EventLog) Emit(e Event) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

// Mark returns a position that Rollback can later return to.
func (l *EventLog) Mark() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Rollback drops all events emitted after given mark.
func (l *EventLog) Rollback(mark int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if mark < len(l.events) {
		l.events = l.events[:mark]
	}
}

// Events returns a copy of all collected events, in emission order.
func (l *EventLog) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

// Emit appends an event to the event log of the context. keyvals are
// alternating keys and values, values are formatted with FormatValue.
// Without an event log in the context this is a no-op.
func Emit(ctx Context, contract common.Address, name string, keyvals ...interface{}) {
	l, ok := GetEvents(ctx)
	if !ok {
		return
	}
	if len(keyvals)%2 != 0 {
		panic("odd number of event key values")
	}
	attrs := make([]Attribute, 0, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		attrs = append(attrs, Attribute{
			Key:   fmt.Sprint(keyvals[i]),
			Value: FormatValue(keyvals[i+1]),
		})
	}
	l.Emit(Event{Contract: contract, Name: name, Attributes: attrs})
}

// FormatValue returns the canonical event representation of a value.
// Addresses are checksummed hex, integers are decimal.
func FormatValue(v interface{}) string {
	switch v := v.(type) {
	case common.Address:
		return v.Hex()
	case *big.Int:
		if v == nil {
			return "0"
		}
		return v.String()
	case []byte:
		return common.Bytes2Hex(v)
	default:
		return fmt.Sprint(v)
	}
}

// FindEvent returns the first event with given name.
func FindEvent(events []Event, name string) (Event, bool) {
	for _, e := range events {
		if e.Name == name {
			return e, true
		}
	}
	return Event{}, false
}
