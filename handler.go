package custody

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Call is a single invocation of an addressable instance.
type Call struct {
	// Caller is the address the call is made on behalf of. For a call
	// issued by a contract this is the contract address.
	Caller common.Address
	// Contract is the destination of the call.
	Contract common.Address
	// Value is the amount of native units moved from the caller to the
	// destination before the call is dispatched. May be nil.
	Value *big.Int
	// Input is the ABI encoded call: a 4 byte method selector followed by
	// the packed arguments. Empty input is a plain deposit.
	Input []byte
}

// HasValue returns true if this call moves a positive amount of native
// units.
func (c Call) HasValue() bool {
	return c.Value != nil && c.Value.Sign() > 0
}

// Contract is the code behind every addressable instance of a given kind.
// Instances keep all of their state in the store, so a single Contract
// value serves every instance of its kind.
type Contract interface {
	// Init runs once when an instance is deployed at call.Contract.
	// call.Input carries the ABI encoded constructor arguments.
	Init(ctx Context, db KVStore, call Call) error

	// Call dispatches a call to the instance at call.Contract.
	Call(ctx Context, db KVStore, call Call) ([]byte, error)
}

// Describer is implemented by contracts that can name the method a call
// payload selects. The name is used for logging and metrics only.
type Describer interface {
	Method(input []byte) string
}

// Dispatcher performs a call against given store.
type Dispatcher interface {
	Dispatch(ctx Context, db KVStore, call Call) ([]byte, error)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx Context, db KVStore, call Call) ([]byte, error)

// Dispatch calls fn.
func (fn DispatcherFunc) Dispatch(ctx Context, db KVStore, call Call) ([]byte, error) {
	return fn(ctx, db, call)
}

// Decorator wraps a Dispatcher to provide common functionality
// like logging, recovery or savepoints.
type Decorator interface {
	Dispatch(ctx Context, db KVStore, call Call, next Dispatcher) ([]byte, error)
}

// Host gives contracts access to the rest of the ledger. It is available
// from the context of every call, see GetHost.
type Host interface {
	// Call invokes another instance. The call runs on the given store and
	// its events are appended to the context event log.
	Call(ctx Context, db KVStore, call Call) ([]byte, error)

	// Deploy creates a new instance of the given kind and returns its
	// address.
	Deploy(ctx Context, db KVStore, req Deployment) (common.Address, error)

	// KindOf returns the kind of the instance deployed at given address,
	// or an empty string if the address holds no code.
	KindOf(db ReadOnlyKVStore, addr common.Address) (string, error)
}

// Deployment describes a new instance to be created.
type Deployment struct {
	Kind     string
	Deployer common.Address
	// Salt, when set, makes the instance address a function of the
	// deployer and the salt only. Deploying twice with the same salt fails.
	Salt []byte
	// Args are the ABI encoded constructor arguments.
	Args []byte
}

// Registry is an interface to register contract kinds,
// the setup side of a Router
type Registry interface {
	Register(kind string, c Contract)
}

// Options are the genesis options.
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(ctx Context, opts Options, db KVStore) error
}
