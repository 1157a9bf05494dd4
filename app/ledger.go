package app

import (
	"math/big"
	"sync"
	"time"

	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
	"github.com/bosagora/custody/x/cash"
	"github.com/bosagora/custody/x/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/tendermint/tendermint/libs/log"
)

// DefaultMaxCallDepth is the call depth limit used unless configured
// otherwise.
const DefaultMaxCallDepth = 64

// Ledger hosts contract instances on top of a committed store.
//
// Callers are trusted: authenticating the account a call is made on
// behalf of happens before a call reaches the ledger.
type Ledger struct {
	mu sync.RWMutex

	store    custody.CommitKVStore
	router   *Router
	codes    CodeBucket
	cash     cash.Controller
	chainID  *big.Int
	logger   log.Logger
	metrics  *Metrics
	maxDepth int

	// stack dispatches mutating calls, query read only ones.
	stack custody.Dispatcher
	query custody.Dispatcher
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger passed to contracts in their context.
func WithLogger(logger log.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithMetrics enables metrics collection.
func WithMetrics(m *Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

// WithMaxCallDepth limits how deep contracts may call each other.
func WithMaxCallDepth(n int) Option {
	return func(l *Ledger) { l.maxDepth = n }
}

// WithCash replaces the controller used to move call value.
func WithCash(c cash.Controller) Option {
	return func(l *Ledger) { l.cash = c }
}

// WithChainID sets the chain id used while the store holds none. A chain
// id stored by InitChain always takes precedence.
func WithChainID(id *big.Int) Option {
	return func(l *Ledger) {
		if id != nil {
			l.chainID = new(big.Int).Set(id)
		}
	}
}

// NewLedger loads the latest version of the store and returns a ledger
// serving it.
func NewLedger(store custody.CommitKVStore, router *Router, opts ...Option) (*Ledger, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load store")
	}
	l := &Ledger{
		store:    store,
		router:   router,
		codes:    NewCodeBucket(),
		cash:     cash.NewController(cash.NewBucket()),
		logger:   log.NewNopLogger(),
		maxDepth: DefaultMaxCallDepth,
	}
	for _, o := range opts {
		o(l)
	}

	stored, err := loadChainID(store)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		l.chainID = stored
	}

	dispatch := custody.DispatcherFunc(l.dispatch)
	l.stack = ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewSavepoint(),
	).WithDispatcher(dispatch)
	l.query = ChainDecorators(
		utils.NewQueryLogging(),
		utils.NewRecovery(),
	).WithDispatcher(dispatch)
	return l, nil
}

// ChainID returns a copy of the chain id or nil if none is set.
func (l *Ledger) ChainID() *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.chainID == nil {
		return nil
	}
	return new(big.Int).Set(l.chainID)
}

// InitChain stores the chain id and loads the genesis state. It can be
// done only once per store.
func (l *Ledger) InitChain(ctx custody.Context, gen Genesis, init custody.Initializer) error {
	defer l.metrics.observeDuration("init_chain", time.Now())
	l.mu.Lock()
	defer l.mu.Unlock()

	chainID := l.chainID
	if gen.ChainID != "" {
		id, err := ParseChainID(gen.ChainID)
		if err != nil {
			return err
		}
		chainID = id
	}
	if chainID == nil {
		return errors.Wrap(errors.ErrEmpty, "chain id")
	}

	ctx = custody.WithLogInfo(l.withChain(ctx, chainID, nil), "call", "init_chain")
	_, err := l.mutate(ctx, nil, func(db custody.KVStore) ([]byte, error) {
		if err := saveChainID(db, chainID); err != nil {
			return nil, err
		}
		if init == nil {
			return nil, nil
		}
		return nil, init.FromGenesis(ctx, gen.AppState, db)
	})
	if err != nil {
		return err
	}
	l.chainID = chainID
	return nil
}

// Deploy creates a new contract instance. Receipt.Contract is its address.
func (l *Ledger) Deploy(ctx custody.Context, req custody.Deployment) (*Receipt, error) {
	defer l.metrics.observeDuration("deploy", time.Now())
	l.mu.Lock()
	defer l.mu.Unlock()

	var events custody.EventLog
	ctx, err := l.context(ctx, &events)
	if err != nil {
		return nil, err
	}
	ctx = custody.WithLogInfo(ctx, "call", "deploy", "kind", req.Kind)

	var addr common.Address
	res, err := l.mutate(ctx, &events, func(db custody.KVStore) ([]byte, error) {
		a, err := host{l}.Deploy(ctx, db, req)
		addr = a
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	res.Contract = addr
	return res, nil
}

// Execute dispatches a call and commits its result. A failing call leaves
// no trace in the store.
func (l *Ledger) Execute(ctx custody.Context, call custody.Call) (*Receipt, error) {
	defer l.metrics.observeDuration("execute", time.Now())
	l.mu.Lock()
	defer l.mu.Unlock()

	var events custody.EventLog
	ctx, err := l.context(ctx, &events)
	if err != nil {
		return nil, err
	}
	ctx = custody.WithLogInfo(ctx, "call", "execute")
	return l.mutate(ctx, &events, func(db custody.KVStore) ([]byte, error) {
		return host{l}.Call(ctx, db, call)
	})
}

// Query dispatches a read only call. Nothing it writes is kept and it can
// run concurrently with other queries.
func (l *Ledger) Query(ctx custody.Context, call custody.Call) ([]byte, error) {
	defer l.metrics.observeDuration("query", time.Now())
	l.mu.RLock()
	defer l.mu.RUnlock()

	if call.HasValue() {
		return nil, errors.Wrap(errors.ErrInput, "query cannot carry value")
	}
	ctx, err := l.context(ctx, nil)
	if err != nil {
		return nil, err
	}
	ctx = custody.WithCallDepth(custody.WithLogInfo(ctx, "call", "query"))

	cache := l.store.CacheWrap()
	defer cache.Discard()
	return l.query.Dispatch(ctx, cache, call)
}

// View runs fn with read access to the state as of the last completed
// mutation.
func (l *Ledger) View(fn func(db custody.ReadOnlyKVStore) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	cache := l.store.CacheWrap()
	defer cache.Discard()
	return fn(cache)
}

// KindOf returns the kind of the instance at given address, or an empty
// string if there is none.
func (l *Ledger) KindOf(addr common.Address) (string, error) {
	var kind string
	err := l.View(func(db custody.ReadOnlyKVStore) error {
		k, err := host{l}.KindOf(db, addr)
		kind = k
		return err
	})
	return kind, err
}

// CommitInfo returns the latest committed version.
func (l *Ledger) CommitInfo() (custody.CommitID, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.LatestVersion()
}

// context prepares the context of an entry point.
func (l *Ledger) context(ctx custody.Context, events *custody.EventLog) (custody.Context, error) {
	if l.chainID == nil {
		return nil, errors.Wrap(errors.ErrState, "chain id not initialized")
	}
	return l.withChain(ctx, l.chainID, events), nil
}

func (l *Ledger) withChain(ctx custody.Context, chainID *big.Int, events *custody.EventLog) custody.Context {
	if custody.GetChainID(ctx) == nil {
		ctx = custody.WithChainID(ctx, chainID)
	}
	ctx = custody.WithLogger(ctx, l.logger)
	ctx = custody.WithHost(ctx, host{l})
	if events != nil {
		ctx = custody.WithEvents(ctx, events)
	}
	return ctx
}

// mutate runs fn on a cache wrap of the committed store and commits the
// result if fn succeeds. Must be called with the write lock held.
func (l *Ledger) mutate(ctx custody.Context, events *custody.EventLog, fn func(custody.KVStore) ([]byte, error)) (*Receipt, error) {
	cache := l.store.CacheWrap()
	out, err := fn(cache)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "write: %s", err)
	}
	id, err := l.store.Commit()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "commit: %s", err)
	}

	res := &Receipt{Output: out, Version: id.Version}
	if events != nil {
		res.Events = events.Events()
		l.metrics.observeEvents(res.Events)
	}
	custody.GetLogger(ctx).Debug("committed", "version", id.Version, "events", len(res.Events))
	return res, nil
}

// dispatch moves the call value and hands the call to the contract
// deployed at the destination.
func (l *Ledger) dispatch(ctx custody.Context, db custody.KVStore, call custody.Call) (out []byte, err error) {
	if call.Value != nil && call.Value.Sign() < 0 {
		return nil, errors.Wrap(errors.ErrAmount, "negative call value")
	}
	if err := custody.ValidateAddress(call.Contract); err != nil {
		return nil, errors.Wrap(err, "destination")
	}

	code, err := l.codes.GetCode(db, call.Contract)
	if err != nil {
		return nil, err
	}
	if call.HasValue() {
		if err := l.cash.MoveCoins(db, call.Caller, call.Contract, call.Value); err != nil {
			return nil, errors.Wrap(err, "call value")
		}
	}
	if code == nil {
		if len(call.Input) > 0 {
			return nil, errors.Wrapf(errors.ErrNotAContract, "call to %s", call.Contract.Hex())
		}
		// Plain transfer of native units to an account.
		return nil, nil
	}

	c, err := l.router.Contract(code.Kind)
	if err != nil {
		return nil, err
	}
	var method string
	if d, ok := c.(custody.Describer); ok {
		method = d.Method(call.Input)
	}
	defer func() { l.metrics.observeCall(code.Kind, method, err) }()
	defer errors.Recover(&err)
	return c.Call(ctx, db, call)
}

// host is the custody.Host given to contracts.
type host struct {
	l *Ledger
}

var _ custody.Host = host{}

// Call dispatches a nested call in a savepoint of its own.
func (h host) Call(ctx custody.Context, db custody.KVStore, call custody.Call) ([]byte, error) {
	if depth := custody.GetCallDepth(ctx); depth >= h.l.maxDepth {
		return nil, errors.Wrapf(ErrCallDepth, "depth %d", depth)
	}
	return h.l.stack.Dispatch(custody.WithCallDepth(ctx), db, call)
}

// Deploy creates the code record of a new instance and runs its
// constructor. Both are dropped if the constructor fails.
func (h host) Deploy(ctx custody.Context, db custody.KVStore, req custody.Deployment) (common.Address, error) {
	if depth := custody.GetCallDepth(ctx); depth >= h.l.maxDepth {
		return common.Address{}, errors.Wrapf(ErrCallDepth, "depth %d", depth)
	}
	c, err := h.l.router.Contract(req.Kind)
	if err != nil {
		return common.Address{}, err
	}
	if err := custody.ValidateAddress(req.Deployer); err != nil {
		return common.Address{}, errors.Wrap(err, "deployer")
	}

	var addr common.Address
	_, err = utils.InSavepoint(ctx, db, func(db custody.KVStore) (_ []byte, err error) {
		if addr, err = h.l.codes.Create(db, req); err != nil {
			return nil, err
		}
		defer func() { h.l.metrics.observeCall(req.Kind, "constructor", err) }()
		defer errors.Recover(&err)
		call := custody.Call{Caller: req.Deployer, Contract: addr, Input: req.Args}
		return nil, c.Init(custody.WithCallDepth(ctx), db, call)
	})
	if err != nil {
		return common.Address{}, errors.Wrapf(err, "deploy %s", req.Kind)
	}
	custody.GetLogger(ctx).Info("deployed", "kind", req.Kind, "address", addr.Hex())
	return addr, nil
}

// KindOf returns the kind stored for given address.
func (h host) KindOf(db custody.ReadOnlyKVStore, addr common.Address) (string, error) {
	code, err := h.l.codes.GetCode(db, addr)
	if err != nil || code == nil {
		return "", err
	}
	return code.Kind, nil
}
