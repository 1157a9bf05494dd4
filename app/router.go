package app

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
)

// isKind matches the type part of a condition, as the kind becomes part
// of instance addresses.
var isKind = regexp.MustCompile(`^[a-z_]{3,8}$`).MatchString

// Router maps contract kinds to their code.
type Router struct {
	contracts map[string]custody.Contract
}

var _ custody.Registry = (*Router)(nil)

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{
		contracts: make(map[string]custody.Contract),
	}
}

// Register adds a contract kind. It panics on a malformed or already
// registered kind, as registration happens at startup.
func (r *Router) Register(kind string, c custody.Contract) {
	if !isKind(kind) {
		panic(fmt.Sprintf("contract kind %q must match %s", kind, `^[a-z_]{3,8}$`))
	}
	if _, ok := r.contracts[kind]; ok {
		panic(fmt.Sprintf("contract kind %q already registered", kind))
	}
	r.contracts[kind] = c
}

// Contract returns the code registered for given kind.
func (r *Router) Contract(kind string) (custody.Contract, error) {
	c, ok := r.contracts[kind]
	if !ok {
		return nil, errors.Wrap(ErrUnknownKind, kind)
	}
	return c, nil
}

// Kinds returns all registered kinds in alphabetical order.
func (r *Router) Kinds() []string {
	kinds := make([]string, 0, len(r.contracts))
	for k := range r.contracts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
