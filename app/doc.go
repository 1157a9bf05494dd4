/*
Package app contains the in-process host that runs contracts.

A Ledger owns a committed key value store and a router of contract
kinds. Every mutating entry point (Deploy, Execute) takes an exclusive
lock, runs on a cache wrap of the committed state and is committed only
when it succeeds. Reads (Query, View) take a shared lock and observe
the state as of the last completed mutation.

Every call, including calls that contracts make to each other through
the custody.Host available in their context, passes through a chain of
decorators, see ChainDecorators.
*/
package app
