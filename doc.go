/*
Package custody defines all common interfaces to weave
together the various subpackages: stores, contracts, the host
they run in and the events they emit.

We pass context through context.Context between the host
and contracts. To do so, custody defines some common keys to
store info, such as the chain id, the logger and the event log.

There should exist two functions for every XYZ of type T
that we want to support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ may panic if the value was previously set
to avoid lower-level modules overwriting the value
(eg. chain id)
*/
package custody
