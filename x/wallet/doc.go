/*
Package wallet implements a multi signature wallet contract.

A wallet is owned by a list of addresses. Any owner may submit an action:
a call to a destination address with an optional value and payload. The
action is executed as soon as the number of owners that confirmed it
reaches the required quorum.

Execution runs in a savepoint. When the destination call fails, the
savepoint is dropped, the action stays pending with all its confirmations
and an ExecutionFailure event is emitted. The confirming call itself
succeeds, so that the confirmation is never lost.

Owner management (addOwner, removeOwner, replaceOwner, changeRequirement)
can only be called by the wallet itself, that is through an action
approved by the owners.

A confirmation recorded by an owner that is later removed keeps counting
toward the quorum of pending actions. A removed owner can no longer revoke
it.
*/
package wallet
