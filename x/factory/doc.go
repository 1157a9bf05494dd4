/*
Package factory implements a contract that deploys wallets.

Every wallet created by a factory is recorded together with its owners.
The owners are indexed, so that the wallets of a given owner can be listed
in creation order. The record is written only when the wallet constructor
succeeds and it is never updated afterwards: owner changes made by the
wallet later are not reflected in the index.
*/
package factory
