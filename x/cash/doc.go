/*
Package cash keeps the native unit balances of the ledger.

Native units are what a call carries as value. There is no logic in
them except that a balance may never go below zero, and never above
what fits into 256 bits. Units enter the ledger only through the
genesis allocation.
*/
package cash
