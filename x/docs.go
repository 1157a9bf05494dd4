/*
Package x contains the contract kinds of the ledger and helpers shared
between them.

All sub-packages are extensions that plug into the host through the
custody.Contract and custody.Initializer interfaces. Each of them keeps
its state in buckets of its own and registers its own error codes.

Amounts of any unit are unsigned integers that fit into 256 bits, the
same range the ABI codec accepts for uint256. Helpers in this package
encode and validate them.
*/
package x
