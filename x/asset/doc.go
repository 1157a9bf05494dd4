/*
Package asset implements a fungible token contract.

An asset has a fixed owner, usually a wallet, that is the only account
allowed to mint. A capped asset refuses to mint beyond its maximum supply.
Holders move their balance with transfer, or authorize a relayer to do it
for them with a signed delegated transfer.

A delegated transfer is signed over the chain id, the asset address, the
sender, the recipient, the amount and the current nonce of the sender.
Every accepted delegated transfer increments the nonce of the sender, so
each signature can be used once only.
*/
package asset
