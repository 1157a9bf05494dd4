/*
Package crypto verifies delegated transfer authorizations.

A holder signs the Digest of a transfer: the chain id, the asset address,
the source and destination accounts, the amount and the current nonce of
the source account. Binding the chain id and the asset address to the
digest makes a signature worthless on any other network or deployment.

Verification is a pure function. Schemes are pluggable; Secp256k1 follows
the Ethereum personal message convention and Ed25519 carries the public
key next to the signature.
*/
package crypto
