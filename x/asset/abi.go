package asset

import (
	"github.com/bosagora/custody/x"
)

const (
	// Kind is the name the uncapped asset is registered under.
	Kind = "asset"
	// CappedKind is the name the capped asset is registered under.
	CappedKind = "capped"
)

const methodsJSON = `
{"type":"function","name":"mint","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
{"type":"function","name":"transfer","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"delegatedTransfer","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"},{"name":"signature","type":"bytes"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"name","constant":true,"stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
{"type":"function","name":"symbol","constant":true,"stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
{"type":"function","name":"decimals","constant":true,"stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
{"type":"function","name":"totalSupply","constant":true,"stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"maxSupply","constant":true,"stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"balanceOf","constant":true,"stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"nonceOf","constant":true,"stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"getOwner","constant":true,"stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"feeAccount","constant":true,"stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"event","name":"Transfer","anonymous":false,"inputs":[{"indexed":true,"name":"from","type":"address"},{"indexed":true,"name":"to","type":"address"},{"indexed":false,"name":"value","type":"uint256"}]}
]`

// ABIJSON describes the uncapped asset, constructed with (owner).
const ABIJSON = `[
{"type":"constructor","inputs":[{"name":"owner","type":"address"}]},` + methodsJSON

// CappedABIJSON describes the capped asset, constructed with
// (owner, feeAccount, maxSupply).
const CappedABIJSON = `[
{"type":"constructor","inputs":[{"name":"owner","type":"address"},{"name":"feeAccount","type":"address"},{"name":"maxSupply","type":"uint256"}]},` + methodsJSON

// ABI and CappedABI share all methods and differ in their constructor.
var (
	ABI       = x.MustParseABI(ABIJSON)
	CappedABI = x.MustParseABI(CappedABIJSON)
)
