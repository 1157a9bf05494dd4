package factory

import (
	"github.com/bosagora/custody/x"
)

// Kind is the name the factory contract is registered under.
const Kind = "factory"

// ABIJSON describes the factory interface.
const ABIJSON = `[
{"type":"constructor","inputs":[]},
{"type":"function","name":"create","inputs":[{"name":"name","type":"string"},{"name":"description","type":"string"},{"name":"owners","type":"address[]"},{"name":"required","type":"uint256"}],"outputs":[{"name":"wallet","type":"address"}]},
{"type":"function","name":"createWithSeed","inputs":[{"name":"name","type":"string"},{"name":"description","type":"string"},{"name":"owners","type":"address[]"},{"name":"required","type":"uint256"},{"name":"seed","type":"uint256"}],"outputs":[{"name":"wallet","type":"address"}]},
{"type":"function","name":"getNumberOfWalletsForOwner","constant":true,"stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"getNumberOfWalletsForMember","constant":true,"stateMutability":"view","inputs":[{"name":"member","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"getWalletsForOwner","constant":true,"stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"address[]"}]},
{"type":"function","name":"getNumberOfWallets","constant":true,"stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"isInstantiation","constant":true,"stateMutability":"view","inputs":[{"name":"wallet","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"event","name":"ContractInstantiation","anonymous":false,"inputs":[{"indexed":false,"name":"sender","type":"address"},{"indexed":false,"name":"wallet","type":"address"}]}
]`

// ABI is the parsed factory interface. Use it to encode calls.
var ABI = x.MustParseABI(ABIJSON)
