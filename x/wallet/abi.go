package wallet

import (
	"github.com/bosagora/custody/x"
)

// Kind is the name the wallet contract is registered under.
const Kind = "wallet"

// ABIJSON describes the wallet interface.
const ABIJSON = `[
{"type":"constructor","inputs":[{"name":"name","type":"string"},{"name":"description","type":"string"},{"name":"owners","type":"address[]"},{"name":"required","type":"uint256"}]},
{"type":"function","name":"submitTransaction","inputs":[{"name":"title","type":"string"},{"name":"description","type":"string"},{"name":"destination","type":"address"},{"name":"value","type":"uint256"},{"name":"data","type":"bytes"}],"outputs":[{"name":"transactionId","type":"uint256"}]},
{"type":"function","name":"confirmTransaction","inputs":[{"name":"transactionId","type":"uint256"}],"outputs":[{"name":"transactionId","type":"uint256"},{"name":"executed","type":"bool"}]},
{"type":"function","name":"revokeConfirmation","inputs":[{"name":"transactionId","type":"uint256"}],"outputs":[]},
{"type":"function","name":"addOwner","inputs":[{"name":"owner","type":"address"}],"outputs":[]},
{"type":"function","name":"removeOwner","inputs":[{"name":"owner","type":"address"}],"outputs":[]},
{"type":"function","name":"replaceOwner","inputs":[{"name":"owner","type":"address"},{"name":"newOwner","type":"address"}],"outputs":[]},
{"type":"function","name":"changeRequirement","inputs":[{"name":"required","type":"uint256"}],"outputs":[]},
{"type":"function","name":"getOwners","constant":true,"stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]},
{"type":"function","name":"getMembers","constant":true,"stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]},
{"type":"function","name":"isOwner","constant":true,"stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"required","constant":true,"stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"name","constant":true,"stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
{"type":"function","name":"description","constant":true,"stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
{"type":"function","name":"transactionCount","constant":true,"stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"getTransaction","constant":true,"stateMutability":"view","inputs":[{"name":"transactionId","type":"uint256"}],"outputs":[{"name":"title","type":"string"},{"name":"description","type":"string"},{"name":"destination","type":"address"},{"name":"value","type":"uint256"},{"name":"data","type":"bytes"},{"name":"executed","type":"bool"}]},
{"type":"function","name":"isConfirmed","constant":true,"stateMutability":"view","inputs":[{"name":"transactionId","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"getConfirmationCount","constant":true,"stateMutability":"view","inputs":[{"name":"transactionId","type":"uint256"}],"outputs":[{"name":"count","type":"uint256"}]},
{"type":"function","name":"getConfirmations","constant":true,"stateMutability":"view","inputs":[{"name":"transactionId","type":"uint256"}],"outputs":[{"name":"_confirmations","type":"address[]"}]},
{"type":"function","name":"isConfirmedBy","constant":true,"stateMutability":"view","inputs":[{"name":"transactionId","type":"uint256"},{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"isExecuted","constant":true,"stateMutability":"view","inputs":[{"name":"transactionId","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"getTransactionCount","constant":true,"stateMutability":"view","inputs":[{"name":"pending","type":"bool"},{"name":"executed","type":"bool"}],"outputs":[{"name":"count","type":"uint256"}]},
{"type":"function","name":"getTransactionIds","constant":true,"stateMutability":"view","inputs":[{"name":"from","type":"uint256"},{"name":"to","type":"uint256"},{"name":"pending","type":"bool"},{"name":"executed","type":"bool"}],"outputs":[{"name":"_transactionIds","type":"uint256[]"}]},
{"type":"event","name":"Confirmation","anonymous":false,"inputs":[{"indexed":true,"name":"sender","type":"address"},{"indexed":true,"name":"transactionId","type":"uint256"}]},
{"type":"event","name":"Revocation","anonymous":false,"inputs":[{"indexed":true,"name":"sender","type":"address"},{"indexed":true,"name":"transactionId","type":"uint256"}]},
{"type":"event","name":"Submission","anonymous":false,"inputs":[{"indexed":true,"name":"transactionId","type":"uint256"}]},
{"type":"event","name":"Execution","anonymous":false,"inputs":[{"indexed":true,"name":"transactionId","type":"uint256"}]},
{"type":"event","name":"ExecutionFailure","anonymous":false,"inputs":[{"indexed":true,"name":"transactionId","type":"uint256"}]},
{"type":"event","name":"Deposit","anonymous":false,"inputs":[{"indexed":true,"name":"sender","type":"address"},{"indexed":false,"name":"value","type":"uint256"}]},
{"type":"event","name":"OwnerAddition","anonymous":false,"inputs":[{"indexed":true,"name":"owner","type":"address"}]},
{"type":"event","name":"OwnerRemoval","anonymous":false,"inputs":[{"indexed":true,"name":"owner","type":"address"}]},
{"type":"event","name":"RequirementChange","anonymous":false,"inputs":[{"indexed":false,"name":"required","type":"uint256"}]}
]`

// ABI is the parsed wallet interface. Use it to encode calls.
var ABI = x.MustParseABI(ABIJSON)
