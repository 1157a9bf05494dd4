package cash

import (
	"math/big"

	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
	"github.com/bosagora/custody/x"
	"github.com/ethereum/go-ethereum/common"
)

// Controller is the functionality needed by the host to move native
// units along with a call.
type Controller interface {
	Balance(db custody.ReadOnlyKVStore, addr common.Address) (*big.Int, error)
	MoveCoins(db custody.KVStore, src, dst common.Address, amount *big.Int) error
	IssueCoins(db custody.KVStore, dst common.Address, amount *big.Int) error
}

// BaseController is the default implementation of the Controller.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a base controller operating on given bucket.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount held by given address. An address that was
// never credited holds zero.
func (c BaseController) Balance(db custody.ReadOnlyKVStore, addr common.Address) (*big.Int, error) {
	acc, err := c.bucket.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return new(big.Int), nil
	}
	return acc.Amount(), nil
}

// MoveCoins moves the given amount from src to dst.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db custody.KVStore, src, dst common.Address, amount *big.Int) error {
	if !x.IsPositive(amount) {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	if err := x.ValidateAmount(amount); err != nil {
		return err
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(ErrInsufficientFunds, "empty account %s", src.Hex())
	}
	if err := sender.Subtract(amount); err != nil {
		return err
	}
	// Sender must be saved before the recipient is loaded, so that moving
	// to self is a no-op.
	if err := c.bucket.Save(db, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}

	recipient, err := c.bucket.GetOrCreate(db, dst)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	if err := c.bucket.Save(db, recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the account.
func (c BaseController) IssueCoins(db custody.KVStore, dst common.Address, amount *big.Int) error {
	if err := x.ValidateAmount(amount); err != nil {
		return err
	}
	recipient, err := c.bucket.GetOrCreate(db, dst)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}
