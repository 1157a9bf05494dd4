package app

import (
	"testing"

	"github.com/bosagora/custody/custodytest"
	"github.com/bosagora/custody/errors"
	"github.com/stretchr/testify/assert"
)

func TestRouter(t *testing.T) {
	r := NewRouter()
	c := &custodytest.Contract{}

	r.Register("wallet", c)
	r.Register("asset", c)

	// make sure invalid registrations panic
	assert.Panics(t, func() { r.Register("wallet", c) })
	assert.Panics(t, func() { r.Register("l:7", c) })
	assert.Panics(t, func() { r.Register("much_too_long", c) })

	got, err := r.Contract("wallet")
	assert.NoError(t, err)
	assert.Equal(t, c, got)

	_, err = r.Contract("missing")
	assert.True(t, ErrUnknownKind.Is(err))
	assert.False(t, errors.ErrNotFound.Is(err))

	assert.Equal(t, []string{"asset", "wallet"}, r.Kinds())
}
