package auth

import (
	"math/rand/v2"
	"strconv"
	"time"
)

// MaxIdentity is the upper bound (inclusive) of minted identities.
const MaxIdentity = 10000

// Identity is an ephemeral, randomly assigned user id. Identities are not
// unique across logins and have no backing account.
type Identity string

func (i Identity) String() string {
	return string(i)
}

// NewIdentityFunc mints identities. It can be overridden in tests.
var NewIdentityFunc = MintIdentity

// MintIdentity returns a uniformly random identity in [1, MaxIdentity].
func MintIdentity() Identity {
	return Identity(strconv.Itoa(rand.IntN(MaxIdentity) + 1))
}

// Principal is the result of a successful authentication.
type Principal struct {
	Identity  Identity
	ExpiresAt time.Time
}
