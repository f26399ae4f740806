package ledger

import "github.com/nspcc-dev/neo-go/pkg/util"

// Authorizer checks authorization proofs of the current call.
type Authorizer interface {
	// CheckWitness returns true if the call is authorized by the given
	// account.
	CheckWitness(util.Uint160) bool
}

// Witnesses is an Authorizer listing accounts that have authorized the call.
type Witnesses []util.Uint160

// CheckWitness implements Authorizer.
func (x Witnesses) CheckWitness(acc util.Uint160) bool {
	for i := range x {
		if x[i].Equals(acc) {
			return true
		}
	}

	return false
}

// AuthorizerFunc is a functional Authorizer.
type AuthorizerFunc func(util.Uint160) bool

// CheckWitness implements Authorizer.
func (f AuthorizerFunc) CheckWitness(acc util.Uint160) bool {
	return f(acc)
}

func checkWitness(auth Authorizer, acc util.Uint160) bool {
	return auth != nil && auth.CheckWitness(acc)
}
