package ledger

import (
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-token-contract/contracts/token/tokenconst"
)

// Configuration groups token parameters set by initialization.
type Configuration struct {
	// Administrator allowed to mint tokens.
	Admin util.Uint160
	// Decimal precision of token amounts.
	Decimals uint32
	// Token name, 1 to 32 characters of [A-Za-z0-9_].
	Name string
	// Token symbol, same restrictions as for Name.
	Symbol string
}

var maxAmount = func() *big.Int {
	v, ok := new(big.Int).SetString(tokenconst.MaxAmount, 10)
	if !ok {
		panic("invalid max amount " + tokenconst.MaxAmount)
	}
	return v
}()

// MaxAmount returns the largest balance an account can hold.
func MaxAmount() *big.Int {
	return new(big.Int).Set(maxAmount)
}

func (x Configuration) validate() error {
	if !isValidName(x.Name) {
		return fmt.Errorf("%w: %s %q", ErrInvalidConfiguration, tokenconst.ErrInvalidName, x.Name)
	}
	if !isValidName(x.Symbol) {
		return fmt.Errorf("%w: %s %q", ErrInvalidConfiguration, tokenconst.ErrInvalidSymbol, x.Symbol)
	}
	return nil
}

func isValidName(s string) bool {
	if len(s) == 0 || len(s) > tokenconst.MaxNameLength {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_') {
			return false
		}
	}

	return true
}
