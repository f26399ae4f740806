// Package tokenconst describes storage layout and failure messages of the
// token contract. It is shared by the contract and the Go-side tooling
// reading the contract storage.
package tokenconst

// Configuration keys. Each is written once by initialization.
const (
	AdminKey    = "admin"
	DecimalsKey = "decimal"
	NameKey     = "name"
	SymbolKey   = "symbol"

	// TotalSupplyKey stores sum of all minted amounts.
	TotalSupplyKey = "supply"
)

// BalancePrefix prefixes balance keys, the rest of the key is the account
// script hash.
const BalancePrefix = 'b'

const (
	// MaxNameLength limits both token name and symbol.
	MaxNameLength = 32

	// MaxDecimals is the largest allowed decimal precision.
	MaxDecimals = 1<<32 - 1

	// MaxAmount is 2^127-1, the largest balance or amount the token operates
	// with, in decimal notation.
	MaxAmount = "170141183460469231731687303715884105727"
)

// Failure messages the contract aborts execution with.
const (
	ErrNotInitialized      = "token is not initialized"
	ErrAlreadyInitialized  = "token is already initialized"
	ErrInsufficientBalance = "insufficient balance"
	ErrNegativeAmount      = "negative amount"
	ErrOverflow            = "balance overflow"
	ErrInvalidAccount      = "invalid account"
	ErrInvalidDecimals     = "invalid decimals"
	ErrInvalidName         = "invalid name"
	ErrInvalidSymbol       = "invalid symbol"
)
