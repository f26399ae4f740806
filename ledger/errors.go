package ledger

import (
	"errors"

	"github.com/nspcc-dev/neo-token-contract/contracts/token/tokenconst"
)

var (
	// ErrNotInitialized is returned when the token configuration is required
	// but the ledger has not been initialized yet.
	ErrNotInitialized = errors.New(tokenconst.ErrNotInitialized)

	// ErrAlreadyInitialized is returned on repeated initialization.
	ErrAlreadyInitialized = errors.New(tokenconst.ErrAlreadyInitialized)

	// ErrUnauthorized is returned when the call is not witnessed by the
	// account required to authorize it.
	ErrUnauthorized = errors.New("witness check failed")

	// ErrInsufficientBalance is returned on transfer of amount exceeding
	// sender's balance.
	ErrInsufficientBalance = errors.New(tokenconst.ErrInsufficientBalance)

	// ErrNegativeAmount is returned when mint or transfer amount is negative.
	ErrNegativeAmount = errors.New(tokenconst.ErrNegativeAmount)

	// ErrInvalidAmount is returned when mint or transfer amount is nil.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrOverflow is returned when resulting balance exceeds 2^127-1.
	ErrOverflow = errors.New(tokenconst.ErrOverflow)

	// ErrInvalidConfiguration is returned by Initialize on invalid
	// Configuration.
	ErrInvalidConfiguration = errors.New("invalid token configuration")
)
