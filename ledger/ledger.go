package ledger

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// Ledger is a token ledger working over the persistent key-value storage.
//
// Ledger instances must be constructed using New.
type Ledger struct {
	log *zap.Logger

	mtx   sync.Mutex
	store storage.Store
}

// New constructs Ledger keeping its state in the given storage.Store. Nil
// logger disables logging.
func New(store storage.Store, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}

	return &Ledger{
		log:   log,
		store: store,
	}
}

// exec passes the state of the ledger to f and persists all changes made by f
// if it succeeds.
func (x *Ledger) exec(f func(*state) error) error {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	st := newState(x.store)

	err := f(st)
	if err != nil {
		return err
	}

	_, err = st.cache.Persist()
	if err != nil {
		return fmt.Errorf("persist changes: %w", err)
	}

	return nil
}

// view is like exec but drops all changes.
func (x *Ledger) view(f func(*state) error) error {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	return f(newState(x.store))
}

// Initialize sets token configuration. Initialize fails with
// ErrAlreadyInitialized if the ledger has already been initialized and with
// ErrInvalidConfiguration if the configuration is incorrect. No authorization
// is required.
func (x *Ledger) Initialize(c Configuration) error {
	return x.exec(func(st *state) error {
		ok, err := st.initialized()
		if err != nil {
			return err
		}
		if ok {
			return ErrAlreadyInitialized
		}

		err = c.validate()
		if err != nil {
			return err
		}

		st.setConfiguration(c)

		x.log.Info("token initialized",
			zap.String("admin", address.Uint160ToString(c.Admin)),
			zap.Uint32("decimals", c.Decimals),
			zap.String("name", c.Name),
			zap.String("symbol", c.Symbol))

		return nil
	})
}

// Mint increases balance of the account by the given amount. The call must be
// authorized by the token administrator.
//
// Mint fails with ErrNotInitialized before initialization, with
// ErrUnauthorized if auth has no witness of the administrator, with
// ErrNegativeAmount if amount is negative, with ErrInvalidAmount if amount is
// nil and with ErrOverflow if the resulting balance exceeds MaxAmount.
func (x *Ledger) Mint(auth Authorizer, to util.Uint160, amount *big.Int) error {
	return x.exec(func(st *state) error {
		admin, err := st.admin()
		if err != nil {
			return err
		}

		if !checkWitness(auth, admin) {
			return fmt.Errorf("%w: administrator %s", ErrUnauthorized, address.Uint160ToString(admin))
		}

		err = checkAmount(amount)
		if err != nil {
			return err
		}

		balance, err := st.balance(to)
		if err != nil {
			return err
		}

		balance.Add(balance, amount)
		if balance.Cmp(maxAmount) > 0 {
			return ErrOverflow
		}

		supply, err := st.totalSupply()
		if err != nil {
			return err
		}

		st.setBalance(to, balance)
		st.setTotalSupply(supply.Add(supply, amount))

		x.log.Info("assets were minted",
			zap.String("to", address.Uint160ToString(to)),
			zap.Stringer("amount", amount))

		return nil
	})
}

func checkAmount(amount *big.Int) error {
	if amount == nil {
		return ErrInvalidAmount
	}
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Balance returns balance of the account. Accounts never involved in mint or
// transfer have zero balance.
func (x *Ledger) Balance(acc util.Uint160) (*big.Int, error) {
	var res *big.Int

	err := x.view(func(st *state) error {
		var err error
		res, err = st.balance(acc)
		return err
	})

	return res, err
}

// Transfer moves amount of tokens from one account to another. The call must
// be authorized by the sender. The authorization is checked before accessing
// the state.
//
// Transfer fails with ErrUnauthorized if auth has no sender's witness, with
// ErrNegativeAmount if amount is negative (ErrInvalidAmount if nil), with
// ErrInsufficientBalance if the
// sender holds less than amount and with ErrOverflow if the resulting balance
// of the receiver exceeds MaxAmount. Transfer to the sender itself checks the
// same conditions and changes nothing.
func (x *Ledger) Transfer(auth Authorizer, from, to util.Uint160, amount *big.Int) error {
	if !checkWitness(auth, from) {
		return fmt.Errorf("%w: owner %s", ErrUnauthorized, address.Uint160ToString(from))
	}

	err := checkAmount(amount)
	if err != nil {
		return err
	}

	return x.exec(func(st *state) error {
		fromBalance, err := st.balance(from)
		if err != nil {
			return err
		}

		if fromBalance.Cmp(amount) < 0 {
			return fmt.Errorf("%w: %s < %s", ErrInsufficientBalance, fromBalance, amount)
		}

		if from.Equals(to) {
			return nil
		}

		toBalance, err := st.balance(to)
		if err != nil {
			return err
		}

		toBalance.Add(toBalance, amount)
		if toBalance.Cmp(maxAmount) > 0 {
			return ErrOverflow
		}

		st.setBalance(from, fromBalance.Sub(fromBalance, amount))
		st.setBalance(to, toBalance)

		x.log.Info("assets were transferred",
			zap.String("from", address.Uint160ToString(from)),
			zap.String("to", address.Uint160ToString(to)),
			zap.Stringer("amount", amount))

		return nil
	})
}

// Configuration returns token configuration. Returns ErrNotInitialized if the
// ledger has not been initialized.
func (x *Ledger) Configuration() (Configuration, error) {
	var res Configuration

	err := x.view(func(st *state) error {
		var err error
		res, err = st.configuration()
		return err
	})

	return res, err
}

// Name returns token name. Returns ErrNotInitialized if the ledger has not
// been initialized.
func (x *Ledger) Name() (string, error) {
	c, err := x.Configuration()
	return c.Name, err
}

// Symbol returns token symbol. Returns ErrNotInitialized if the ledger has not
// been initialized.
func (x *Ledger) Symbol() (string, error) {
	c, err := x.Configuration()
	return c.Symbol, err
}

// Decimals returns decimal precision of token amounts. Returns
// ErrNotInitialized if the ledger has not been initialized.
func (x *Ledger) Decimals() (uint32, error) {
	c, err := x.Configuration()
	return c.Decimals, err
}

// TotalSupply returns the sum of all minted amounts.
func (x *Ledger) TotalSupply() (*big.Int, error) {
	var res *big.Int

	err := x.view(func(st *state) error {
		var err error
		res, err = st.totalSupply()
		return err
	})

	return res, err
}

// IterateBalances passes all accounts with non-zero balance to f until f
// returns false. f must not call Ledger methods.
func (x *Ledger) IterateBalances(f func(acc util.Uint160, balance *big.Int) bool) error {
	return x.view(func(st *state) error {
		return st.iterateBalances(f)
	})
}
