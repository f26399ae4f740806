package ledger

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-token-contract/contracts/token/tokenconst"
)

// state is a view of the token state within a single call. All changes are
// accumulated in the cache until the call is finished.
type state struct {
	cache *storage.MemCachedStore
}

func newState(store storage.Store) *state {
	return &state{cache: storage.NewMemCachedStore(store)}
}

// get returns value stored by the key. Second value is false if there is no
// such key.
func (x *state) get(key []byte) ([]byte, bool, error) {
	v, err := x.cache.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("read storage item %q: %w", key, err)
	}

	return v, true, nil
}

func (x *state) getInt(key []byte) (*big.Int, error) {
	v, ok, err := x.get(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return new(big.Int), nil
	}

	return bigint.FromBytes(v), nil
}

func (x *state) putIntOrDelete(key []byte, v *big.Int) {
	if v.Sign() == 0 {
		x.cache.Delete(key)
		return
	}

	x.cache.Put(key, bigint.ToBytes(v))
}

func (x *state) initialized() (bool, error) {
	_, ok, err := x.get([]byte(tokenconst.AdminKey))
	return ok, err
}

func (x *state) admin() (util.Uint160, error) {
	v, ok, err := x.get([]byte(tokenconst.AdminKey))
	if err != nil {
		return util.Uint160{}, err
	}
	if !ok {
		return util.Uint160{}, ErrNotInitialized
	}

	res, err := util.Uint160DecodeBytesBE(v)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("decode admin account: %w", err)
	}

	return res, nil
}

func (x *state) configuration() (Configuration, error) {
	var (
		res Configuration
		err error
	)

	res.Admin, err = x.admin()
	if err != nil {
		return res, err
	}

	v, ok, err := x.get([]byte(tokenconst.DecimalsKey))
	if err != nil {
		return res, err
	}
	if !ok {
		return res, ErrNotInitialized
	}

	dec := bigint.FromBytes(v)
	if !dec.IsUint64() || dec.Uint64() > math.MaxUint32 {
		return res, fmt.Errorf("invalid decimals %s", dec)
	}

	res.Decimals = uint32(dec.Uint64())

	for _, item := range []struct {
		key string
		dst *string
	}{
		{key: tokenconst.NameKey, dst: &res.Name},
		{key: tokenconst.SymbolKey, dst: &res.Symbol},
	} {
		v, ok, err = x.get([]byte(item.key))
		if err != nil {
			return res, err
		}
		if !ok {
			return res, ErrNotInitialized
		}

		*item.dst = string(v)
	}

	return res, nil
}

func (x *state) setConfiguration(c Configuration) {
	x.cache.Put([]byte(tokenconst.AdminKey), c.Admin.BytesBE())
	x.cache.Put([]byte(tokenconst.DecimalsKey), bigint.ToBytes(new(big.Int).SetUint64(uint64(c.Decimals))))
	x.cache.Put([]byte(tokenconst.NameKey), []byte(c.Name))
	x.cache.Put([]byte(tokenconst.SymbolKey), []byte(c.Symbol))
}

func (x *state) balance(acc util.Uint160) (*big.Int, error) {
	return x.getInt(balanceKey(acc))
}

func (x *state) setBalance(acc util.Uint160, v *big.Int) {
	x.putIntOrDelete(balanceKey(acc), v)
}

func (x *state) totalSupply() (*big.Int, error) {
	return x.getInt([]byte(tokenconst.TotalSupplyKey))
}

func (x *state) setTotalSupply(v *big.Int) {
	x.cache.Put([]byte(tokenconst.TotalSupplyKey), bigint.ToBytes(v))
}

// iterateBalances passes all non-zero balances to f until f returns false.
func (x *state) iterateBalances(f func(util.Uint160, *big.Int) bool) error {
	var err error

	x.cache.Seek(storage.SeekRange{Prefix: []byte{tokenconst.BalancePrefix}}, func(k, v []byte) bool {
		if len(k) != 1+util.Uint160Size || k[0] != tokenconst.BalancePrefix {
			return true
		}

		var acc util.Uint160

		acc, err = util.Uint160DecodeBytesBE(k[1:])
		if err != nil {
			err = fmt.Errorf("decode account from storage key %x: %w", k, err)
			return false
		}

		return f(acc, bigint.FromBytes(v))
	})

	return err
}

func balanceKey(acc util.Uint160) []byte {
	return append([]byte{tokenconst.BalancePrefix}, acc.BytesBE()...)
}
