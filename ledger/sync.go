package ledger

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-token-contract/contracts/token/tokenconst"
	"go.uber.org/zap"
)

// Sync replaces the whole ledger state with the storage items of the token
// contract passed by iterate into put. Items with keys outside the token
// storage layout are skipped. Sync is atomic: if iterate or put fails, the
// ledger keeps its previous state. Resulting state must be initialized.
//
// Sync is used to mirror on-chain token state into the local ledger.
func (x *Ledger) Sync(iterate func(put func(key, value []byte) error) error) error {
	var n, skipped int

	err := x.exec(func(st *state) error {
		for _, k := range configKeys {
			st.cache.Delete([]byte(k))
		}

		var stale [][]byte

		st.cache.Seek(storage.SeekRange{Prefix: []byte{tokenconst.BalancePrefix}}, func(k, _ []byte) bool {
			stale = append(stale, bytes.Clone(k))
			return true
		})

		for i := range stale {
			st.cache.Delete(stale[i])
		}

		err := iterate(func(key, value []byte) error {
			if len(key) == 0 {
				return errors.New("empty storage key")
			}

			if !isTokenKey(key) {
				skipped++
				return nil
			}

			st.cache.Put(bytes.Clone(key), bytes.Clone(value))
			n++

			return nil
		})
		if err != nil {
			return err
		}

		ok, err := st.initialized()
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotInitialized
		}

		_, err = st.configuration()
		return err
	})
	if err != nil {
		return fmt.Errorf("sync ledger: %w", err)
	}

	x.log.Info("ledger synchronized", zap.Int("items", n), zap.Int("skipped", skipped))

	return nil
}

var configKeys = []string{
	tokenconst.AdminKey,
	tokenconst.DecimalsKey,
	tokenconst.NameKey,
	tokenconst.SymbolKey,
	tokenconst.TotalSupplyKey,
}

func isTokenKey(key []byte) bool {
	if len(key) == 1+util.Uint160Size && key[0] == tokenconst.BalancePrefix {
		return true
	}

	for _, k := range configKeys {
		if string(key) == k {
			return true
		}
	}

	return false
}
