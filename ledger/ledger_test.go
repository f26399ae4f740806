package ledger_test

import (
	"errors"
	"math/big"
	"math/rand"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/storage/dbconfig"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-token-contract/contracts/token/tokenconst"
	"github.com/nspcc-dev/neo-token-contract/ledger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func randAccount() util.Uint160 {
	var res util.Uint160
	rand.Read(res[:]) //nolint:staticcheck // SA1019: rand.Read has been deprecated since Go 1.20
	return res
}

func newLedger(t testing.TB) *ledger.Ledger {
	return ledger.New(storage.NewMemoryStore(), zaptest.NewLogger(t))
}

func testConfiguration(admin util.Uint160) ledger.Configuration {
	return ledger.Configuration{
		Admin:    admin,
		Decimals: 6,
		Name:     "MyToken",
		Symbol:   "MTK",
	}
}

func newInitializedLedger(t testing.TB) (*ledger.Ledger, util.Uint160) {
	l := newLedger(t)
	admin := randAccount()
	require.NoError(t, l.Initialize(testConfiguration(admin)))
	return l, admin
}

func requireBalance(t testing.TB, l *ledger.Ledger, acc util.Uint160, expected int64) {
	b, err := l.Balance(acc)
	require.NoError(t, err)
	require.Zero(t, b.Cmp(big.NewInt(expected)), "expected %d, got %s", expected, b)
}

func TestLedger_Initialize(t *testing.T) {
	l := newLedger(t)
	admin := randAccount()

	t.Run("not initialized", func(t *testing.T) {
		_, err := l.Name()
		require.ErrorIs(t, err, ledger.ErrNotInitialized)
		_, err = l.Symbol()
		require.ErrorIs(t, err, ledger.ErrNotInitialized)
		_, err = l.Decimals()
		require.ErrorIs(t, err, ledger.ErrNotInitialized)

		err = l.Mint(ledger.Witnesses{admin}, admin, big.NewInt(1))
		require.ErrorIs(t, err, ledger.ErrNotInitialized)

		s, err := l.TotalSupply()
		require.NoError(t, err)
		require.Zero(t, s.Sign())
	})

	t.Run("invalid configuration", func(t *testing.T) {
		for _, tc := range []struct {
			name, tName, tSymbol string
		}{
			{name: "empty name", tName: "", tSymbol: "MTK"},
			{name: "empty symbol", tName: "MyToken", tSymbol: ""},
			{name: "space", tName: "My Token", tSymbol: "MTK"},
			{name: "dash", tName: "MyToken", tSymbol: "M-K"},
			{name: "non-ASCII", tName: "Токен", tSymbol: "MTK"},
			{name: "long name", tName: strings.Repeat("a", 33), tSymbol: "MTK"},
		} {
			t.Run(tc.name, func(t *testing.T) {
				c := testConfiguration(admin)
				c.Name, c.Symbol = tc.tName, tc.tSymbol
				require.ErrorIs(t, l.Initialize(c), ledger.ErrInvalidConfiguration)
			})
		}

		_, err := l.Name()
		require.ErrorIs(t, err, ledger.ErrNotInitialized)
	})

	c := testConfiguration(admin)
	c.Name = strings.Repeat("a", 32)
	require.NoError(t, l.Initialize(c))

	name, err := l.Name()
	require.NoError(t, err)
	require.Equal(t, c.Name, name)

	symbol, err := l.Symbol()
	require.NoError(t, err)
	require.Equal(t, "MTK", symbol)

	decimals, err := l.Decimals()
	require.NoError(t, err)
	require.EqualValues(t, 6, decimals)

	t.Run("repeated", func(t *testing.T) {
		other := ledger.Configuration{Admin: randAccount(), Decimals: 8, Name: "Other", Symbol: "OTH"}
		require.ErrorIs(t, l.Initialize(other), ledger.ErrAlreadyInitialized)

		res, err := l.Configuration()
		require.NoError(t, err)
		require.Equal(t, c, res)
	})
}

func TestLedger_Mint(t *testing.T) {
	l, admin := newInitializedLedger(t)
	user := randAccount()

	require.NoError(t, l.Mint(ledger.Witnesses{admin}, user, big.NewInt(1000)))
	requireBalance(t, l, user, 1000)

	t.Run("unauthorized", func(t *testing.T) {
		for _, auth := range []ledger.Authorizer{
			nil,
			ledger.Witnesses{},
			ledger.Witnesses{user},
			ledger.AuthorizerFunc(func(acc util.Uint160) bool { return !acc.Equals(admin) }),
		} {
			require.ErrorIs(t, l.Mint(auth, user, big.NewInt(1)), ledger.ErrUnauthorized)
		}
		requireBalance(t, l, user, 1000)
	})

	t.Run("negative amount", func(t *testing.T) {
		require.ErrorIs(t, l.Mint(ledger.Witnesses{admin}, user, big.NewInt(-1)), ledger.ErrNegativeAmount)
		requireBalance(t, l, user, 1000)
	})

	t.Run("overflow", func(t *testing.T) {
		rich := randAccount()

		require.NoError(t, l.Mint(ledger.Witnesses{admin}, rich, ledger.MaxAmount()))
		require.ErrorIs(t, l.Mint(ledger.Witnesses{admin}, rich, big.NewInt(1)), ledger.ErrOverflow)

		b, err := l.Balance(rich)
		require.NoError(t, err)
		require.Zero(t, b.Cmp(ledger.MaxAmount()))

		err = l.Transfer(ledger.Witnesses{user}, user, rich, big.NewInt(1))
		require.ErrorIs(t, err, ledger.ErrOverflow)
		requireBalance(t, l, user, 1000)
	})

	s, err := l.TotalSupply()
	require.NoError(t, err)
	require.Zero(t, s.Cmp(new(big.Int).Add(ledger.MaxAmount(), big.NewInt(1000))))
}

func TestLedger_Balance(t *testing.T) {
	l, _ := newInitializedLedger(t)
	requireBalance(t, l, randAccount(), 0)

	s, err := l.TotalSupply()
	require.NoError(t, err)
	require.Zero(t, s.Sign())

	l = newLedger(t)
	requireBalance(t, l, randAccount(), 0)
}

func TestLedger_NilAmount(t *testing.T) {
	l, admin := newInitializedLedger(t)
	acc := randAccount()

	require.ErrorIs(t, l.Mint(ledger.Witnesses{admin}, acc, nil), ledger.ErrInvalidAmount)
	require.ErrorIs(t, l.Transfer(ledger.Witnesses{acc}, acc, admin, nil), ledger.ErrInvalidAmount)
	requireBalance(t, l, acc, 0)
}

func TestLedger_Transfer(t *testing.T) {
	l, admin := newInitializedLedger(t)
	u, v := randAccount(), randAccount()

	require.NoError(t, l.Mint(ledger.Witnesses{admin}, u, big.NewInt(1000)))
	requireBalance(t, l, u, 1000)

	require.NoError(t, l.Transfer(ledger.Witnesses{u}, u, v, big.NewInt(400)))
	requireBalance(t, l, u, 600)
	requireBalance(t, l, v, 400)

	err := l.Transfer(ledger.Witnesses{u}, u, v, big.NewInt(10000))
	require.ErrorIs(t, err, ledger.ErrInsufficientBalance)
	requireBalance(t, l, u, 600)
	requireBalance(t, l, v, 400)

	t.Run("unauthorized", func(t *testing.T) {
		for _, auth := range []ledger.Authorizer{nil, ledger.Witnesses{v}, ledger.Witnesses{admin}} {
			require.ErrorIs(t, l.Transfer(auth, u, v, big.NewInt(1)), ledger.ErrUnauthorized)
		}
		requireBalance(t, l, u, 600)
		requireBalance(t, l, v, 400)
	})

	t.Run("negative amount", func(t *testing.T) {
		require.ErrorIs(t, l.Transfer(ledger.Witnesses{u}, u, v, big.NewInt(-100)), ledger.ErrNegativeAmount)
		requireBalance(t, l, u, 600)
		requireBalance(t, l, v, 400)
	})

	t.Run("to self", func(t *testing.T) {
		require.NoError(t, l.Transfer(ledger.Witnesses{u}, u, u, big.NewInt(600)))
		requireBalance(t, l, u, 600)

		require.ErrorIs(t, l.Transfer(ledger.Witnesses{u}, u, u, big.NewInt(601)), ledger.ErrInsufficientBalance)
	})

	t.Run("whole balance", func(t *testing.T) {
		require.NoError(t, l.Transfer(ledger.Witnesses{u}, u, v, big.NewInt(600)))
		requireBalance(t, l, u, 0)
		requireBalance(t, l, v, 1000)

		var holders []util.Uint160
		require.NoError(t, l.IterateBalances(func(acc util.Uint160, _ *big.Int) bool {
			holders = append(holders, acc)
			return true
		}))
		require.Equal(t, []util.Uint160{v}, holders)
	})

	t.Run("uninitialized", func(t *testing.T) {
		l := newLedger(t)
		acc := randAccount()

		require.NoError(t, l.Transfer(ledger.Witnesses{acc}, acc, randAccount(), big.NewInt(0)))
		require.ErrorIs(t, l.Transfer(ledger.Witnesses{acc}, acc, randAccount(), big.NewInt(1)), ledger.ErrInsufficientBalance)
	})
}

func checkConservation(t testing.TB, l *ledger.Ledger, minted *big.Int) {
	sum := new(big.Int)

	require.NoError(t, l.IterateBalances(func(_ util.Uint160, b *big.Int) bool {
		require.Positive(t, b.Sign())
		sum.Add(sum, b)
		return true
	}))

	supply, err := l.TotalSupply()
	require.NoError(t, err)

	require.Zero(t, minted.Cmp(sum), "minted %s, sum of balances %s", minted, sum)
	require.Zero(t, minted.Cmp(supply), "minted %s, total supply %s", minted, supply)
}

func TestLedger_Conservation(t *testing.T) {
	l, admin := newInitializedLedger(t)

	accs := make([]util.Uint160, 5)
	for i := range accs {
		accs[i] = randAccount()
	}

	minted := new(big.Int)

	for i := 0; i < 1000; i++ {
		to := accs[rand.Intn(len(accs))]

		if i%4 == 0 {
			amount := big.NewInt(rand.Int63n(1_000_000))
			require.NoError(t, l.Mint(ledger.Witnesses{admin}, to, amount))
			minted.Add(minted, amount)
			continue
		}

		from := accs[rand.Intn(len(accs))]

		fromBefore, err := l.Balance(from)
		require.NoError(t, err)
		toBefore, err := l.Balance(to)
		require.NoError(t, err)

		amount := big.NewInt(rand.Int63n(fromBefore.Int64() + 100))

		err = l.Transfer(ledger.Witnesses{from}, from, to, amount)
		if amount.Cmp(fromBefore) > 0 {
			require.ErrorIs(t, err, ledger.ErrInsufficientBalance)
		} else {
			require.NoError(t, err)
		}

		fromAfter, err := l.Balance(from)
		require.NoError(t, err)
		toAfter, err := l.Balance(to)
		require.NoError(t, err)

		if !from.Equals(to) {
			require.Zero(t, new(big.Int).Add(fromBefore, toBefore).Cmp(new(big.Int).Add(fromAfter, toAfter)))
		} else {
			require.Zero(t, fromBefore.Cmp(fromAfter))
		}
	}

	checkConservation(t, l, minted)
}

func TestLedger_Concurrent(t *testing.T) {
	l, admin := newInitializedLedger(t)

	const (
		accNum   = 8
		initial  = 1000
		routines = 16
		rounds   = 200
	)

	accs := make([]util.Uint160, accNum)
	for i := range accs {
		accs[i] = randAccount()
		require.NoError(t, l.Mint(ledger.Witnesses{admin}, accs[i], big.NewInt(initial)))
	}

	var wg sync.WaitGroup

	for i := 0; i < routines; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()

			r := rand.New(rand.NewSource(seed))
			for j := 0; j < rounds; j++ {
				from, to := accs[r.Intn(accNum)], accs[r.Intn(accNum)]
				// insufficient balance is expected in some rounds
				_ = l.Transfer(ledger.Witnesses{from}, from, to, big.NewInt(r.Int63n(initial/2)))
			}
		}(int64(i))
	}

	wg.Wait()

	checkConservation(t, l, big.NewInt(accNum*initial))
}

func TestLedger_Persistence(t *testing.T) {
	cfg := dbconfig.BoltDBOptions{FilePath: filepath.Join(t.TempDir(), "ledger.bolt")}

	st, err := storage.NewBoltDBStore(cfg)
	require.NoError(t, err)

	l := ledger.New(st, zaptest.NewLogger(t))
	admin, user := randAccount(), randAccount()

	require.NoError(t, l.Initialize(testConfiguration(admin)))
	require.NoError(t, l.Mint(ledger.Witnesses{admin}, user, big.NewInt(1000)))
	require.ErrorIs(t, l.Transfer(ledger.Witnesses{user}, user, admin, big.NewInt(1001)), ledger.ErrInsufficientBalance)
	require.NoError(t, st.Close())

	st, err = storage.NewBoltDBStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	l = ledger.New(st, nil)

	c, err := l.Configuration()
	require.NoError(t, err)
	require.Equal(t, testConfiguration(admin), c)

	requireBalance(t, l, user, 1000)
	requireBalance(t, l, admin, 0)
	checkConservation(t, l, big.NewInt(1000))
}

func TestLedger_Sync(t *testing.T) {
	admin, acc := randAccount(), randAccount()

	srcStore := storage.NewMemoryStore()
	src := ledger.New(srcStore, zaptest.NewLogger(t))
	require.NoError(t, src.Initialize(testConfiguration(admin)))
	require.NoError(t, src.Mint(ledger.Witnesses{admin}, acc, big.NewInt(42)))

	items := func(put func(k, v []byte) error) error {
		for _, k := range []string{
			tokenconst.AdminKey,
			tokenconst.DecimalsKey,
			tokenconst.NameKey,
			tokenconst.SymbolKey,
			tokenconst.TotalSupplyKey,
		} {
			v, err := srcStore.Get([]byte(k))
			if err != nil {
				return err
			}
			if err = put([]byte(k), v); err != nil {
				return err
			}
		}

		var err error
		srcStore.Seek(storage.SeekRange{Prefix: []byte{tokenconst.BalancePrefix}}, func(k, v []byte) bool {
			err = put(k, v)
			return err == nil
		})
		if err != nil {
			return err
		}

		return put([]byte("unknown"), []byte{1})
	}

	dst, dstAdmin := newInitializedLedger(t)
	stale := randAccount()
	require.NoError(t, dst.Mint(ledger.Witnesses{dstAdmin}, stale, big.NewInt(7)))

	t.Run("failure keeps state", func(t *testing.T) {
		err := dst.Sync(func(put func(k, v []byte) error) error {
			require.NoError(t, put([]byte("name"), []byte("Broken")))
			return errors.New("connection lost")
		})
		require.Error(t, err)
		requireBalance(t, dst, stale, 7)

		err = dst.Sync(func(func(k, v []byte) error) error { return nil })
		require.ErrorIs(t, err, ledger.ErrNotInitialized)
		requireBalance(t, dst, stale, 7)

		err = dst.Sync(func(put func(k, v []byte) error) error {
			return put([]byte(tokenconst.AdminKey), admin.BytesBE())
		})
		require.Error(t, err)
		requireBalance(t, dst, stale, 7)
	})

	require.NoError(t, dst.Sync(items))

	requireBalance(t, dst, acc, 42)
	requireBalance(t, dst, stale, 0)

	cfg, err := dst.Configuration()
	require.NoError(t, err)
	require.Equal(t, testConfiguration(admin), cfg)

	supply, err := dst.TotalSupply()
	require.NoError(t, err)
	require.EqualValues(t, 42, supply.Int64())
}
