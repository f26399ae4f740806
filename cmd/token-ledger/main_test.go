package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/core/storage/dbconfig"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/stretchr/testify/require"
)

const testPassword = "one"

func TestReadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := readConfig("")
		require.NoError(t, err)
		require.Equal(t, dbconfig.InMemoryDB, c.DB.Type)
		require.Equal(t, "info", c.Logger.Level)
		require.Equal(t, defaultDialTimeout, c.RPC.DialTimeout)
		require.Equal(t, defaultWaitTimeout, c.RPC.WaitTimeout)

		_, err = c.contractHash()
		require.ErrorIs(t, err, errMissingContract)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte(`
db:
  Type: boltdb
  BoltDBOptions:
    FilePath: /var/lib/token/ledger.bolt
logger:
  level: debug
rpc:
  endpoint: http://localhost:30333
  request_timeout: 5s
contract: 0b17008f1c1d4ba1bc0fe0ecd2b2a0d5d24bd3b6
`), 0o600))

		c, err := readConfig(path)
		require.NoError(t, err)
		require.Equal(t, dbconfig.BoltDB, c.DB.Type)
		require.Equal(t, "/var/lib/token/ledger.bolt", c.DB.BoltDBOptions.FilePath)
		require.Equal(t, "debug", c.Logger.Level)
		require.Equal(t, "http://localhost:30333", c.RPC.Endpoint)
		require.Equal(t, 5*time.Second, c.RPC.RequestTimeout)
		require.Equal(t, defaultDialTimeout, c.RPC.DialTimeout)

		h, err := c.contractHash()
		require.NoError(t, err)
		require.Equal(t, "0b17008f1c1d4ba1bc0fe0ecd2b2a0d5d24bd3b6", h.StringLE())
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := readConfig(filepath.Join(t.TempDir(), "missing.yml"))
		require.Error(t, err)

		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("logger: [\n"), 0o600))
		_, err = readConfig(path)
		require.Error(t, err)
	})
}

func TestParseAccount(t *testing.T) {
	h := util.Uint160{1, 2, 3}

	res, err := parseAccount(address.Uint160ToString(h))
	require.NoError(t, err)
	require.Equal(t, h, res)

	res, err = parseAccount(h.StringLE())
	require.NoError(t, err)
	require.Equal(t, h, res)

	_, err = parseAccount("not an account")
	require.Error(t, err)
}

func TestAmount(t *testing.T) {
	v, err := parseAmount("12.5", 2)
	require.NoError(t, err)
	require.EqualValues(t, 1250, v.Int64())
	require.Equal(t, "12.5", formatAmount(v, 2))

	v, err = parseAmount("7", 0)
	require.NoError(t, err)
	require.EqualValues(t, 7, v.Int64())

	_, err = parseAmount("1.234", 2)
	require.Error(t, err)

	_, err = parseAmount("abc", 8)
	require.Error(t, err)
}

// newTestWallet creates wallet with a single account encrypted with
// testPassword.
func newTestWallet(t *testing.T, dir string) (string, util.Uint160) {
	path := filepath.Join(dir, "wallet.json")

	w, err := wallet.NewWallet(path)
	require.NoError(t, err)
	defer w.Close()

	acc, err := wallet.NewAccount()
	require.NoError(t, err)
	require.NoError(t, acc.Encrypt(testPassword, w.Scrypt))

	w.AddAccount(acc)
	require.NoError(t, w.Save())

	return path, acc.ScriptHash()
}

func TestLocalCommands(t *testing.T) {
	dir := t.TempDir()
	walletPath, admin := newTestWallet(t, dir)
	user := util.Uint160{42}

	cfgPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
db:
  Type: boltdb
  BoltDBOptions:
    FilePath: `+filepath.Join(dir, "ledger.bolt")+`
logger:
  level: error
wallet: `+walletPath+`
`), 0o600))

	t.Setenv(passwordEnv, testPassword)

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		app := newApp()
		app.Writer = &out
		err := app.Run(append([]string{"token-ledger", "--config", cfgPath}, args...))
		return out.String(), err
	}

	_, err := run("info")
	require.Error(t, err)

	_, err = run("init", "--admin", admin.StringLE(), "--decimals", "2", "--name", "Test", "--symbol", "TST")
	require.NoError(t, err)

	_, err = run("init", "--admin", admin.StringLE(), "--decimals", "2", "--name", "Test", "--symbol", "TST")
	require.Error(t, err)

	_, err = run("mint", "--to", address.Uint160ToString(admin), "--amount", "10.5")
	require.NoError(t, err)

	_, err = run("transfer", "--from", admin.StringLE(), "--to", user.StringLE(), "--amount", "0.5")
	require.NoError(t, err)

	_, err = run("transfer", "--from", admin.StringLE(), "--to", user.StringLE(), "--amount", "100")
	require.Error(t, err)

	out, err := run("balance", address.Uint160ToString(admin))
	require.NoError(t, err)
	require.Equal(t, "10", strings.TrimSpace(out))

	out, err = run("balance", user.StringLE())
	require.NoError(t, err)
	require.Equal(t, "0.5", strings.TrimSpace(out))

	out, err = run("info")
	require.NoError(t, err)
	require.Contains(t, out, "Symbol:       TST")
	require.Contains(t, out, "Total supply: 10.5")
	require.Contains(t, out, address.Uint160ToString(admin))

	out, err = run("holders")
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)

	t.Run("user without wallet account", func(t *testing.T) {
		_, err := run("transfer", "--from", user.StringLE(), "--to", admin.StringLE(), "--amount", "0.5")
		require.Error(t, err)

		out, err := run("balance", user.StringLE())
		require.NoError(t, err)
		require.Equal(t, "0.5", strings.TrimSpace(out))
	})
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger(loggerConfig{Level: "verbose"})
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "token-ledger.log")

	l, err := newLogger(loggerConfig{Level: "info", File: path, MaxSize: 1})
	require.NoError(t, err)

	l.Debug("skipped")
	l.Info("written")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "written")
	require.NotContains(t, string(data), "skipped")
}
