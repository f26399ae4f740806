package main

import (
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-token-contract/ledger"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var (
	initCommand = cli.Command{
		Name:  "init",
		Usage: "Initialize local token ledger",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "admin", Usage: "Account allowed to mint tokens"},
			cli.UintFlag{Name: "decimals", Usage: "Decimal precision of amounts"},
			cli.StringFlag{Name: "name", Usage: "Token name"},
			cli.StringFlag{Name: "symbol", Usage: "Token symbol"},
		},
		Action: action(initLedger),
	}

	mintCommand = cli.Command{
		Name:  "mint",
		Usage: "Mint tokens to the account on behalf of the token administrator",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "to", Usage: "Receiving account"},
			cli.StringFlag{Name: "amount", Usage: "Decimal amount of tokens"},
		},
		Action: action(mint),
	}

	transferCommand = cli.Command{
		Name:  "transfer",
		Usage: "Transfer tokens between accounts on behalf of the sender",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "from", Usage: "Sending account, must be in the wallet"},
			cli.StringFlag{Name: "to", Usage: "Receiving account"},
			cli.StringFlag{Name: "amount", Usage: "Decimal amount of tokens"},
		},
		Action: action(transfer),
	}

	balanceCommand = cli.Command{
		Name:      "balance",
		Usage:     "Print balance of the account",
		ArgsUsage: "<account>",
		Action:    action(balance),
	}

	infoCommand = cli.Command{
		Name:   "info",
		Usage:  "Print token configuration and total supply",
		Action: action(info),
	}

	holdersCommand = cli.Command{
		Name:   "holders",
		Usage:  "Print all accounts with non-zero balance",
		Action: action(holders),
	}
)

// withLedger opens the local storage, passes the ledger over it to f and
// closes the storage.
func withLedger(e *env, f func(*ledger.Ledger) error) error {
	st, err := storage.NewStore(e.cfg.DB)
	if err != nil {
		return fmt.Errorf("open ledger storage: %w", err)
	}

	err = f(ledger.New(st, e.log))

	if errClose := st.Close(); errClose != nil {
		e.log.Warn("failed to close ledger storage", zap.Error(errClose))
	}

	return err
}

func initLedger(c *cli.Context, e *env) error {
	err := requireFlags(c, "admin", "decimals", "name", "symbol")
	if err != nil {
		return err
	}

	admin, err := accountFlag(c, "admin")
	if err != nil {
		return err
	}

	cfg := ledger.Configuration{
		Admin:    admin,
		Decimals: uint32(c.Uint("decimals")),
		Name:     c.String("name"),
		Symbol:   c.String("symbol"),
	}

	return withLedger(e, func(l *ledger.Ledger) error {
		return l.Initialize(cfg)
	})
}

func mint(c *cli.Context, e *env) error {
	err := requireFlags(c, "to", "amount")
	if err != nil {
		return err
	}

	to, err := accountFlag(c, "to")
	if err != nil {
		return err
	}

	return withLedger(e, func(l *ledger.Ledger) error {
		cfg, err := l.Configuration()
		if err != nil {
			return err
		}

		amount, err := parseAmount(c.String("amount"), cfg.Decimals)
		if err != nil {
			return err
		}

		acc, err := openAccount(e.cfg.Wallet, cfg.Admin)
		if err != nil {
			return err
		}

		return l.Mint(ledger.Witnesses{acc.ScriptHash()}, to, amount)
	})
}

func transfer(c *cli.Context, e *env) error {
	err := requireFlags(c, "from", "to", "amount")
	if err != nil {
		return err
	}

	from, err := accountFlag(c, "from")
	if err != nil {
		return err
	}

	to, err := accountFlag(c, "to")
	if err != nil {
		return err
	}

	return withLedger(e, func(l *ledger.Ledger) error {
		decimals, err := l.Decimals()
		if err != nil {
			return err
		}

		amount, err := parseAmount(c.String("amount"), decimals)
		if err != nil {
			return err
		}

		acc, err := openAccount(e.cfg.Wallet, from)
		if err != nil {
			return err
		}

		return l.Transfer(ledger.Witnesses{acc.ScriptHash()}, from, to, amount)
	})
}

func balance(c *cli.Context, e *env) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one account is expected, got %d", c.NArg())
	}

	acc, err := parseAccount(c.Args().First())
	if err != nil {
		return err
	}

	return withLedger(e, func(l *ledger.Ledger) error {
		decimals, err := l.Decimals()
		if err != nil {
			return err
		}

		b, err := l.Balance(acc)
		if err != nil {
			return err
		}

		fmt.Fprintln(c.App.Writer, formatAmount(b, decimals))

		return nil
	})
}

func info(c *cli.Context, e *env) error {
	return withLedger(e, func(l *ledger.Ledger) error {
		cfg, err := l.Configuration()
		if err != nil {
			return err
		}

		supply, err := l.TotalSupply()
		if err != nil {
			return err
		}

		printInfo(c, cfg.Name, cfg.Symbol, cfg.Decimals, supply)
		fmt.Fprintf(c.App.Writer, "Admin:        %s\n", address.Uint160ToString(cfg.Admin))

		return nil
	})
}

func holders(c *cli.Context, e *env) error {
	return withLedger(e, func(l *ledger.Ledger) error {
		decimals, err := l.Decimals()
		if err != nil {
			return err
		}

		return l.IterateBalances(func(acc util.Uint160, b *big.Int) bool {
			fmt.Fprintf(c.App.Writer, "%s\t%s\n", address.Uint160ToString(acc), formatAmount(b, decimals))
			return true
		})
	})
}

func printInfo(c *cli.Context, name, symbol string, decimals uint32, supply *big.Int) {
	fmt.Fprintf(c.App.Writer, "Name:         %s\n", name)
	fmt.Fprintf(c.App.Writer, "Symbol:       %s\n", symbol)
	fmt.Fprintf(c.App.Writer, "Decimals:     %d\n", decimals)
	fmt.Fprintf(c.App.Writer, "Total supply: %s\n", formatAmount(supply, decimals))
}
