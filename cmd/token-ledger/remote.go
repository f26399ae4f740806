package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/nspcc-dev/neo-token-contract/contracts"
	"github.com/nspcc-dev/neo-token-contract/deploy"
	"github.com/nspcc-dev/neo-token-contract/ledger"
	"github.com/nspcc-dev/neo-token-contract/rpc/token"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var (
	syncCommand = cli.Command{
		Name:   "sync",
		Usage:  "Replace local ledger state with the storage of the deployed token contract",
		Action: action(syncLedger),
	}

	deployCommand = cli.Command{
		Name:  "deploy",
		Usage: "Deploy token contract to the blockchain",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "sender", Usage: "Account paying for deployment, must be in the wallet"},
			cli.StringFlag{Name: "src", Usage: "Directory with contract Go sources and config.yml"},
			cli.StringFlag{Name: "compiled", Usage: "Directory with contract.nef and manifest.json"},
			cli.StringFlag{Name: "admin", Usage: "Initialize token with this administrator"},
			cli.UintFlag{Name: "decimals", Usage: "Decimal precision of amounts"},
			cli.StringFlag{Name: "name", Usage: "Token name"},
			cli.StringFlag{Name: "symbol", Usage: "Token symbol"},
		},
		Action: action(deployToken),
	}

	remoteCommand = cli.Command{
		Name:  "remote",
		Usage: "Call deployed token contract",
		Subcommands: []cli.Command{
			{
				Name:   "info",
				Usage:  "Print token configuration and total supply",
				Action: action(remoteInfo),
			},
			{
				Name:      "balance",
				Usage:     "Print balance of the account",
				ArgsUsage: "<account>",
				Action:    action(remoteBalance),
			},
			{
				Name:  "init",
				Usage: "Initialize deployed token",
				Flags: []cli.Flag{
					cli.StringFlag{Name: "sender", Usage: "Account signing transaction, must be in the wallet"},
					cli.StringFlag{Name: "admin", Usage: "Account allowed to mint tokens"},
					cli.UintFlag{Name: "decimals", Usage: "Decimal precision of amounts"},
					cli.StringFlag{Name: "name", Usage: "Token name"},
					cli.StringFlag{Name: "symbol", Usage: "Token symbol"},
				},
				Action: action(remoteInit),
			},
			{
				Name:  "mint",
				Usage: "Mint tokens signing transaction by the token administrator",
				Flags: []cli.Flag{
					cli.StringFlag{Name: "admin", Usage: "Token administrator, must be in the wallet"},
					cli.StringFlag{Name: "to", Usage: "Receiving account"},
					cli.StringFlag{Name: "amount", Usage: "Decimal amount of tokens"},
				},
				Action: action(remoteMint),
			},
			{
				Name:  "transfer",
				Usage: "Transfer tokens signing transaction by the sender",
				Flags: []cli.Flag{
					cli.StringFlag{Name: "from", Usage: "Sending account, must be in the wallet"},
					cli.StringFlag{Name: "to", Usage: "Receiving account"},
					cli.StringFlag{Name: "amount", Usage: "Decimal amount of tokens"},
				},
				Action: action(remoteTransfer),
			},
		},
	}
)

// remoteBlockchain wraps Neo RPC client connection.
type remoteBlockchain struct {
	cfg *config
	log *zap.Logger
	rpc *rpcclient.Client
}

// dial connects to the Neo RPC server from the configuration.
func dial(e *env) (*remoteBlockchain, error) {
	if e.cfg.RPC.Endpoint == "" {
		return nil, errors.New("Neo RPC endpoint is not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.RPC.DialTimeout)
	defer cancel()

	c, err := rpcclient.New(ctx, e.cfg.RPC.Endpoint, rpcclient.Options{
		DialTimeout:    e.cfg.RPC.DialTimeout,
		RequestTimeout: e.cfg.RPC.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init RPC client: %w", err)
	}

	return &remoteBlockchain{cfg: e.cfg, log: e.log, rpc: c}, nil
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
}

// reader returns reader of the configured token contract and its address.
func (x *remoteBlockchain) reader() (*token.ContractReader, util.Uint160, error) {
	h, err := x.cfg.contractHash()
	if err != nil {
		return nil, h, err
	}

	return token.NewReader(invoker.New(x.rpc, nil), h), h, nil
}

func (x *remoteBlockchain) actor(signer util.Uint160) (*actor.Actor, error) {
	acc, err := openAccount(x.cfg.Wallet, signer)
	if err != nil {
		return nil, err
	}

	return newActor(x.rpc, acc)
}

func newActor(c *rpcclient.Client, acc *wallet.Account) (*actor.Actor, error) {
	act, err := actor.NewSimple(c, acc)
	if err != nil {
		return nil, fmt.Errorf("init actor: %w", err)
	}

	return act, nil
}

// await waits for the transaction sent by the actor and checks it is
// executed successfully.
func (x *remoteBlockchain) await(act *actor.Actor, txHash util.Uint256, vub uint32, err error) error {
	if err != nil {
		return fmt.Errorf("send transaction: %w", err)
	}

	x.log.Info("transaction sent, waiting...", zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	ctx, cancel := context.WithTimeout(context.Background(), x.cfg.RPC.WaitTimeout)
	defer cancel()

	res, err := act.WaitAny(ctx, vub, txHash)
	if err != nil {
		return fmt.Errorf("wait for transaction %s: %w", txHash.StringLE(), err)
	}

	if res.VMState != vmstate.Halt {
		return fmt.Errorf("transaction %s failed: %s", txHash.StringLE(), res.FaultException)
	}

	x.log.Info("transaction successfully executed", zap.Stringer("tx", txHash))

	return nil
}

// iterateContractStorage passes all storage items of the given contract
// at the latest state root to f and breaks on f's error.
func (x *remoteBlockchain) iterateContractStorage(contract util.Uint160, f func(key, value []byte) error) error {
	h, err := x.rpc.GetStateHeight()
	if err != nil {
		return fmt.Errorf("get state height: %w", err)
	}

	stateRoot, err := x.rpc.GetStateRootByHeight(h.Local)
	if err != nil {
		return fmt.Errorf("get state root at block #%d: %w", h.Local, err)
	}

	var start []byte

	for {
		res, err := x.rpc.FindStates(stateRoot.Root, contract, nil, start, nil)
		if err != nil {
			return fmt.Errorf("get storage items of the contract at state root %s: %w", stateRoot.Root, err)
		}

		for i := range res.Results {
			err = f(res.Results[i].Key, res.Results[i].Value)
			if err != nil {
				return err
			}
		}

		if !res.Truncated || len(res.Results) == 0 {
			return nil
		}

		start = res.Results[len(res.Results)-1].Key
	}
}

func withRemote(e *env, f func(*remoteBlockchain) error) error {
	b, err := dial(e)
	if err != nil {
		return err
	}
	defer b.close()

	return f(b)
}

func syncLedger(_ *cli.Context, e *env) error {
	return withRemote(e, func(b *remoteBlockchain) error {
		cs, err := b.contractState()
		if err != nil {
			return err
		}

		e.log.Info("synchronizing with the token contract",
			zap.String("name", cs.Manifest.Name), zap.Stringer("address", cs.Hash), zap.Uint16("revision", cs.UpdateCounter))

		return withLedger(e, func(l *ledger.Ledger) error {
			return l.Sync(func(put func(key, value []byte) error) error {
				return b.iterateContractStorage(cs.Hash, put)
			})
		})
	})
}

func deployToken(c *cli.Context, e *env) error {
	err := requireFlags(c, "sender")
	if err != nil {
		return err
	}

	sender, err := accountFlag(c, "sender")
	if err != nil {
		return err
	}

	var ctr contracts.Contract

	switch {
	case c.IsSet("src"):
		ctr, err = contracts.Compile(c.String("src"))
	case c.IsSet("compiled"):
		ctr, err = contracts.Read(os.DirFS(c.String("compiled")), ".")
	default:
		err = errors.New("either --src or --compiled must be set")
	}
	if err != nil {
		return err
	}

	prm := deploy.Prm{
		Logger:   e.log,
		NEF:      ctr.NEF,
		Manifest: ctr.Manifest,
	}

	if c.IsSet("admin") {
		err = requireFlags(c, "decimals", "name", "symbol")
		if err != nil {
			return err
		}

		admin, err := accountFlag(c, "admin")
		if err != nil {
			return err
		}

		prm.Token = &deploy.TokenPrm{
			Admin:    admin,
			Decimals: uint32(c.Uint("decimals")),
			Name:     c.String("name"),
			Symbol:   c.String("symbol"),
		}
	}

	return withRemote(e, func(b *remoteBlockchain) error {
		prm.Actor, err = b.actor(sender)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), e.cfg.RPC.WaitTimeout)
		defer cancel()

		addr, err := deploy.Deploy(ctx, prm)
		if err != nil {
			return err
		}

		fmt.Fprintln(c.App.Writer, addr.StringLE())

		return nil
	})
}

func remoteInfo(c *cli.Context, e *env) error {
	return withRemote(e, func(b *remoteBlockchain) error {
		r, _, err := b.reader()
		if err != nil {
			return err
		}

		name, err := r.Name()
		if err != nil {
			return fmt.Errorf("get name: %w", err)
		}

		symbol, err := r.Symbol()
		if err != nil {
			return fmt.Errorf("get symbol: %w", err)
		}

		decimals, err := remoteDecimals(r)
		if err != nil {
			return err
		}

		supply, err := r.TotalSupply()
		if err != nil {
			return fmt.Errorf("get total supply: %w", err)
		}

		version, err := r.Version()
		if err != nil {
			return fmt.Errorf("get version: %w", err)
		}

		printInfo(c, name, symbol, decimals, supply)
		fmt.Fprintf(c.App.Writer, "Version:      %s\n", version)

		return nil
	})
}

func remoteDecimals(r *token.ContractReader) (uint32, error) {
	d, err := r.Decimals()
	if err != nil {
		return 0, fmt.Errorf("get decimals: %w", err)
	}

	if !d.IsUint64() || d.Uint64() > maxPrecision {
		return 0, fmt.Errorf("unsupported decimals %s", d)
	}

	return uint32(d.Uint64()), nil
}

func remoteBalance(c *cli.Context, e *env) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one account is expected, got %d", c.NArg())
	}

	acc, err := parseAccount(c.Args().First())
	if err != nil {
		return err
	}

	return withRemote(e, func(b *remoteBlockchain) error {
		r, _, err := b.reader()
		if err != nil {
			return err
		}

		decimals, err := remoteDecimals(r)
		if err != nil {
			return err
		}

		v, err := r.Balance(acc)
		if err != nil {
			return fmt.Errorf("get balance of %s: %w", address.Uint160ToString(acc), err)
		}

		fmt.Fprintln(c.App.Writer, formatAmount(v, decimals))

		return nil
	})
}

func remoteInit(c *cli.Context, e *env) error {
	err := requireFlags(c, "sender", "admin", "decimals", "name", "symbol")
	if err != nil {
		return err
	}

	sender, err := accountFlag(c, "sender")
	if err != nil {
		return err
	}

	admin, err := accountFlag(c, "admin")
	if err != nil {
		return err
	}

	return withRemote(e, func(b *remoteBlockchain) error {
		h, err := e.cfg.contractHash()
		if err != nil {
			return err
		}

		act, err := b.actor(sender)
		if err != nil {
			return err
		}

		txHash, vub, err := token.New(act, h).Initialize(admin,
			new(big.Int).SetUint64(uint64(c.Uint("decimals"))), c.String("name"), c.String("symbol"))

		return b.await(act, txHash, vub, err)
	})
}

func remoteMint(c *cli.Context, e *env) error {
	err := requireFlags(c, "admin", "to", "amount")
	if err != nil {
		return err
	}

	admin, err := accountFlag(c, "admin")
	if err != nil {
		return err
	}

	to, err := accountFlag(c, "to")
	if err != nil {
		return err
	}

	return withRemote(e, func(b *remoteBlockchain) error {
		r, h, err := b.reader()
		if err != nil {
			return err
		}

		decimals, err := remoteDecimals(r)
		if err != nil {
			return err
		}

		amount, err := parseAmount(c.String("amount"), decimals)
		if err != nil {
			return err
		}

		act, err := b.actor(admin)
		if err != nil {
			return err
		}

		txHash, vub, err := token.New(act, h).Mint(to, amount)

		return b.await(act, txHash, vub, err)
	})
}

func remoteTransfer(c *cli.Context, e *env) error {
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

	return withRemote(e, func(b *remoteBlockchain) error {
		r, h, err := b.reader()
		if err != nil {
			return err
		}

		decimals, err := remoteDecimals(r)
		if err != nil {
			return err
		}

		amount, err := parseAmount(c.String("amount"), decimals)
		if err != nil {
			return err
		}

		act, err := b.actor(from)
		if err != nil {
			return err
		}

		txHash, vub, err := token.New(act, h).Transfer(from, to, amount)

		return b.await(act, txHash, vub, err)
	})
}

// contractState returns state of the deployed token contract.
func (x *remoteBlockchain) contractState() (*state.Contract, error) {
	h, err := x.cfg.contractHash()
	if err != nil {
		return nil, err
	}

	cs, err := x.rpc.GetContractStateByHash(h)
	if err != nil {
		return nil, fmt.Errorf("get state of the token contract %s: %w", h.StringLE(), err)
	}

	return cs, nil
}
