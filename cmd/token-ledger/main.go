// Command token-ledger operates the token ledger kept in the local storage
// and the token contract deployed to the Neo blockchain.
package main

import (
	"fmt"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// Version of the application, set at build time.
var Version = "dev"

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "token-ledger"
	app.Usage = "Minimal token ledger backed by local storage or Neo N3 contract"
	app.Version = Version
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config, c",
			Usage:  "Path to the YAML configuration file",
			EnvVar: "TOKEN_LEDGER_CONFIG",
		},
	}
	app.Commands = []cli.Command{
		initCommand,
		mintCommand,
		transferCommand,
		balanceCommand,
		infoCommand,
		holdersCommand,
		syncCommand,
		deployCommand,
		remoteCommand,
	}

	return app
}

// env groups resources shared by commands.
type env struct {
	cfg *config
	log *zap.Logger
}

// action reads configuration, constructs logger and passes them to f.
func action(f func(*cli.Context, *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := readConfig(c.GlobalString("config"))
		if err != nil {
			return err
		}

		log, err := newLogger(cfg.Logger)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		return f(c, &env{cfg: cfg, log: log})
	}
}

func requireFlags(c *cli.Context, names ...string) error {
	for i := range names {
		if !c.IsSet(names[i]) {
			return fmt.Errorf("missing required flag --%s", names[i])
		}
	}

	return nil
}

func accountFlag(c *cli.Context, name string) (res util.Uint160, err error) {
	res, err = parseAccount(c.String(name))
	if err != nil {
		return res, fmt.Errorf("--%s: %w", name, err)
	}
	return res, nil
}
