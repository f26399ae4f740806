package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"golang.org/x/term"
)

// passwordEnv is the environment variable with the wallet password. If
// unset, the password is prompted from the terminal.
const passwordEnv = "TOKEN_LEDGER_PASSWORD"

var errMissingWallet = errors.New("wallet is not configured")

// openAccount opens the wallet and decrypts its account with the given
// script hash.
func openAccount(walletPath string, acc util.Uint160) (*wallet.Account, error) {
	if walletPath == "" {
		return nil, errMissingWallet
	}

	w, err := wallet.NewWalletFromFile(walletPath)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}
	defer w.Close()

	a := w.GetAccount(acc)
	if a == nil {
		return nil, fmt.Errorf("account %s is missing in the wallet %s", acc.StringLE(), walletPath)
	}

	pass, err := readPassword(fmt.Sprintf("Password for %s > ", a.Address))
	if err != nil {
		return nil, err
	}

	err = a.Decrypt(pass, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account %s: %w", a.Address, err)
	}

	return a, nil
}

func readPassword(prompt string) (string, error) {
	if pass, ok := os.LookupEnv(passwordEnv); ok {
		return pass, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no terminal to read password from, set %s", passwordEnv)
	}

	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	return strings.TrimRight(string(pass), "\r\n"), nil
}
