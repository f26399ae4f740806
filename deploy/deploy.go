/*
Package deploy provides deployment of the token contract to the Neo
blockchain.
*/
package deploy

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"go.uber.org/zap"
)

// Actor groups functions needed to compose and send transactions to the
// blockchain and to wait for their execution.
type Actor interface {
	management.Actor

	// Sender returns account paying for transactions and deploying
	// contracts.
	Sender() util.Uint160

	// WaitAny waits until one of the given transactions is accepted to the
	// chain or ValidUntilBlock is passed.
	WaitAny(ctx context.Context, vub uint32, hashes ...util.Uint256) (*state.AppExecResult, error)
}

// TokenPrm groups initialization parameters of the token contract.
type TokenPrm struct {
	Admin    util.Uint160
	Decimals uint32
	Name     string
	Symbol   string
}

// Prm groups parameters of the token contract deployment.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Sends transactions to the blockchain.
	Actor Actor

	NEF      nef.File
	Manifest manifest.Manifest

	// Optional token configuration. If set, the contract is initialized
	// within the deployment transaction.
	Token *TokenPrm
}

// ErrDeployFailed is returned when deployment transaction has not been
// executed successfully.
var ErrDeployFailed = errors.New("deployment failed")

// Deploy deploys contract from Prm to the blockchain on behalf of
// Prm.Actor and returns its address. If the contract with the same address is
// already deployed, Deploy does nothing. Otherwise, Deploy sends deployment
// transaction and waits for its execution.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	log := prm.Logger
	if log == nil {
		log = zap.NewNop()
	}

	addr := state.CreateContractHash(prm.Actor.Sender(), prm.NEF.Checksum, prm.Manifest.Name)
	log = log.With(zap.String("contract", prm.Manifest.Name), zap.Stringer("address", addr))

	cs, err := management.NewReader(prm.Actor).GetContract(addr)
	if err != nil {
		return addr, fmt.Errorf("get contract state by address %s: %w", addr.StringLE(), err)
	}

	if cs != nil {
		log.Info("contract is already deployed, skip")
		return addr, nil
	}

	var data any
	if prm.Token != nil {
		data = []any{prm.Token.Admin, int64(prm.Token.Decimals), prm.Token.Name, prm.Token.Symbol}
	}

	err = ctx.Err()
	if err != nil {
		return addr, err
	}

	log.Info("sending deployment transaction...")

	txHash, vub, err := management.New(prm.Actor).Deploy(&prm.NEF, &prm.Manifest, data)
	if err != nil {
		return addr, fmt.Errorf("send deployment transaction: %w", err)
	}

	log.Info("deployment transaction sent, waiting...",
		zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	res, err := prm.Actor.WaitAny(ctx, vub, txHash)
	if err != nil {
		return addr, fmt.Errorf("wait for deployment transaction %s: %w", txHash.StringLE(), err)
	}

	if res.VMState != vmstate.Halt {
		return addr, fmt.Errorf("%w: transaction %s: %s", ErrDeployFailed, txHash.StringLE(), res.FaultException)
	}

	log.Info("contract successfully deployed")

	return addr, nil
}
