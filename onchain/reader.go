/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package onchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"chainguard.dev/registryguard/metrics"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
)

// contractABI covers every method read by the validators.
const contractABI = `[
  {"type":"function","name":"isEntity","stateMutability":"view",
   "inputs":[{"name":"entity_","type":"address","internalType":"address"}],
   "outputs":[{"name":"","type":"bool","internalType":"bool"}]},
  {"type":"function","name":"collateral","stateMutability":"view",
   "inputs":[],
   "outputs":[{"name":"","type":"address","internalType":"address"}]},
  {"type":"function","name":"VAULT","stateMutability":"view",
   "inputs":[],
   "outputs":[{"name":"","type":"address","internalType":"address"}]}
]`

var parsedABI = mustParseABI(contractABI)

func mustParseABI(s string) abi.ABI {
	a, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(fmt.Sprintf("parsing contract abi: %v", err))
	}
	return a
}

var (
	// ErrEmptyResult is returned when a call returns no data, as calls to
	// addresses without code do.
	ErrEmptyResult = errors.New("contract returned no data")

	// ErrMalformedResult is returned when a call's output does not decode.
	ErrMalformedResult = errors.New("contract returned malformed data")
)

// IsContractError reports whether err came from the contract rather than
// the transport: a revert, an empty result or undecodable output.
func IsContractError(err error) bool {
	if errors.Is(err, ErrEmptyResult) || errors.Is(err, ErrMalformedResult) {
		return true
	}
	var rpcErr rpc.Error
	return errors.As(err, &rpcErr)
}

// Caller executes read-only contract calls. *ethclient.Client satisfies it.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Reader performs typed contract reads.
type Reader struct {
	caller  Caller
	timeout time.Duration
	metrics *metrics.RPC
}

// NewReader returns a Reader bounding every call by timeout. A zero timeout
// leaves calls bounded only by their context.
func NewReader(c Caller, timeout time.Duration) *Reader {
	return &Reader{
		caller:  c,
		timeout: timeout,
		metrics: metrics.NewRPC("chainguard.dev/registryguard/onchain"),
	}
}

// IsEntity reports whether registry recognizes addr.
func (r *Reader) IsEntity(ctx context.Context, registry, addr common.Address) (bool, error) {
	out, err := r.call(ctx, registry, "isEntity", addr)
	if err != nil {
		return false, err
	}
	v, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("isEntity on %s: %w", registry.Hex(), ErrMalformedResult)
	}
	return v, nil
}

// Collateral returns the collateral token of vault.
func (r *Reader) Collateral(ctx context.Context, vault common.Address) (common.Address, error) {
	return r.address(ctx, vault, "collateral")
}

// RewardsVault returns the vault a rewards contract distributes for.
func (r *Reader) RewardsVault(ctx context.Context, rewards common.Address) (common.Address, error) {
	return r.address(ctx, rewards, "VAULT")
}

func (r *Reader) address(ctx context.Context, to common.Address, method string) (common.Address, error) {
	out, err := r.call(ctx, to, method)
	if err != nil {
		return common.Address{}, err
	}
	v, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s on %s: %w", method, to.Hex(), ErrMalformedResult)
	}
	return v, nil
}

func (r *Reader) call(ctx context.Context, to common.Address, method string, args ...any) (out []any, err error) {
	defer func() { r.metrics.RecordCall(ctx, method, err) }()

	input, err := parsedABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", method, err)
	}

	callCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	raw, err := r.caller.CallContract(callCtx, ethereum.CallMsg{To: &to, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s on %s: %w", method, to.Hex(), err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s on %s: %w", method, to.Hex(), ErrEmptyResult)
	}

	out, err = parsedABI.Unpack(method, raw)
	if err != nil || len(out) == 0 {
		return nil, fmt.Errorf("%s on %s: %w", method, to.Hex(), ErrMalformedResult)
	}
	return out, nil
}
