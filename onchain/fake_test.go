/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package onchain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// revertError mimics the JSON-RPC error a node returns for a reverted call.
type revertError struct{}

func (revertError) Error() string  { return "execution reverted" }
func (revertError) ErrorCode() int { return 3 }

// fakeChain answers contract calls from in-memory state. Contracts absent
// from every map return no data, like addresses without code.
type fakeChain struct {
	members    map[common.Address][]common.Address
	collateral map[common.Address]common.Address
	vaults     map[common.Address]common.Address
	errs       map[common.Address]error
	block      bool

	mu    sync.Mutex
	calls []string
}

func (f *fakeChain) CallContract(ctx context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	method, err := parsedABI.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	to := *msg.To

	f.mu.Lock()
	f.calls = append(f.calls, method.Name)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := f.errs[to]; err != nil {
		return nil, err
	}

	switch method.Name {
	case "isEntity":
		members, ok := f.members[to]
		if !ok {
			return nil, nil
		}
		args, err := method.Inputs.Unpack(msg.Data[4:])
		if err != nil {
			return nil, err
		}
		addr := args[0].(common.Address)
		var found bool
		for _, m := range members {
			found = found || m == addr
		}
		return method.Outputs.Pack(found)
	case "collateral":
		return packAddress(method.Outputs.Pack, f.collateral, to)
	case "VAULT":
		return packAddress(method.Outputs.Pack, f.vaults, to)
	default:
		return nil, fmt.Errorf("unexpected method %s", method.Name)
	}
}

func packAddress(pack func(...any) ([]byte, error), m map[common.Address]common.Address, to common.Address) ([]byte, error) {
	v, ok := m[to]
	if !ok {
		return nil, nil
	}
	return pack(v)
}

func (f *fakeChain) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
