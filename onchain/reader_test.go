/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package onchain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var (
	registryAddr = common.HexToAddress("0x00000000000000000000000000000000000000f1")
	memberAddr   = common.HexToAddress("0x1BfBd3D9B1E4F1dAe24A3A07De9D57C3E7d4C9c3")
	tokenAddr    = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
)

func TestReaderIsEntity(t *testing.T) {
	r := NewReader(&fakeChain{
		members: map[common.Address][]common.Address{registryAddr: {memberAddr}},
	}, time.Second)

	tests := []struct {
		name string
		addr common.Address
		want bool
	}{
		{name: "member", addr: memberAddr, want: true},
		{name: "stranger", addr: tokenAddr, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.IsEntity(context.Background(), registryAddr, tt.addr)
			if err != nil {
				t.Fatalf("IsEntity() = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsEntity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReaderCollateral(t *testing.T) {
	r := NewReader(&fakeChain{
		collateral: map[common.Address]common.Address{memberAddr: tokenAddr},
	}, time.Second)

	got, err := r.Collateral(context.Background(), memberAddr)
	if err != nil {
		t.Fatalf("Collateral() = %v", err)
	}
	if got != tokenAddr {
		t.Errorf("Collateral() = %s, want %s", got.Hex(), tokenAddr.Hex())
	}
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name         string
		chain        *fakeChain
		timeout      time.Duration
		wantContract bool
		wantIs       error
	}{{
		name:         "no code",
		chain:        &fakeChain{},
		wantContract: true,
		wantIs:       ErrEmptyResult,
	}, {
		name:         "reverted",
		chain:        &fakeChain{errs: map[common.Address]error{memberAddr: revertError{}}},
		wantContract: true,
	}, {
		name:         "transport",
		chain:        &fakeChain{errs: map[common.Address]error{memberAddr: errors.New("connection refused")}},
		wantContract: false,
	}, {
		name:         "timeout",
		chain:        &fakeChain{block: true},
		timeout:      10 * time.Millisecond,
		wantContract: false,
		wantIs:       context.DeadlineExceeded,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.chain, tt.timeout)
			_, err := r.Collateral(context.Background(), memberAddr)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := IsContractError(err); got != tt.wantContract {
				t.Errorf("IsContractError(%v) = %v, want %v", err, got, tt.wantContract)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("error %v is not %v", err, tt.wantIs)
			}
		})
	}
}
