/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package chain resolves the configured chain id to a known network and
// dials its RPC endpoint.
package chain

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"chainguard.dev/registryguard/failure"
	"github.com/chainguard-dev/clog"
	"github.com/ethereum/go-ethereum/ethclient"
	"gopkg.in/yaml.v3"
)

//go:embed chains.yaml
var chainsYAML []byte

// Chain is a network the registry can live on.
type Chain struct {
	ID   uint64 `yaml:"id"`
	Name string `yaml:"name"`
	RPC  string `yaml:"rpc"`
}

var known = sync.OnceValues(func() (map[uint64]Chain, error) {
	var chains []Chain
	if err := yaml.Unmarshal(chainsYAML, &chains); err != nil {
		return nil, fmt.Errorf("parsing chain table: %w", err)
	}
	byID := make(map[uint64]Chain, len(chains))
	for _, c := range chains {
		byID[c.ID] = c
	}
	return byID, nil
})

// Lookup returns the chain with the given id. Unknown ids fail with a
// ChainUnsupported failure.
func Lookup(id uint64) (Chain, error) {
	chains, err := known()
	if err != nil {
		return Chain{}, err
	}
	c, ok := chains[id]
	if !ok {
		return Chain{}, failure.ChainUnsupportedError(id)
	}
	return c, nil
}

// Dial connects to rpcURL, or to the chain's default endpoint when rpcURL
// is empty.
func Dial(ctx context.Context, c Chain, rpcURL string) (*ethclient.Client, error) {
	if rpcURL == "" {
		rpcURL = c.RPC
	}
	clog.FromContext(ctx).With("chain", c.Name).With("rpc", rpcURL).Info("Connecting to chain")

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dialing %s rpc: %w", c.Name, err)
	}
	return client, nil
}
