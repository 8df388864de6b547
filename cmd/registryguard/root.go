/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"strings"

	"chainguard.dev/registryguard/config"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
)

// inputs are the action inputs that can also be passed as flags. A flag
// named "chain-id" overrides the chain-id input.
var inputs = []struct {
	name  string
	usage string
}{
	{"files", "space-delimited changed paths"},
	{"chain-id", "id of the chain holding the registries"},
	{"rpc-url", "RPC endpoint, defaults to the chain's public endpoint"},
	{"vault-registry", "vault registry contract"},
	{"network-registry", "network registry contract"},
	{"operator-registry", "operator registry contract"},
	{"rewards-factory", "rewards factory contract, enables the rewards check"},
	{"upstream-checkout-path", "checkout of the base branch used to look up collateral tokens"},
	{"guidelines-url", "contribution guidelines linked from every notice"},
	{"max-logo-bytes", "maximum logo size in bytes"},
	{"rpc-timeout", "timeout of each contract call"},
	{"root", "checkout of the pull request head"},
	{"diff-file", "unified diff to derive changed paths from when files is empty"},
	{"base-ref", "git ref to diff HEAD against when files and diff-file are empty"},
	{"metrics-file", "write Prometheus metrics of the run to this file"},
}

// inputEnv is the config key of an input, e.g. INPUT_CHAIN_ID for "chain-id".
func inputEnv(name string) string {
	return "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registryguard",
		Short: "Validate a registry pull request",
		Long: "registryguard checks that a pull request changes exactly one registry entity, " +
			"that its metadata and logo follow the registry rules, and that the entity matches on-chain state.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := make(map[string]string)
			for _, in := range inputs {
				if cmd.Flags().Changed(in.name) {
					v, err := cmd.Flags().GetString(in.name)
					if err != nil {
						return err
					}
					flags[inputEnv(in.name)] = v
				}
			}

			cfg, err := config.Load(cmd.Context(), envconfig.MultiLookuper(
				envconfig.MapLookuper(flags),
				config.Environment(),
			))
			if err != nil {
				return err
			}
			if err := run(cmd.Context(), cfg, cmd.ErrOrStderr()); err != nil {
				if cfg.Actions {
					return &workflowError{err: err}
				}
				return err
			}
			return nil
		},
	}

	for _, in := range inputs {
		cmd.Flags().String(in.name, "", in.usage+" (input "+in.name+")")
	}
	return cmd
}
