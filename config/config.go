/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package config resolves the run configuration from GitHub Actions inputs
// (INPUT_* variables) and the Actions runtime environment.
//
// Actions exports an input named "chain-id" as INPUT_CHAIN-ID, which is not a
// valid field key. Fields use the underscore form (INPUT_CHAIN_ID) and
// InputLookuper resolves it against the dashed name first.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chainguard.dev/registryguard/entity"
	"chainguard.dev/registryguard/failure"
	"chainguard.dev/registryguard/logo"
	"github.com/sethvargo/go-envconfig"
)

// Config is resolved once per run and threaded into every component.
type Config struct {
	// Files is the space-delimited list of changed paths.
	Files string `env:"INPUT_FILES"`

	ChainID uint64 `env:"INPUT_CHAIN_ID,required"`
	RPCURL  string `env:"INPUT_RPC_URL"`

	// Registry contracts per entity type. An empty address disables the
	// membership check for that type.
	VaultRegistry    string `env:"INPUT_VAULT_REGISTRY"`
	NetworkRegistry  string `env:"INPUT_NETWORK_REGISTRY"`
	OperatorRegistry string `env:"INPUT_OPERATOR_REGISTRY"`

	// RewardsFactory enables the rewards check when set.
	RewardsFactory string `env:"INPUT_REWARDS_FACTORY"`

	// UpstreamCheckoutPath is a checkout of the base branch used to look up
	// collateral tokens. The working tree is used when empty.
	UpstreamCheckoutPath string `env:"INPUT_UPSTREAM_CHECKOUT_PATH"`

	GuidelinesURL string        `env:"INPUT_GUIDELINES_URL,default=https://github.com/symbioticfi/metadata-holesky/blob/main/README.md"`
	MaxLogoBytes  int64         `env:"INPUT_MAX_LOGO_BYTES,default=102400"`
	RPCTimeout    time.Duration `env:"INPUT_RPC_TIMEOUT,default=30s"`

	// Root is the checkout of the pull request head.
	Root string `env:"INPUT_ROOT,default=."`

	// DiffFile and BaseRef are fallbacks for deriving changed paths when
	// Files is empty, tried in that order.
	DiffFile string `env:"INPUT_DIFF_FILE"`
	BaseRef  string `env:"INPUT_BASE_REF"`

	// MetricsFile receives a Prometheus text export of the run when set.
	MetricsFile string `env:"INPUT_METRICS_FILE"`

	GitHubToken string `env:"GITHUB_TOKEN"`
	Repository  string `env:"GITHUB_REPOSITORY"`
	EventPath   string `env:"GITHUB_EVENT_PATH"`
	Actions     bool   `env:"GITHUB_ACTIONS,default=false"`
	StepSummary string `env:"GITHUB_STEP_SUMMARY"`

	// LogFormat selects the log handler: "text" or "json".
	LogFormat string `env:"LOG_FORMAT,default=text"`
}

const inputPrefix = "INPUT_"

// InputLookuper returns a Lookuper that resolves INPUT_X_Y to the INPUT_X-Y
// variable exported by Actions, falling back to INPUT_X_Y itself. Other keys
// are passed through.
func InputLookuper(l envconfig.Lookuper) envconfig.Lookuper {
	return &inputLookuper{next: l}
}

type inputLookuper struct {
	next envconfig.Lookuper
}

// Lookup implements envconfig.Lookuper.
func (l *inputLookuper) Lookup(key string) (string, bool) {
	if name, ok := strings.CutPrefix(key, inputPrefix); ok {
		if v, ok := l.next.Lookup(inputPrefix + strings.ReplaceAll(name, "_", "-")); ok {
			return v, true
		}
	}
	return l.next.Lookup(key)
}

// Environment is the process environment as Actions exports it.
func Environment() envconfig.Lookuper {
	return InputLookuper(envconfig.OsLookuper())
}

// Load resolves a Config from l.
func Load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("processing config: %w", err)
	}
	if cfg.MaxLogoBytes <= 0 {
		cfg.MaxLogoBytes = logo.DefaultMaxBytes
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("unsupported LOG_FORMAT %q: expected text or json", cfg.LogFormat)
	}
	return &cfg, nil
}

// Registries maps entity types to their registry contracts.
func (c *Config) Registries() map[entity.Type]string {
	return map[entity.Type]string{
		entity.Vaults:    c.VaultRegistry,
		entity.Networks:  c.NetworkRegistry,
		entity.Operators: c.OperatorRegistry,
	}
}

// Online reports whether feedback can be posted to a pull request.
func (c *Config) Online() bool {
	return c.GitHubToken != "" && c.Repository != "" && c.EventPath != ""
}

// Messages returns the notice renderer for this run.
func (c *Config) Messages() failure.Messages {
	return failure.Messages{GuidelinesURL: c.GuidelinesURL}
}

// TokensRoot is the checkout whose tokens directory lists known collateral.
func (c *Config) TokensRoot() string {
	if c.UpstreamCheckoutPath != "" {
		return c.UpstreamCheckoutPath
	}
	return c.Root
}
