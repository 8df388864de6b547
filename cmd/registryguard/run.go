/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"chainguard.dev/registryguard/chain"
	"chainguard.dev/registryguard/changes"
	"chainguard.dev/registryguard/classifier"
	"chainguard.dev/registryguard/config"
	"chainguard.dev/registryguard/logo"
	"chainguard.dev/registryguard/metadata"
	"chainguard.dev/registryguard/metrics"
	"chainguard.dev/registryguard/notify"
	"chainguard.dev/registryguard/onchain"
	"chainguard.dev/registryguard/pipeline"
	"chainguard.dev/registryguard/report"
	"chainguard.dev/registryguard/schema"
	"github.com/chainguard-dev/clog"
)

func run(ctx context.Context, cfg *config.Config, logOut io.Writer) error {
	ctx = clog.WithLogger(ctx, newLogger(cfg.LogFormat, logOut))

	n, err := newNotifier(ctx, cfg)
	if err != nil {
		return err
	}

	paths, err := collectPaths(ctx, cfg)
	if err != nil {
		return err
	}
	clog.InfoContextf(ctx, "Validating %d changed path(s)", len(paths))

	c, err := chain.Lookup(cfg.ChainID)
	if err != nil {
		return err
	}
	client, err := chain.Dial(ctx, c, cfg.RPCURL)
	if err != nil {
		return err
	}
	defer client.Close()

	fsys := os.DirFS(cfg.Root)
	m := cfg.Messages()
	reader := onchain.NewReader(client, cfg.RPCTimeout)

	p := pipeline.New(classifier.New(fsys, n, m),
		pipeline.Named{Name: "entity", Validator: onchain.NewEntityValidator(reader, n, m, c.Name, cfg.Registries())},
		pipeline.Named{Name: "metadata", Validator: metadata.New(fsys, n, m, schema.DefaultRegistry())},
		pipeline.Named{Name: "logo", Validator: logo.New(fsys, n, m, cfg.MaxLogoBytes)},
		pipeline.Named{Name: "collateral", Validator: onchain.NewCollateralValidator(reader, n, m, c.Name, os.DirFS(cfg.TokensRoot()))},
		pipeline.Named{Name: "rewards", Validator: onchain.NewRewardsValidator(reader, n, m, c.Name, cfg.RewardsFactory, fsys)},
	)

	summary, runErr := p.Run(ctx, paths)

	if cfg.StepSummary != "" {
		if err := report.WriteStepSummary(cfg.StepSummary, summary); err != nil {
			clog.FromContext(ctx).With("error", err).Warn("Failed to write job summary")
		}
	}
	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			clog.FromContext(ctx).With("error", err).Warn("Failed to write metrics")
		}
	}
	return runErr
}

func newLogger(format string, w io.Writer) *clog.Logger {
	if format == "json" {
		return clog.New(slog.NewJSONHandler(w, nil))
	}
	return clog.New(slog.NewTextHandler(w, nil))
}

func newNotifier(ctx context.Context, cfg *config.Config) (notify.Notifier, error) {
	if !cfg.Online() {
		clog.InfoContextf(ctx, "No pull request context, logging feedback locally")
		return notify.Local{}, nil
	}
	pr, err := notify.PullRequestFromEvent(cfg.Repository, cfg.EventPath)
	if err != nil {
		return nil, err
	}
	clog.InfoContextf(ctx, "Posting feedback to %s", pr)
	return notify.NewGitHub(notify.NewClient(ctx, cfg.GitHubToken), pr), nil
}

// collectPaths returns the changed paths from the first configured source:
// the files input, a diff file, then the git history of the checkout.
func collectPaths(ctx context.Context, cfg *config.Config) ([]string, error) {
	switch {
	case cfg.Files != "":
		return changes.Split(cfg.Files), nil
	case cfg.DiffFile != "":
		f, err := os.Open(cfg.DiffFile)
		if err != nil {
			return nil, fmt.Errorf("opening diff: %w", err)
		}
		defer f.Close()
		return changes.FromDiff(f)
	case cfg.BaseRef != "":
		return changes.FromGit(ctx, cfg.Root, cfg.BaseRef)
	default:
		return nil, nil
	}
}
