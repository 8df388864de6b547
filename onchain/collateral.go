/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package onchain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"chainguard.dev/registryguard/entity"
	"chainguard.dev/registryguard/failure"
	"chainguard.dev/registryguard/notify"
	"github.com/chainguard-dev/clog"
	"github.com/ethereum/go-ethereum/common"
)

// CollateralValidator checks that a vault's collateral token is described
// in the registry.
type CollateralValidator struct {
	reader    *Reader
	notifier  notify.Notifier
	messages  failure.Messages
	chainName string
	registry  fs.FS
}

// NewCollateralValidator returns a CollateralValidator looking tokens up in
// registry, a filesystem rooted at a checkout of the registry repository.
func NewCollateralValidator(r *Reader, n notify.Notifier, m failure.Messages, chainName string, registry fs.FS) *CollateralValidator {
	return &CollateralValidator{reader: r, notifier: n, messages: m, chainName: chainName, registry: registry}
}

// Validate checks the collateral of d, which must be a vault.
func (v *CollateralValidator) Validate(ctx context.Context, d *entity.Descriptor) error {
	if d.Type != entity.Vaults {
		return nil
	}
	log := clog.FromContext(ctx).With("vault", d.ID)

	token, err := v.reader.Collateral(ctx, common.HexToAddress(d.ID))
	switch {
	case err != nil && IsContractError(err):
		log.With("error", err).Debug("Collateral read rejected by contract")
		return failure.Raise(ctx, v.notifier, v.messages.InvalidVault(d.ID, v.chainName))
	case err != nil:
		return fmt.Errorf("reading vault collateral: %w", err)
	case token == (common.Address{}):
		return failure.Raise(ctx, v.notifier, v.messages.InvalidVault(d.ID, v.chainName))
	}
	log = log.With("collateral", token.Hex())

	known, err := v.hasToken(token)
	if err != nil {
		return err
	}
	if !known {
		return failure.Raise(ctx, v.notifier, v.messages.UnknownCollateral(token.Hex()))
	}
	log.Info("Vault collateral is known")
	return nil
}

// hasToken reports whether the tokens directory has an entry for token,
// ignoring address casing.
func (v *CollateralValidator) hasToken(token common.Address) (bool, error) {
	entries, err := fs.ReadDir(v.registry, string(entity.Tokens))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("listing tokens: %w", err)
	}
	for _, e := range entries {
		if strings.EqualFold(e.Name(), token.Hex()) {
			return true, nil
		}
	}
	return false, nil
}
