/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package onchain

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"chainguard.dev/registryguard/entity"
	"chainguard.dev/registryguard/failure"
	"chainguard.dev/registryguard/notify"
	"chainguard.dev/registryguard/schema"
	"github.com/chainguard-dev/clog"
	"github.com/ethereum/go-ethereum/common"
)

// DefaultStakingRewardsV2 is the only supported rewards contract type.
const DefaultStakingRewardsV2 = "defaultStakingRewardsV2"

// RewardsValidator checks the rewards contracts a vault declares.
type RewardsValidator struct {
	reader    *Reader
	notifier  notify.Notifier
	messages  failure.Messages
	chainName string
	factory   string
	fsys      fs.FS
}

// NewRewardsValidator returns a RewardsValidator reading metadata from fsys.
// An empty factory disables the check.
func NewRewardsValidator(r *Reader, n notify.Notifier, m failure.Messages, chainName, factory string, fsys fs.FS) *RewardsValidator {
	return &RewardsValidator{reader: r, notifier: n, messages: m, chainName: chainName, factory: factory, fsys: fsys}
}

// Validate checks every declared reward of d in order and stops at the
// first one that fails.
func (v *RewardsValidator) Validate(ctx context.Context, d *entity.Descriptor) error {
	if d.Type != entity.Vaults || v.factory == "" {
		return nil
	}
	log := clog.FromContext(ctx).With("vault", d.ID)

	name := path.Join(d.Dir(), entity.MetadataFile)
	data, err := fs.ReadFile(v.fsys, name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	var doc struct {
		Rewards []json.RawMessage `json:"rewards"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		// The metadata validator reports malformed documents.
		log.With("error", err).Debug("Skipping rewards of undecodable metadata")
		return nil
	}

	for i, raw := range doc.Rewards {
		var reward schema.Reward
		if err := json.Unmarshal(raw, &reward); err != nil {
			// Fields that decode are kept; the rest stay empty and fail below.
			log.With("reward", i).With("error", err).Debug("Malformed rewards entry")
		}
		if err := v.check(ctx, d, reward); err != nil {
			return err
		}
	}
	if len(doc.Rewards) > 0 {
		log.With("rewards", len(doc.Rewards)).Info("Rewards contracts are valid")
	}
	return nil
}

func (v *RewardsValidator) check(ctx context.Context, d *entity.Descriptor, reward schema.Reward) error {
	if reward.Type != DefaultStakingRewardsV2 {
		return failure.Raise(ctx, v.notifier, v.messages.InvalidRewardsType(reward.Address, reward.Type, DefaultStakingRewardsV2))
	}
	if !common.IsHexAddress(reward.Address) {
		return failure.Raise(ctx, v.notifier, v.messages.RewardsNotFromFactory(reward.Address, v.factory, v.chainName))
	}
	addr := common.HexToAddress(reward.Address)

	ok, err := v.reader.IsEntity(ctx, common.HexToAddress(v.factory), addr)
	if err != nil {
		return fmt.Errorf("checking rewards factory: %w", err)
	}
	if !ok {
		return failure.Raise(ctx, v.notifier, v.messages.RewardsNotFromFactory(reward.Address, v.factory, v.chainName))
	}

	vault, err := v.reader.RewardsVault(ctx, addr)
	if err != nil {
		return fmt.Errorf("reading rewards vault: %w", err)
	}
	if !strings.EqualFold(vault.Hex(), d.ID) {
		return failure.Raise(ctx, v.notifier, v.messages.RewardsVaultMismatch(reward.Address, vault.Hex(), d.ID))
	}
	return nil
}
