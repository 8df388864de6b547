/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package onchain

import (
	"context"
	"fmt"

	"chainguard.dev/registryguard/entity"
	"chainguard.dev/registryguard/failure"
	"chainguard.dev/registryguard/notify"
	"github.com/chainguard-dev/clog"
	"github.com/ethereum/go-ethereum/common"
)

// EntityValidator checks that an entity is registered in the registry of
// its type.
type EntityValidator struct {
	reader     *Reader
	notifier   notify.Notifier
	messages   failure.Messages
	chainName  string
	registries map[entity.Type]string
}

// NewEntityValidator returns an EntityValidator. Types missing from
// registries, or mapped to an empty address, are not checked.
func NewEntityValidator(r *Reader, n notify.Notifier, m failure.Messages, chainName string, registries map[entity.Type]string) *EntityValidator {
	return &EntityValidator{reader: r, notifier: n, messages: m, chainName: chainName, registries: registries}
}

// Validate checks that d is a member of its type's registry.
func (v *EntityValidator) Validate(ctx context.Context, d *entity.Descriptor) error {
	registry := v.registries[d.Type]
	if registry == "" {
		return nil
	}
	log := clog.FromContext(ctx).With("entity", d.Dir()).With("registry", registry)

	ok, err := v.reader.IsEntity(ctx, common.HexToAddress(registry), common.HexToAddress(d.ID))
	if err != nil {
		return fmt.Errorf("checking %s registration: %w", d.Type.Label(), err)
	}
	if !ok {
		return failure.Raise(ctx, v.notifier, v.messages.UnregisteredEntity(d.Type.Label(), d.ID, v.chainName, registry))
	}
	log.Info("Entity is registered")
	return nil
}
