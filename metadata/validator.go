/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metadata

import (
	"context"
	"fmt"
	"io/fs"

	"chainguard.dev/registryguard/entity"
	"chainguard.dev/registryguard/failure"
	"chainguard.dev/registryguard/notify"
	"chainguard.dev/registryguard/schema"
	"github.com/chainguard-dev/clog"
)

// Validator checks changed metadata documents.
type Validator struct {
	fsys     fs.FS
	notifier notify.Notifier
	messages failure.Messages
	checker  *Checker
}

// New returns a Validator reading documents from fsys.
func New(fsys fs.FS, n notify.Notifier, m failure.Messages, reg *schema.Registry) *Validator {
	return &Validator{fsys: fsys, notifier: n, messages: m, checker: NewChecker(reg)}
}

// Validate checks d's metadata document, if it changed. Every violation
// becomes one inline comment of a single review.
func (v *Validator) Validate(ctx context.Context, d *entity.Descriptor) error {
	if d.Metadata == "" {
		return nil
	}
	log := clog.FromContext(ctx).With("path", d.Metadata)

	data, err := fs.ReadFile(v.fsys, d.Metadata)
	if err != nil {
		return fmt.Errorf("reading %s: %w", d.Metadata, err)
	}

	violations, err := v.checker.Check(d.Type, data)
	if err != nil {
		return err
	}
	if len(violations) == 0 {
		log.Info("Metadata is valid")
		return nil
	}

	comments := make([]notify.ReviewComment, 0, len(violations))
	for _, vi := range violations {
		comments = append(comments, notify.ReviewComment{
			Path: d.Metadata,
			Line: vi.Line,
			Body: vi.Message,
		})
	}
	log.With("violations", len(violations)).Info("Metadata violates schema")
	return failure.Raise(ctx, v.notifier, v.messages.InvalidMetadata(d.Metadata, comments))
}
