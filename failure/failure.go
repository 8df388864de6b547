/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package failure defines the typed validation failures reported to
// contributors and the single helper that both notifies the pull request
// and returns the failure as an error.
//
// Rendering is pure: the constructors on Messages only build text.
// Dispatch happens in Raise, so message content is testable on its own.
package failure

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/registryguard/notify"
	"github.com/chainguard-dev/clog"
)

// Kind classifies a failure.
type Kind string

const (
	NotAllowedChanges     Kind = "NotAllowedChanges"
	MultipleEntities      Kind = "MultipleEntities"
	MissingMetadata       Kind = "MissingMetadata"
	EmptyChangeSet        Kind = "EmptyChangeSet"
	InvalidMetadata       Kind = "InvalidMetadata"
	InvalidLogo           Kind = "InvalidLogo"
	UnregisteredEntity    Kind = "UnregisteredEntity"
	InvalidVault          Kind = "InvalidVault"
	UnknownCollateral     Kind = "UnknownCollateral"
	InvalidRewardsType    Kind = "InvalidRewardsType"
	RewardsNotFromFactory Kind = "RewardsNotFromFactory"
	RewardsVaultMismatch  Kind = "RewardsVaultMismatch"
	ChainUnsupported      Kind = "ChainUnsupported"
)

// Failure is a contributor-facing validation failure. It carries the notice
// posted to the pull request and the short reason used in the run summary.
type Failure struct {
	Kind Kind

	// Reason is the one-line explanation returned as the error message.
	Reason string

	// Comment is the markdown body posted as a pull request comment.
	Comment string

	// Review, when set, is submitted instead of Comment.
	Review *notify.Review
}

// Error implements error.
func (f *Failure) Error() string {
	return f.Reason
}

// HasNotice reports whether the failure has something to post.
func (f *Failure) HasNotice() bool {
	return f.Comment != "" || f.Review != nil
}

// KindOf returns the Kind of the first Failure in err's tree.
func KindOf(err error) (Kind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return "", false
}

// Is reports whether err's tree contains a Failure of kind k.
func Is(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}

// Raise posts the failure's notice, if any, and returns the failure as an
// error. A notification error is joined to the failure rather than replacing
// it, so callers can still inspect the Kind.
func Raise(ctx context.Context, n notify.Notifier, f *Failure) error {
	log := clog.FromContext(ctx).With("kind", string(f.Kind))
	log.With("reason", f.Reason).Warn("Validation failed")

	if !f.HasNotice() {
		return f
	}

	var err error
	if f.Review != nil {
		err = n.AddReview(ctx, *f.Review)
	} else {
		err = n.AddComment(ctx, f.Comment)
	}
	if err != nil {
		log.With("error", err).Error("Failed to notify pull request")
		return errors.Join(f, fmt.Errorf("notifying pull request: %w", err))
	}
	return f
}
