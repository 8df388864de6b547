/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package notify

import (
	"context"

	"github.com/chainguard-dev/clog"
)

// Local logs feedback instead of posting it. It is used when the run is not
// attached to a pull request, e.g. when validating a checkout locally.
type Local struct{}

var _ Notifier = Local{}

// AddComment implements Notifier.
func (Local) AddComment(ctx context.Context, body string) error {
	clog.FromContext(ctx).With("body", body).Info("Pull request comment")
	return nil
}

// AddReview implements Notifier.
func (Local) AddReview(ctx context.Context, review Review) error {
	log := clog.FromContext(ctx)
	log.With("body", review.Body).Info("Pull request review")
	for _, c := range review.Comments {
		log.With("path", c.Path).With("line", c.Line).With("body", c.Body).Info("Review comment")
	}
	return nil
}
