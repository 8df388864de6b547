/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package notifytest provides an in-memory notify.Notifier for tests.
package notifytest

import (
	"context"
	"slices"
	"sync"

	"chainguard.dev/registryguard/notify"
)

// Recorder captures every notification it receives. It is safe for
// concurrent use. When Err is set, every call records and returns it.
type Recorder struct {
	Err error

	mu       sync.Mutex
	comments []string
	reviews  []notify.Review
}

var _ notify.Notifier = (*Recorder)(nil)

// AddComment implements notify.Notifier.
func (r *Recorder) AddComment(_ context.Context, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments = append(r.comments, body)
	return r.Err
}

// AddReview implements notify.Notifier.
func (r *Recorder) AddReview(_ context.Context, review notify.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews = append(r.reviews, review)
	return r.Err
}

// Comments returns a copy of the recorded comment bodies.
func (r *Recorder) Comments() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.comments)
}

// Reviews returns a copy of the recorded reviews.
func (r *Recorder) Reviews() []notify.Review {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.reviews)
}

// Total returns the number of notifications of either kind.
func (r *Recorder) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.comments) + len(r.reviews)
}
