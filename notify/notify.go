/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package notify delivers validation feedback to the pull request that
// triggered the run.
//
// Two operations are supported: a plain comment on the pull request
// conversation, and a review that anchors one comment per finding to a file
// and line. GitHub posts through the REST API; Local writes the same
// content to the context logger for runs outside of GitHub Actions.
package notify

import "context"

// ReviewComment is an inline comment anchored to a file line.
type ReviewComment struct {
	// Path is the file path relative to the repository root.
	Path string `json:"path"`

	// Line is the 1-based line the comment is attached to.
	Line int `json:"line"`

	// Body is the markdown content of the comment.
	Body string `json:"body"`
}

// Review is a set of inline comments submitted together.
type Review struct {
	Body     string          `json:"body,omitempty"`
	Comments []ReviewComment `json:"comments,omitempty"`
}

// Notifier posts feedback to a pull request.
type Notifier interface {
	// AddComment posts body as a pull request comment.
	AddComment(ctx context.Context, body string) error

	// AddReview submits a comment-only review with inline comments.
	AddReview(ctx context.Context, review Review) error
}
