/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"
)

// PullRequest identifies the pull request feedback is posted to.
type PullRequest struct {
	Owner  string
	Repo   string
	Number int
}

// String returns the pull request as "owner/repo#number".
func (pr PullRequest) String() string {
	return fmt.Sprintf("%s/%s#%d", pr.Owner, pr.Repo, pr.Number)
}

// eventPayload holds the parts of a GitHub Actions event we need to find
// the originating issue or pull request.
type eventPayload struct {
	Number      *int                `json:"number"`
	Issue       *github.Issue       `json:"issue"`
	PullRequest *github.PullRequest `json:"pull_request"`
}

// PullRequestFromEvent resolves the pull request from the GITHUB_REPOSITORY
// value ("owner/repo") and the event payload found at eventPath.
func PullRequestFromEvent(repository, eventPath string) (PullRequest, error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" {
		return PullRequest{}, fmt.Errorf("invalid repository %q: expected owner/repo", repository)
	}

	data, err := os.ReadFile(eventPath)
	if err != nil {
		return PullRequest{}, fmt.Errorf("reading event payload: %w", err)
	}

	number, err := eventNumber(data)
	if err != nil {
		return PullRequest{}, err
	}

	return PullRequest{Owner: owner, Repo: repo, Number: number}, nil
}

// eventNumber extracts the issue number from an event payload, preferring
// the issue, then the pull request, then the top-level number.
func eventNumber(data []byte) (int, error) {
	var payload eventPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return 0, fmt.Errorf("parsing event payload: %w", err)
	}

	switch {
	case payload.Issue != nil && payload.Issue.GetNumber() != 0:
		return payload.Issue.GetNumber(), nil
	case payload.PullRequest != nil && payload.PullRequest.GetNumber() != 0:
		return payload.PullRequest.GetNumber(), nil
	case payload.Number != nil && *payload.Number != 0:
		return *payload.Number, nil
	default:
		return 0, errors.New("event payload does not reference an issue or pull request")
	}
}

// NewClient returns a GitHub client authenticated with a static token.
func NewClient(ctx context.Context, token string) *github.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return github.NewClient(oauth2.NewClient(ctx, ts))
}

// GitHub posts feedback through the GitHub REST API.
type GitHub struct {
	client *github.Client
	pr     PullRequest
}

var _ Notifier = (*GitHub)(nil)

// NewGitHub returns a Notifier that posts to pr using client.
func NewGitHub(client *github.Client, pr PullRequest) *GitHub {
	return &GitHub{client: client, pr: pr}
}

// AddComment implements Notifier.
func (g *GitHub) AddComment(ctx context.Context, body string) error {
	clog.FromContext(ctx).With("pull_request", g.pr.String()).Info("Posting comment")

	if _, _, err := g.client.Issues.CreateComment(ctx, g.pr.Owner, g.pr.Repo, g.pr.Number, &github.IssueComment{
		Body: github.Ptr(body),
	}); err != nil {
		return fmt.Errorf("posting comment: %w", err)
	}
	return nil
}

// AddReview implements Notifier.
func (g *GitHub) AddReview(ctx context.Context, review Review) error {
	clog.FromContext(ctx).With("pull_request", g.pr.String()).
		With("comments", len(review.Comments)).
		Info("Submitting review")

	comments := make([]*github.DraftReviewComment, 0, len(review.Comments))
	for _, c := range review.Comments {
		comments = append(comments, &github.DraftReviewComment{
			Path: github.Ptr(c.Path),
			Line: github.Ptr(c.Line),
			Body: github.Ptr(c.Body),
		})
	}

	req := &github.PullRequestReviewRequest{
		Event:    github.Ptr("COMMENT"),
		Comments: comments,
	}
	if review.Body != "" {
		req.Body = github.Ptr(review.Body)
	}

	if _, _, err := g.client.PullRequests.CreateReview(ctx, g.pr.Owner, g.pr.Repo, g.pr.Number, req); err != nil {
		return fmt.Errorf("submitting review: %w", err)
	}
	return nil
}
