/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package changes collects the repository-relative paths a pull request
// touches, from an explicit list, a unified diff or the git history of a
// checkout. Every source returns paths once each, in first-seen order.
package changes

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/waigani/diffparser"
)

const devNull = "/dev/null"

// set accumulates distinct paths in insertion order.
type set []string

func (s *set) add(p string) {
	if p == "" || p == devNull || slices.Contains(*s, p) {
		return
	}
	*s = append(*s, p)
}

// Split parses a whitespace-delimited list of paths.
func Split(input string) []string {
	var s set
	for _, p := range strings.Fields(input) {
		s.add(p)
	}
	return s
}

// FromDiff returns the paths touched by a unified diff. Both sides of a
// rename are included, as are binary files, which carry no ---/+++ lines.
func FromDiff(r io.Reader) ([]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading diff: %w", err)
	}
	d, err := diffparser.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	var s set
	for _, f := range d.Files {
		s.add(f.OrigName)
		s.add(f.NewName)
	}
	for _, line := range strings.Split(string(raw), "\n") {
		if from, to, ok := gitHeader(line); ok {
			s.add(from)
			s.add(to)
		}
	}
	return s, nil
}

// gitHeader parses "diff --git a/<from> b/<to>".
func gitHeader(line string) (from, to string, ok bool) {
	rest, ok := strings.CutPrefix(strings.TrimRight(line, "\r"), "diff --git a/")
	if !ok {
		return "", "", false
	}
	i := strings.LastIndex(rest, " b/")
	if i < 0 {
		return "", "", false
	}
	return rest[:i], rest[i+len(" b/"):], true
}

// FromGit returns the paths that differ between HEAD of the repository
// containing root and its merge base with baseRef.
func FromGit(ctx context.Context, root, baseRef string) ([]string, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}
	headCommit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("loading HEAD commit: %w", err)
	}

	baseHash, err := repo.ResolveRevision(plumbing.Revision(baseRef))
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", baseRef, err)
	}
	baseCommit, err := repo.CommitObject(*baseHash)
	if err != nil {
		return nil, fmt.Errorf("loading %s commit: %w", baseRef, err)
	}
	bases, err := baseCommit.MergeBase(headCommit)
	if err != nil {
		return nil, fmt.Errorf("finding merge base: %w", err)
	}
	if len(bases) > 0 {
		baseCommit = bases[0]
	}

	clog.FromContext(ctx).With("base", baseCommit.Hash.String()).
		With("head", headCommit.Hash.String()).
		Info("Diffing pull request commits")

	baseTree, err := baseCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("loading base tree: %w", err)
	}
	headTree, err := headCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("loading head tree: %w", err)
	}
	diff, err := object.DiffTreeWithOptions(ctx, baseTree, headTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("diffing trees: %w", err)
	}

	var s set
	for _, c := range diff {
		s.add(c.From.Name)
		s.add(c.To.Name)
	}
	return s, nil
}
