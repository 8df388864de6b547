/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main implements registryguard, a GitHub Actions step validating
// pull requests against a metadata registry repository.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chainguard-dev/clog"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		var we *workflowError
		if errors.As(err, &we) {
			writeActionsError(os.Stdout, we.err)
		} else {
			clog.ErrorContextf(ctx, "%v", err)
		}
		os.Exit(1)
	}
}

// workflowError marks a run error to be reported as a workflow annotation.
type workflowError struct {
	err error
}

func (e *workflowError) Error() string { return e.err.Error() }

func (e *workflowError) Unwrap() error { return e.err }

var workflowEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

// writeActionsError prints err as a workflow error annotation, which also
// marks the step as failed.
func writeActionsError(w io.Writer, err error) {
	fmt.Fprintf(w, "::error::%s\n", workflowEscaper.Replace(err.Error()))
}
