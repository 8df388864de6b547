/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package pipeline runs a validation of one pull request.

A run has three stages:

 1. Classification. The change set is resolved to a single entity. A
    failure here ends the run and no validator is executed.
 2. Deletion check. A deleted entity has nothing left to validate and the
    run succeeds.
 3. Fan-out. Every validator runs concurrently on the classified entity.
    A failing validator never cancels its siblings; all outcomes are
    collected before the run decides.

The run fails when any validator fails, with an AggregateError listing
every failure reason in registration order.

# Basic Usage

	p := pipeline.New(classifier.New(fsys, notifier, messages),
		pipeline.Named{Name: "entity", Validator: entityValidator},
		pipeline.Named{Name: "metadata", Validator: metadataValidator},
	)
	summary, err := p.Run(ctx, paths)
*/
package pipeline
