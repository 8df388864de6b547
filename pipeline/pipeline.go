/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"context"
	"strings"
	"time"

	"chainguard.dev/registryguard/entity"
	"chainguard.dev/registryguard/metrics"
	"chainguard.dev/registryguard/report"
	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

// Classifier resolves a change set to a single entity.
type Classifier interface {
	Classify(ctx context.Context, paths []string) (*entity.Descriptor, error)
}

// Validator checks one aspect of a classified entity.
type Validator interface {
	Validate(ctx context.Context, d *entity.Descriptor) error
}

// ValidatorFunc adapts a function to a Validator.
type ValidatorFunc func(ctx context.Context, d *entity.Descriptor) error

// Validate implements Validator.
func (f ValidatorFunc) Validate(ctx context.Context, d *entity.Descriptor) error {
	return f(ctx, d)
}

// Named labels a Validator in logs, metrics and the summary.
type Named struct {
	Name      string
	Validator Validator
}

// Pipeline gates validators behind classification.
type Pipeline struct {
	classifier Classifier
	validators []Named
}

// New returns a Pipeline running validators in the given order.
func New(c Classifier, validators ...Named) *Pipeline {
	return &Pipeline{classifier: c, validators: validators}
}

// Run validates the change set made of paths. The summary is returned even
// when the run fails.
func (p *Pipeline) Run(ctx context.Context, paths []string) (*report.Summary, error) {
	log := clog.FromContext(ctx)

	d, err := p.classifier.Classify(ctx, paths)
	if err != nil {
		return &report.Summary{Err: err}, err
	}
	s := &report.Summary{Entity: d}
	if d.Deleted {
		log.With("entity", d.Dir()).Info("Entity deleted, skipping validation")
		return s, nil
	}

	s.Outcomes = make([]report.Outcome, len(p.validators))
	g := new(errgroup.Group)
	for i, v := range p.validators {
		g.Go(func() error {
			start := time.Now()
			err := v.Validator.Validate(clog.WithLogger(ctx, log.With("validator", v.Name)), d)
			took := time.Since(start)

			metrics.NewObserver(v.Name, d.Type).Observe(took, err)
			s.Outcomes[i] = report.Outcome{Validator: v.Name, Err: err, Duration: took}
			return nil
		})
	}
	// Validators report through their outcome slot, never through the group.
	_ = g.Wait()

	var errs []error
	for _, o := range s.Outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	if len(errs) > 0 {
		return s, &AggregateError{Errs: errs}
	}
	log.With("entity", d.Dir()).With("validators", len(s.Outcomes)).Info("Validation passed")
	return s, nil
}

// AggregateError lists every validator failure of a run.
type AggregateError struct {
	Errs []error
}

// Error implements error.
func (e *AggregateError) Error() string {
	var sb strings.Builder
	sb.WriteString("Validation failed:")
	for _, err := range e.Errs {
		sb.WriteString("\n- ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap returns the individual failures.
func (e *AggregateError) Unwrap() []error {
	return e.Errs
}
