/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"fmt"
	"time"

	"chainguard.dev/registryguard/entity"
	"chainguard.dev/registryguard/failure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	validationCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registryguard_validations_total",
			Help: "Total number of validator runs",
		},
		[]string{"validator", "entity_type"},
	)

	failureCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registryguard_validation_failures_total",
			Help: "Total number of failed validator runs by failure kind",
		},
		[]string{"validator", "entity_type", "kind"},
	)

	durationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "registryguard_validation_duration_seconds",
			Help:    "Duration of validator runs",
			Buckets: prometheus.ExponentialBuckets(0.005, 4, 8),
		},
		[]string{"validator", "entity_type"},
	)
)

// errorKind labels errors that are not validation failures.
const errorKind = "error"

// Observer records the outcome of one validator for one entity type.
type Observer struct {
	validator  string
	entityType string

	runs     prometheus.Counter
	duration prometheus.Observer
}

// NewObserver returns an Observer for the named validator.
func NewObserver(validator string, t entity.Type) *Observer {
	labels := prometheus.Labels{
		"validator":   validator,
		"entity_type": string(t),
	}
	return &Observer{
		validator:  validator,
		entityType: string(t),
		runs:       validationCounter.With(labels),
		duration:   durationHistogram.With(labels),
	}
}

// Observe records a run that took d and ended with err.
func (o *Observer) Observe(d time.Duration, err error) {
	o.runs.Inc()
	o.duration.Observe(d.Seconds())
	if err == nil {
		return
	}
	kind := errorKind
	if k, ok := failure.KindOf(err); ok {
		kind = string(k)
	}
	failureCounter.WithLabelValues(o.validator, o.entityType, kind).Inc()
}

// WriteTextfile writes every metric of the default registry to path in the
// Prometheus text format.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
