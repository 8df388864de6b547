/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// RPC provides OpenTelemetry metrics for contract calls. Counters that fail
// to initialize degrade to no-ops.
type RPC struct {
	calls  metric.Int64Counter
	errors metric.Int64Counter
}

// NewRPC creates RPC metrics on the meter with the given name.
func NewRPC(meterName string) *RPC {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	calls, err := meter.Int64Counter("registryguard.rpc.calls",
		metric.WithDescription("The number of contract calls made"),
		metric.WithUnit("{calls}"))
	if err != nil {
		slog.Warn("Failed to create rpc call counter, metrics will be disabled", "error", err, "meter", meterName)
		calls = noop.Int64Counter{}
	}

	errs, err := meter.Int64Counter("registryguard.rpc.errors",
		metric.WithDescription("The number of contract calls that failed"),
		metric.WithUnit("{calls}"))
	if err != nil {
		slog.Warn("Failed to create rpc error counter, metrics will be disabled", "error", err, "meter", meterName)
		errs = noop.Int64Counter{}
	}

	return &RPC{calls: calls, errors: errs}
}

// RecordCall records one call of method, and its failure when err is set.
func (m *RPC) RecordCall(ctx context.Context, method string, err error) {
	attrs := metric.WithAttributes(attribute.String("method", method))
	m.calls.Add(ctx, 1, attrs)
	if err != nil {
		m.errors.Add(ctx, 1, attrs)
	}
}
