/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics records validation outcomes and contract calls.
//
// Validation outcomes are Prometheus counters and histograms registered on
// the default registry. A run is short-lived, so they are exported once at
// the end through WriteTextfile for a node-exporter textfile collector.
//
// Contract calls are recorded through OpenTelemetry so that a long-running
// host can route them to its own meter provider. Without one the global
// no-op provider discards them.
//
// # Basic Usage
//
//	obs := metrics.NewObserver("logo", entity.Tokens)
//	start := time.Now()
//	err := v.Validate(ctx, d)
//	obs.Observe(time.Since(start), err)
//
//	if err := metrics.WriteTextfile("/var/lib/node_exporter/registryguard.prom"); err != nil {
//		return err
//	}
package metrics
