// Tideland Go Workpool - Metrics
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

// Package metrics exports the statistics of a work pool to Prometheus.
//
//	registry := prometheus.NewRegistry()
//	registry.MustRegister(metrics.NewCollector(pool))
//
// Each scrape reads a new snapshot, the pool itself is not touched
// by the collector.
package metrics // import "tideland.dev/go/workpool/metrics"

// EOF
