// Tideland Go Workpool - Statistics Report
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package report

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tideland.dev/go/workpool/metrics"
)

// Reporter logs the statistics of a pool on a cron schedule.
type Reporter struct {
	source metrics.StatsSource
	cron   *cron.Cron
	logger *zap.Logger

	mu            sync.Mutex
	lastCompleted int64
}

// New creates a reporter. The schedule is a standard cron expression
// or a descriptor like "@every 30s".
func New(schedule string, source metrics.StatsSource, logger *zap.Logger) (*Reporter, error) {
	if logger == nil {
		logger = zap.L()
	}
	r := &Reporter{
		source: source,
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger: logger.Named("report"),
	}
	if _, err := r.cron.AddFunc(schedule, r.Report); err != nil {
		return nil, fmt.Errorf("invalid report schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Start begins the scheduled reporting in the background.
func (r *Reporter) Start() {
	r.cron.Start()
}

// Stop ends the scheduling. The returned context is done when a
// running report has finished.
func (r *Reporter) Stop() context.Context {
	return r.cron.Stop()
}

// Report logs the current statistics once.
func (r *Reporter) Report() {
	s := r.source.Stats()

	r.mu.Lock()
	delta := s.Completed - r.lastCompleted
	r.lastCompleted = s.Completed
	r.mu.Unlock()

	r.logger.Info("pool statistics",
		zap.String("pool", s.Name),
		zap.Int("workers", s.Workers),
		zap.Int("alive", s.Alive),
		zap.Int("running", s.Running),
		zap.Int("queued", s.Queued),
		zap.Int64("submitted", s.Submitted),
		zap.Int64("completed", s.Completed),
		zap.Int64("completed_since_last", delta),
		zap.Int64("failed", s.Failed),
		zap.Duration("busy", s.Busy))

	if s.Alive < s.Workers {
		r.logger.Warn("pool is degraded",
			zap.String("pool", s.Name),
			zap.Int("lost_workers", s.Workers-s.Alive))
	}
}

// EOF
