// Tideland Go Workpool - Statistics
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package workpool

import (
	"sync/atomic"
	"time"
)

// counters are updated by the pool and its workers.
type counters struct {
	alive     atomic.Int64
	running   atomic.Int64
	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	busy      atomic.Int64
}

// Stats is a snapshot of the pool state.
type Stats struct {
	Name      string        `json:"name"`
	Workers   int           `json:"workers"`
	Alive     int           `json:"alive"`
	Running   int           `json:"running"`
	Queued    int           `json:"queued"`
	Submitted int64         `json:"submitted"`
	Completed int64         `json:"completed"`
	Failed    int64         `json:"failed"`
	Busy      time.Duration `json:"busy"`
}

// Stats returns the current statistics of the pool. The values are
// read one after another, so under load they are not a consistent cut.
func (p *Pool) Stats() Stats {
	return Stats{
		Name:      p.name,
		Workers:   len(p.workers),
		Alive:     int(p.stats.alive.Load()),
		Running:   int(p.stats.running.Load()),
		Queued:    p.queue.len(),
		Submitted: p.stats.submitted.Load(),
		Completed: p.stats.completed.Load(),
		Failed:    p.stats.failed.Load(),
		Busy:      time.Duration(p.stats.busy.Load()),
	}
}

// EOF
