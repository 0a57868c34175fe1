// Tideland Go Workpool - Pool
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package workpool

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Executor defines the interface for types accepting tasks for
// background execution. It is implemented by Pool.
type Executor interface {
	// Execute submits the task without waiting for its completion.
	Execute(task Task) error
}

var errNilTask = errors.New("task must not be nil")

// Pool manages a fixed number of workers sharing one task queue.
type Pool struct {
	name      string
	workers   []*worker
	queue     *queue
	stats     counters
	logger    *zap.Logger
	closeOnce sync.Once
	closeErr  error
}

// New creates a pool with size workers and starts them. A size below
// one is a programming error and panics. A nil configuration means
// the defaults of NewConfig.
func New(size int, cfg *Config) (*Pool, error) {
	if size <= 0 {
		panic(fmt.Sprintf("workpool: pool size must be positive, got %d", size))
	}
	if cfg == nil {
		cfg = NewConfig()
	}
	if err := cfg.Error(); err != nil {
		return nil, err
	}

	p := &Pool{
		name:    cfg.Name(),
		workers: make([]*worker, size),
		queue:   newQueue(size),
		logger:  cfg.Logger().Named("workpool").With(zap.String("pool", cfg.Name())),
	}
	p.stats.alive.Store(int64(size))

	// Create and start workers.
	for i := range size {
		w := newWorker(i, p, cfg)
		p.workers[i] = w
		go w.run()
	}
	p.logger.Info("pool started", zap.Int("workers", size))

	return p, nil
}

// Execute submits a task for background execution. It never blocks
// and does not wait for the task. It fails with ClosedError once the
// pool is closing or no worker is alive anymore.
func (p *Pool) Execute(task Task) error {
	if task == nil {
		return errNilTask
	}
	return p.submit(processItem(task, nil))
}

// submit passes an item to the queue and counts it.
func (p *Pool) submit(it item) error {
	if err := p.queue.submit(it); err != nil {
		return err
	}
	p.stats.submitted.Add(1)
	return nil
}

// Close shuts the pool down. All tasks submitted before are processed,
// afterwards each worker receives one terminate marker. Close blocks
// until every worker has ended, there is no timeout. Failures of
// workers ended by panicking tasks are returned joined. Further calls
// return the result of the first one.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		// First enqueue all markers, then join. Joining a worker while
		// markers are still missing could wait for a marker another
		// worker has taken.
		p.logger.Info("sending terminate to all workers")
		p.queue.terminate(len(p.workers))

		var errs []error
		for _, w := range p.workers {
			p.logger.Info("shutting down worker", zap.Int("worker", w.id))
			if err := w.join(); err != nil {
				errs = append(errs, err)
			}
		}
		p.closeErr = errors.Join(errs...)
		p.logger.Info("pool stopped", zap.Int("failed_workers", len(errs)))
	})
	return p.closeErr
}

// Name returns the name of the pool.
func (p *Pool) Name() string {
	return p.name
}

// Size returns the number of workers the pool has been created with.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Ensure Pool implements Executor.
var _ Executor = (*Pool)(nil)

// EOF
