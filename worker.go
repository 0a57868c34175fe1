// Tideland Go Workpool - Worker
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package workpool

import (
	"runtime/debug"

	"github.com/coder/quartz"
	"go.uber.org/zap"
)

// worker takes items from the shared queue of its pool and processes
// them on its own goroutine until it receives a terminate marker or a
// task panics. Closing done is the join handle of the goroutine.
type worker struct {
	id      int
	queue   *queue
	stats   *counters
	clock   quartz.Clock
	handler ErrorHandler
	logger  *zap.Logger
	done    chan struct{}
	err     *TaskError
}

// newWorker creates a worker for the pool, it is not yet running.
func newWorker(id int, p *Pool, cfg *Config) *worker {
	return &worker{
		id:      id,
		queue:   p.queue,
		stats:   &p.stats,
		clock:   cfg.Clock(),
		handler: cfg.ErrorHandler(),
		logger:  p.logger.With(zap.Int("worker", id)),
		done:    make(chan struct{}),
	}
}

// run is the take loop of the worker.
func (w *worker) run() {
	defer close(w.done)
	defer w.stats.alive.Add(-1)
	defer w.queue.detach()

	for {
		it := w.queue.take()
		switch it.action {
		case actionProcess:
			if err := w.process(it); err != nil {
				return
			}
		case actionTerminate:
			w.logger.Info("worker terminating")
			return
		}
	}
}

// process executes the task of the item. A task that panics or ends
// its goroutine with runtime.Goexit is recorded as TaskError and ends
// the worker. The recording happens in the deferred function, on Goexit
// nothing after Execute is reached.
func (w *worker) process(it item) (terr *TaskError) {
	w.logger.Debug("worker got task; executing")
	w.stats.running.Add(1)
	start := w.clock.Now()
	returned := false

	defer func() {
		w.stats.running.Add(-1)
		w.stats.busy.Add(int64(w.clock.Since(start)))
		r := recover()
		if r == nil && !returned {
			r = errTaskAborted
		}
		if r != nil {
			terr = &TaskError{
				WorkerID:  w.id,
				Value:     r,
				Stack:     debug.Stack(),
				Timestamp: w.clock.Now(),
			}
			w.stats.failed.Add(1)
			w.fail(terr)
			if it.done != nil {
				it.done(terr)
			}
			return
		}
		w.stats.completed.Add(1)
		if it.done != nil {
			it.done(nil)
		}
	}()

	it.task.Execute()
	returned = true
	return nil
}

// fail records the failure of a task. The worker is not restarted.
func (w *worker) fail(err *TaskError) {
	w.err = err
	w.logger.Error("task failed, worker exits",
		zap.Any("cause", err.Value),
		zap.ByteString("stack", err.Stack))
	if w.handler != nil {
		w.handler.HandleError(err)
	}
}

// join waits until the worker goroutine has ended and returns the
// failure which ended it, if any.
func (w *worker) join() error {
	<-w.done
	if w.err != nil {
		return w.err
	}
	return nil
}

// EOF
