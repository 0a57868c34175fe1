// Tideland Go Workpool - Worker Tests
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package workpool

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/coder/quartz"
	"go.uber.org/zap"
	"tideland.dev/go/audit/asserts"
)

// -----------------------------------------------------------------------------
// Tests
// -----------------------------------------------------------------------------

// TestWorkerTerminates tests that a worker ends on its terminate marker.
func TestWorkerTerminates(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	p, w := startTestWorker(t, NewConfig())

	p.queue.terminate(1)
	assert.NoError(w.join())
	assert.Equal(p.stats.alive.Load(), int64(0))

	// Without receiver the queue is closed.
	assert.True(IsClosed(p.queue.submit(makeNamedItem("late"))))
}

// TestWorkerProcessesBeforeTerminating tests that tasks in front of the
// marker are executed.
func TestWorkerProcessesBeforeTerminating(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	p, w := startTestWorker(t, NewConfig())

	count := 0
	for range 3 {
		assert.NoError(p.queue.submit(processItem(TaskFunc(func() { count++ }), nil)))
	}
	p.queue.terminate(1)

	assert.NoError(w.join())
	assert.Equal(count, 3)
	assert.Equal(p.stats.completed.Load(), int64(3))
}

// TestWorkerDoneCallback tests that the done callback gets the outcome.
func TestWorkerDoneCallback(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	p, w := startTestWorker(t, NewConfig())

	results := make(chan error, 2)
	done := func(err error) { results <- err }
	assert.NoError(p.queue.submit(processItem(TaskFunc(func() {}), done)))
	assert.NoError(p.queue.submit(processItem(TaskFunc(func() { panic("boom") }), done)))

	assert.NoError(<-results)
	err := <-results
	var terr *TaskError
	assert.True(errors.As(err, &terr))
	assert.Equal(terr.Value, "boom")

	// The panic ended the worker without a marker.
	assert.True(errors.As(w.join(), &terr))
	assert.Equal(p.stats.failed.Load(), int64(1))
}

// TestWorkerBusyTime tests the measuring of task run times with a mock clock.
func TestWorkerBusyTime(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	clock := quartz.NewMock(t)
	p, w := startTestWorker(t, NewConfig().SetClock(clock))

	for range 2 {
		task := TaskFunc(func() {
			clock.Advance(1500 * time.Millisecond)
		})
		assert.NoError(p.queue.submit(processItem(task, nil)))
	}
	p.queue.terminate(1)

	assert.NoError(w.join())
	assert.Equal(time.Duration(p.stats.busy.Load()), 3*time.Second)
}

// TestWorkerErrorHandler tests that the handler is notified on failure.
func TestWorkerErrorHandler(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	var handled *TaskError
	cfg := NewConfig().SetErrorHandler(ErrorHandlerFunc(func(err *TaskError) {
		handled = err
	}))
	p, w := startTestWorker(t, cfg)

	assert.NoError(p.queue.submit(processItem(TaskFunc(func() { panic(42) }), nil)))

	err := w.join()
	assert.NotNil(err)
	assert.NotNil(handled)
	assert.Equal(handled.Value, 42)
	assert.Equal(handled.WorkerID, 0)
	assert.ErrorMatch(err, "task failed on worker 0 at .*: 42")
}

// TestWorkerGoexit tests that a task ending the goroutine of its worker
// is reported as failure and not as completion.
func TestWorkerGoexit(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	var handled *TaskError
	cfg := NewConfig().SetErrorHandler(ErrorHandlerFunc(func(err *TaskError) {
		handled = err
	}))
	p, w := startTestWorker(t, cfg)

	results := make(chan error, 1)
	task := TaskFunc(func() {
		runtime.Goexit()
	})
	assert.NoError(p.queue.submit(processItem(task, func(err error) { results <- err })))

	var terr *TaskError
	assert.True(errors.As(<-results, &terr))
	assert.True(errors.Is(terr, errTaskAborted))

	err := w.join()
	assert.True(errors.As(err, &terr))
	assert.True(errors.Is(err, errTaskAborted))
	assert.NotNil(handled)
	assert.Equal(p.stats.completed.Load(), int64(0))
	assert.Equal(p.stats.failed.Load(), int64(1))
	assert.Equal(p.stats.alive.Load(), int64(0))
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// startTestWorker creates a minimal pool with one running worker.
func startTestWorker(t *testing.T, cfg *Config) (*Pool, *worker) {
	if err := cfg.Error(); err != nil {
		t.Fatalf("invalid test configuration: %v", err)
	}
	p := &Pool{
		name:   cfg.Name(),
		queue:  newQueue(1),
		logger: zap.NewNop(),
	}
	p.stats.alive.Store(1)
	w := newWorker(0, p, cfg)
	p.workers = []*worker{w}
	go w.run()
	return p, w
}

// EOF
