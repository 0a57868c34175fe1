// Tideland Go Workpool - Commands
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package workpool

import (
	"context"
)

// Go passes a function to an executor for background processing.
func Go(e Executor, fn func()) error {
	if fn == nil {
		return errNilTask
	}
	return e.Execute(TaskFunc(fn))
}

// Awaiter is returned by ExecuteAwaiting to wait for the pool to finish
// a task. It returns nil if the task returned, the *TaskError if it
// failed, a ClosedError if the last worker died before the task has been
// taken, or the error of the context if that is done first. It can be
// called multiple times.
type Awaiter func(ctx context.Context) error

// ExecuteAwaiting passes a task to the pool and returns an Awaiter for
// its completion. Other work can be done before waiting.
func ExecuteAwaiting(p *Pool, task Task) (Awaiter, error) {
	if task == nil {
		return nil, errNilTask
	}

	var result error
	ready := make(chan struct{})
	done := func(err error) {
		result = err
		close(ready)
	}

	if err := p.submit(processItem(task, done)); err != nil {
		return nil, err
	}

	return func(ctx context.Context) error {
		select {
		case <-ready:
			return result
		case <-ctx.Done():
			return ctx.Err()
		}
	}, nil
}

// ExecuteWaiting passes a task to the pool and waits until it has been
// processed or the context is done.
func ExecuteWaiting(ctx context.Context, p *Pool, task Task) error {
	awaiter, err := ExecuteAwaiting(p, task)
	if err != nil {
		return err
	}
	return awaiter(ctx)
}

// EOF
