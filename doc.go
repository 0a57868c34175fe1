// Tideland Go Workpool
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

// Package workpool provides a fixed-size pool of workers executing
// short-lived tasks in the background. All workers share one unbounded
// queue, each task is taken by exactly one worker and executed once.
//
// Features:
//   - Fixed Size: The number of workers is set at creation and never changes
//   - Fire and Forget: Execute never blocks and never waits for the task
//   - Deterministic Shutdown: Close drains the queue, stops every worker and joins them
//   - Failure Reporting: A panicking task ends its worker, Close reports it
//   - Completion Signalling: ExecuteWaiting and ExecuteAwaiting wait for single tasks
//   - Statistics: Stats for monitoring, see package metrics for Prometheus
//
// Creating a pool:
//
//	pool, err := workpool.New(4, workpool.NewConfig().
//		SetName("connections").
//		SetLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
// A size below one panics, it is a programming error.
//
// Submitting tasks:
//
//	err := pool.Execute(workpool.TaskFunc(func() {
//		// Do work
//	}))
//
//	err = workpool.Go(pool, func() {
//		// Do work
//	})
//
// Both fail with a ClosedError once the pool is closing or all of
// its workers are gone.
//
// Waiting for a task:
//
//	awaiter, err := workpool.ExecuteAwaiting(pool, task)
//	// Do other work...
//	err = awaiter(ctx)
//
// Shutting down:
//
// Close enqueues one terminate marker per worker behind all pending
// tasks and afterwards joins the workers in order. It blocks until all
// of them have ended, there is no timeout. A worker busy with a task
// that never returns blocks Close forever.
//
// Task failures:
//
// A task that panics ends the worker that runs it. The failure is passed
// to the configured ErrorHandler and later returned by Close as
// *TaskError. The worker is not replaced, the pool continues with fewer
// workers. When the last worker is gone Execute returns ClosedError.
package workpool // import "tideland.dev/go/workpool"
