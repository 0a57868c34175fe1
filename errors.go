// Tideland Go Workpool - Errors
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package workpool

import (
	"errors"
	"fmt"
	"time"
)

// ClosedError signals that a task has been submitted to a pool which
// is shutting down or has no live worker left.
type ClosedError struct{}

func (ClosedError) Error() string {
	return "work pool is closed"
}

// IsClosed returns true if the error is or wraps a ClosedError.
func IsClosed(err error) bool {
	var cerr ClosedError
	return errors.As(err, &cerr)
}

// errTaskAborted is the value of a TaskError when a task ended its
// goroutine with runtime.Goexit instead of returning or panicking.
var errTaskAborted = errors.New("task aborted its worker goroutine")

// TaskError represents a task that panicked or aborted. The failure
// ended the worker that executed the task.
type TaskError struct {
	WorkerID  int
	Value     any
	Stack     []byte
	Timestamp time.Time
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task failed on worker %d at %v: %v",
		e.WorkerID, e.Timestamp.Format(time.RFC3339), e.Value)
}

// Unwrap returns the panic value if it has been an error.
func (e *TaskError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// ErrorHandler is notified about failed tasks. HandleError runs on the
// goroutine of the worker the failure has ended, so a blocking handler
// delays the join of that worker in Close.
type ErrorHandler interface {
	HandleError(err *TaskError)
}

// ErrorHandlerFunc lets a plain function be used as ErrorHandler.
type ErrorHandlerFunc func(err *TaskError)

// HandleError calls f, a nil function ignores the error.
func (f ErrorHandlerFunc) HandleError(err *TaskError) {
	if f != nil {
		f(err)
	}
}

// EOF
