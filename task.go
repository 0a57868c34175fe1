// Tideland Go Workpool - Task
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package workpool

// Task is a unit of deferred work. It takes no arguments and returns
// nothing, it is executed at most once by exactly one worker.
type Task interface {
	Execute()
}

// TaskFunc allows the use of ordinary functions as tasks.
type TaskFunc func()

// Execute implements Task.
func (f TaskFunc) Execute() {
	f()
}

// EOF
