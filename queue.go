// Tideland Go Workpool - Queue
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package workpool

import (
	"sync"
)

// action tells a worker what to do with a dequeued item.
type action int

const (
	actionProcess action = iota
	actionTerminate
)

// item is the tagged value travelling through the queue. Only items
// with actionProcess carry a task. The optional done callback is
// invoked by the worker after the task returned or panicked.
type item struct {
	action action
	task   Task
	done   func(err error)
}

// processItem wraps a task into a queue item.
func processItem(task Task, done func(err error)) item {
	return item{
		action: actionProcess,
		task:   task,
		done:   done,
	}
}

// queue is an unbounded FIFO shared by all workers of a pool. Producers
// never block, consumers block in take until an item is available. The
// lock serializes the consuming side, so each item is handed out once.
type queue struct {
	mu        sync.Mutex
	available *sync.Cond
	items     []item
	pending   int
	receivers int
	closed    bool
}

// newQueue creates a queue expecting the given number of receivers.
func newQueue(receivers int) *queue {
	q := &queue{
		items:     make([]item, 0, receivers),
		receivers: receivers,
	}
	q.available = sync.NewCond(&q.mu)
	return q
}

// submit appends an item. It fails with ClosedError once the queue is
// closed for producers or no receiver is left.
func (q *queue) submit(it item) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || q.receivers == 0 {
		return ClosedError{}
	}
	q.items = append(q.items, it)
	q.pending++
	q.available.Signal()
	return nil
}

// take blocks until an item is available and returns it.
func (q *queue) take() item {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 {
		q.available.Wait()
	}
	it := q.items[0]
	q.items[0] = item{}
	q.items = q.items[1:]
	if it.action == actionProcess {
		q.pending--
	}
	return it
}

// terminate closes the queue for producers and appends n terminate
// markers behind all pending items in one step.
func (q *queue) terminate(n int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	for range n {
		q.items = append(q.items, item{action: actionTerminate})
	}
	q.available.Broadcast()
}

// detach removes one receiver. Without receivers nobody would ever
// consume new items, so the queue refuses further submissions. Tasks
// still waiting are dropped and their done callbacks get a ClosedError.
func (q *queue) detach() {
	q.mu.Lock()
	if q.receivers > 0 {
		q.receivers--
	}
	if q.receivers > 0 {
		q.mu.Unlock()
		return
	}
	q.closed = true
	dropped := q.items
	q.items = nil
	q.pending = 0
	q.mu.Unlock()

	for _, it := range dropped {
		if it.action == actionProcess && it.done != nil {
			it.done(ClosedError{})
		}
	}
}

// len returns the number of tasks waiting for a worker. Terminate
// markers are not counted.
func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.pending
}

// EOF
