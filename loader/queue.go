// Package loader runs asset loads off the frame thread and hands their
// completions back to it. Completions only ever run inside Pump, so game state
// is still mutated from a single goroutine.
package loader

import (
	"context"
	"sync"
)

// Queue tracks in-flight work and the completions waiting to run.
type Queue struct {
	mu       sync.Mutex
	pending  []func()
	inflight int
	wake     chan struct{}
}

func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Go runs work on its own goroutine and schedules then to run on the next Pump.
func (q *Queue) Go(work func(), then func()) {
	q.mu.Lock()
	q.inflight++
	q.mu.Unlock()

	go func() {
		if work != nil {
			work()
		}
		q.post(then, true)
	}()
}

// Post schedules fn for the next Pump without any background work.
func (q *Queue) Post(fn func()) {
	q.post(fn, false)
}

func (q *Queue) post(fn func(), finished bool) {
	q.mu.Lock()
	if fn != nil {
		q.pending = append(q.pending, fn)
	}
	if finished {
		q.inflight--
	}
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Pump runs every completion queued so far and returns how many ran.
// Completions queued while pumping wait for the next call.
func (q *Queue) Pump() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Idle reports whether nothing is running or waiting.
func (q *Queue) Idle() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inflight == 0 && len(q.pending) == 0
}

// Drain pumps until the queue is idle. Headless tools and tests use it in
// place of a frame loop.
func (q *Queue) Drain(ctx context.Context) error {
	for {
		q.Pump()
		if q.Idle() {
			return nil
		}
		select {
		case <-q.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
