package loader

import (
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// All runs load for every index in [0, n) concurrently and calls done exactly
// once, on the frame thread, after the last load finished. done receives the
// first error any load returned.
func All(q *Queue, n int, load func(i int) error, done func(error)) {
	if n <= 0 {
		q.Post(func() {
			if done != nil {
				done(nil)
			}
		})
		return
	}

	var err error
	q.Go(func() {
		var g errgroup.Group
		for i := 0; i < n; i++ {
			g.Go(func() error {
				return load(i)
			})
		}
		err = g.Wait()
	}, func() {
		if done != nil {
			done(err)
		}
	})
}

// Parallel runs independent phases concurrently and continues with done once
// all of them returned.
func Parallel(q *Queue, done func(error), phases ...func() error) {
	All(q, len(phases), func(i int) error {
		return phases[i]()
	}, done)
}

// Generation tags load batches so completions from a superseded batch can be
// dropped.
type Generation struct {
	current atomic.Uint64
}

// Next starts a new batch and returns its tag.
func (g *Generation) Next() uint64 {
	return g.current.Add(1)
}

// Current reports whether tag is still the latest batch.
func (g *Generation) Current(tag uint64) bool {
	return g.current.Load() == tag
}

// Guard wraps fn so it only runs while tag is current.
func (g *Generation) Guard(tag uint64, fn func()) func() {
	return func() {
		if g.Current(tag) && fn != nil {
			fn()
		}
	}
}
