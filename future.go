/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package rowmapper

import "context"

// Future is the pending result of an asynchronous Get or Persist.
type Future[T any] struct {
	done chan struct{}
	val  *T
	err  error
}

func goFuture[T any](fn func() (*T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.val, f.err = fn()
	}()
	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the result is available or ctx ends. Giving up on ctx
// does not stop the underlying store request.
func (f *Future[T]) Wait(ctx context.Context) (*T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
