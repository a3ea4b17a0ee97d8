package runonce

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// OnceValue is the value-returning counterpart of Once. The first
// successful call caches the action's result, and every later call — fast
// or slow path — returns that same value without running its own action.
//
// The zero value is not usable; create instances with NewValue.
type OnceValue[T any] struct {
	sem *semaphore.Weighted

	// done publishes the cached outcome: it is stored only after val and
	// err have been written under the semaphore.
	done   atomic.Bool
	closed atomic.Bool
	val    T
	err    error

	observer Observer
}

// NewValue creates an OnceValue for results of type T.
func NewValue[T any](opts ...Option) *OnceValue[T] {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return &OnceValue[T]{
		sem:      semaphore.NewWeighted(1),
		observer: s.observer,
	}
}

// Do runs fn unless a prior call already completed, blocking while another
// caller holds the lock. The first successful result is cached; whatever a
// later invocation of fn would have produced is discarded, because fn only
// runs when no completion exists yet. Failure semantics match Once.Do.
func (o *OnceValue[T]) Do(fn func() (T, error), opts ...CallOption) (T, error) {
	return o.do(context.Background(), fn, opts)
}

// DoContext is Do with a context-aware wait for the lock. If ctx is
// canceled before the lock is acquired, ctx.Err() is returned and fn does
// not run. A running action always runs to completion.
func (o *OnceValue[T]) DoContext(ctx context.Context, fn func() (T, error), opts ...CallOption) (T, error) {
	return o.do(ctx, fn, opts)
}

func (o *OnceValue[T]) do(ctx context.Context, fn func() (T, error), opts []CallOption) (T, error) {
	// Closed wins over argument validation; this ordering is part of the
	// contract.
	if o.closed.Load() {
		var zero T
		return zero, ErrClosed
	}
	if fn == nil {
		var zero T
		return zero, ErrNilAction
	}

	// Fast path: completed, replay the outcome without touching the lock.
	if o.done.Load() {
		o.emit(EventHit, o.err)
		return o.val, o.err
	}

	var c call
	for _, opt := range opts {
		opt(&c)
	}
	return o.doSlow(ctx, fn, c.sticky)
}

func (o *OnceValue[T]) doSlow(ctx context.Context, fn func() (T, error), sticky bool) (T, error) {
	if err := o.sem.Acquire(ctx, 1); err != nil {
		var zero T
		return zero, err
	}
	defer o.sem.Release(1)

	if o.closed.Load() {
		var zero T
		return zero, ErrClosed
	}
	// Double-check: another caller may have completed while we waited.
	if o.done.Load() {
		o.emit(EventHit, o.err)
		return o.val, o.err
	}

	o.emit(EventRun, nil)
	val, err := fn()
	if err == nil {
		o.val = val
		o.done.Store(true)
		return val, nil
	}
	if sticky {
		o.err = err
		o.done.Store(true)
		o.emit(EventStickyFailure, err)
	} else {
		o.emit(EventFailure, err)
	}
	var zero T
	return zero, err
}

// Done reports whether a call has completed, successfully or with a sticky
// failure. It does not acquire the lock.
func (o *OnceValue[T]) Done() bool {
	return o.done.Load()
}

// Close retires the OnceValue. Every subsequent call fails with ErrClosed,
// even if a result had already been cached. Close waits for an in-flight
// execution to finish, is idempotent, safe for concurrent use, and always
// returns nil.
func (o *OnceValue[T]) Close() error {
	if o.closed.Load() {
		return nil
	}
	// Cannot fail: the background context is never canceled.
	_ = o.sem.Acquire(context.Background(), 1)
	o.closed.Store(true)
	o.sem.Release(1)
	return nil
}

func (o *OnceValue[T]) emit(event Event, err error) {
	if o.observer == nil {
		return
	}
	o.observer.On(EventData{Event: event, Err: err})
}
