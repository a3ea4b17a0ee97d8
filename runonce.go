package runonce

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrClosed is returned by every entry point after Close. It takes
	// precedence over ErrNilAction.
	ErrClosed = errors.New("runonce: once is closed")

	// ErrNilAction is returned when the supplied action is nil. It never
	// affects the instance's state.
	ErrNilAction = errors.New("runonce: nil action")
)

// Once runs a fallible action at most one successful time. Concurrent
// callers for the same instance block (Do) or wait on their context
// (DoContext) until the winning caller finishes, then share its outcome.
//
// The zero value is not usable; create instances with New.
type Once struct {
	sem *semaphore.Weighted

	// done publishes the cached outcome: it is stored only after err has
	// been written under the semaphore, so a true load guarantees err is
	// fully visible.
	done   atomic.Bool
	closed atomic.Bool
	err    error

	observer Observer
}

// New creates a Once.
func New(opts ...Option) *Once {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return &Once{
		sem:      semaphore.NewWeighted(1),
		observer: s.observer,
	}
}

// Do runs fn unless a prior call already completed. The calling goroutine
// blocks while another caller holds the lock. On success the completion is
// cached and fn is never run again. On failure the error is returned to
// this caller and, by default, the instance stays retryable; pass Sticky to
// cache the failure instead.
func (o *Once) Do(fn func() error, opts ...CallOption) error {
	return o.do(context.Background(), fn, opts)
}

// DoContext is Do with a context-aware wait for the lock. If ctx is
// canceled before the lock is acquired, ctx.Err() is returned and fn does
// not run. The context has no effect once fn has started; a running action
// always runs to completion.
func (o *Once) DoContext(ctx context.Context, fn func() error, opts ...CallOption) error {
	return o.do(ctx, fn, opts)
}

func (o *Once) do(ctx context.Context, fn func() error, opts []CallOption) error {
	// Closed wins over argument validation; this ordering is part of the
	// contract.
	if o.closed.Load() {
		return ErrClosed
	}
	if fn == nil {
		return ErrNilAction
	}

	// Fast path: completed, replay the outcome without touching the lock.
	if o.done.Load() {
		o.emit(EventHit, o.err)
		return o.err
	}

	var c call
	for _, opt := range opts {
		opt(&c)
	}
	return o.doSlow(ctx, fn, c.sticky)
}

func (o *Once) doSlow(ctx context.Context, fn func() error, sticky bool) error {
	if err := o.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer o.sem.Release(1)

	if o.closed.Load() {
		return ErrClosed
	}
	// Double-check: another caller may have completed while we waited.
	if o.done.Load() {
		o.emit(EventHit, o.err)
		return o.err
	}

	o.emit(EventRun, nil)
	err := fn()
	if err == nil {
		o.done.Store(true)
		return nil
	}
	if sticky {
		o.err = err
		o.done.Store(true)
		o.emit(EventStickyFailure, err)
	} else {
		o.emit(EventFailure, err)
	}
	return err
}

// Done reports whether a call has completed, successfully or with a sticky
// failure. It does not acquire the lock.
func (o *Once) Done() bool {
	return o.done.Load()
}

// Close retires the Once. Every subsequent call fails with ErrClosed, even
// if the action had already completed. Close waits for an in-flight
// execution to finish, is idempotent, safe for concurrent use, and always
// returns nil.
func (o *Once) Close() error {
	if o.closed.Load() {
		return nil
	}
	// Cannot fail: the background context is never canceled.
	_ = o.sem.Acquire(context.Background(), 1)
	o.closed.Store(true)
	o.sem.Release(1)
	return nil
}

func (o *Once) emit(event Event, err error) {
	if o.observer == nil {
		return
	}
	o.observer.On(EventData{Event: event, Err: err})
}
