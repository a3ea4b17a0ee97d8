// Package runonce provides a run-exactly-once primitive with blocking and
// context-aware entry points over one shared lock.
//
// A [Once] guards a unit of work so that it completes successfully at most
// one time, no matter how many goroutines race to run it or whether they
// call [Once.Do] or [Once.DoContext]. [OnceValue] is the value-returning
// counterpart: the first successful result is cached and every later caller
// receives that same value.
//
//	warmup := runonce.New()
//
//	if err := warmup.Do(loadConfig); err != nil {
//		// loadConfig failed; the next Do call will retry it.
//	}
//
// Unlike [sync.Once], the action may fail. By default a failure leaves the
// primitive untouched, so the next caller retries from scratch. Passing
// [Sticky] makes the first failure permanent: the captured error is replayed
// verbatim to every subsequent caller without running the action again,
// which is the right policy when the action is not safe to retry.
//
// Both call styles contend for the same binary semaphore, so mixing them on
// one instance stays linearizable: exactly one caller runs the action per
// completion cycle, everyone else waits and replays its outcome. The context
// passed to DoContext only governs the wait for the lock; once the action
// has started it runs to completion.
//
// [Once.Close] retires an instance. After Close every call fails with
// [ErrClosed], regardless of prior state. Close waits for any in-flight
// execution to finish, so disposal never races with a running action.
package runonce
