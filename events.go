package runonce

// Observer receives lifecycle events. Implementations must be safe for
// concurrent use when the instance is called from multiple goroutines, and
// must not call back into the instance they observe.
type Observer interface {
	On(eventData EventData)
}

// Event represents a lifecycle event type.
type Event int

const (
	// EventHit is emitted when a call replays a cached outcome instead of
	// running the action.
	EventHit Event = iota
	// EventRun is emitted when a call wins the lock and invokes the action.
	EventRun
	// EventFailure is emitted when the action fails and the instance stays
	// retryable.
	EventFailure
	// EventStickyFailure is emitted when the action fails and the error is
	// cached for permanent replay.
	EventStickyFailure
)

// EventData carries the details of a lifecycle event.
type EventData struct {
	Event Event
	// Err is the cached or just-observed action error, if any.
	Err error
}
