package runonce

// settings collects construction-time configuration shared by Once and
// OnceValue.
type settings struct {
	observer Observer
}

// Option configures an instance created by New or NewValue.
type Option func(*settings)

// WithObserver attaches an Observer that receives run, hit, and failure
// events for the lifetime of the instance.
func WithObserver(o Observer) Option {
	return func(s *settings) {
		s.observer = o
	}
}

// call collects per-call configuration.
type call struct {
	sticky bool
}

// CallOption configures a single Do or DoContext call.
type CallOption func(*call)

// Sticky makes a failure of this call permanent: the action's error is
// cached and replayed verbatim to every subsequent caller instead of
// allowing a retry. The flag only takes effect for the caller that ends up
// running the action.
func Sticky() CallOption {
	return func(c *call) {
		c.sticky = true
	}
}
