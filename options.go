package framecap

import (
	"time"
)

// Option is a session option.
type Option = func(*Session)

// WithPreparePage sets a func run once after the page has loaded.
func WithPreparePage(f PreparePageFunc) Option {
	return func(s *Session) { s.preparePage = f }
}

// WithPrepareFrame sets a func run before every frame is captured.
func WithPrepareFrame(f PrepareFrameFunc) Option {
	return func(s *Session) { s.prepareFrame = f }
}

// WithNavigationRetries sets the maximum number of navigation attempts.
// Values below 1 allow a single attempt.
func WithNavigationRetries(n int) Option {
	return func(s *Session) { s.retries = n }
}

// WithNavigationTimeout bounds each navigation attempt.
func WithNavigationTimeout(d time.Duration) Option {
	return func(s *Session) { s.navTimeout = d }
}

// WithRetryDelay sets the real time waited between navigation attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Session) { s.retryDelay = d }
}

type viewport struct {
	width, height int64
	scale         float64
}

// WithViewport makes Capture emulate a viewport of the given size. A scale
// of 0 keeps a device scale factor of 1.
//
// Only used by Capture.
func WithViewport(width, height int64, scale float64) Option {
	return func(s *Session) {
		s.viewport = &viewport{width: width, height: height, scale: scale}
	}
}

// WithUnrandomize makes Capture replace Math.random in the page with a
// deterministic generator seeded with seed, so that repeated captures of
// the same page produce the same frames.
//
// Only used by Capture.
func WithUnrandomize(seed int64) Option {
	return func(s *Session) { s.seed = &seed }
}
