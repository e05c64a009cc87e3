package framecap

import (
	"context"
)

// Capturer turns "capture frame N now" into persisted pixel data. The page
// has already been advanced and settled at the frame's instant when
// CaptureFrame is called.
//
// A Capturer may also implement BeforeCapturer and AfterCapturer.
type Capturer interface {
	CaptureFrame(ctx context.Context, frame, total int) error
}

// BeforeCapturer is implemented by capturers that need to prepare before
// the first marker is visited.
type BeforeCapturer interface {
	BeforeCapture(ctx context.Context, p *Params) error
}

// AfterCapturer is implemented by capturers that finalize their output. It
// is only called after the whole timeline was visited without error.
type AfterCapturer interface {
	AfterCapture(ctx context.Context) error
}

// CapturerFunc adapts a func to the Capturer interface.
type CapturerFunc func(ctx context.Context, frame, total int) error

// CaptureFrame calls f(ctx, frame, total).
func (f CapturerFunc) CaptureFrame(ctx context.Context, frame, total int) error {
	return f(ctx, frame, total)
}

// PreparePageFunc runs once after the page has loaded and before the
// timeline begins.
type PreparePageFunc func(ctx context.Context) error

// PrepareFrameFunc runs after the page was advanced to a capture instant
// and before the frame is captured. Returning SkipTo(n) makes the session
// discard every later capture marker whose frame number is below n.
type PrepareFrameFunc func(ctx context.Context, frame, total int) (FrameSkip, error)

// FrameSkip is the optional result of a PrepareFrameFunc. The zero value,
// NoSkip, requests nothing.
type FrameSkip struct {
	frame int
	set   bool
}

// NoSkip requests no skipping.
var NoSkip FrameSkip

// SkipTo requests that capture markers before frame are discarded.
func SkipTo(frame int) FrameSkip {
	return FrameSkip{frame: frame, set: true}
}

// Frame returns the requested frame and whether a skip was requested.
func (s FrameSkip) Frame() (int, bool) {
	return s.frame, s.set
}
