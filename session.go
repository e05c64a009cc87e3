package framecap

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// Session captures one page along one timeline. A Session is not safe for
// concurrent use, and Run should be called at most once.
type Session struct {
	params   *Params
	timeline []Marker

	clock    Clock
	nav      Navigator
	capturer Capturer

	preparePage  PreparePageFunc
	prepareFrame PrepareFrameFunc

	retries    int
	retryDelay time.Duration
	navTimeout time.Duration

	// used by Capture only
	viewport *viewport
	seed     *int64

	sleep func(context.Context, time.Duration) error

	logf, debugf, errorf LogFunc
}

// NewSession resolves cfg and builds the session timeline. Parameter errors
// are reported here, before any browser interaction.
//
// A nil capturer visits the timeline without capturing anything.
func NewSession(cfg Config, clock Clock, nav Navigator, capturer Capturer, opts ...Option) (*Session, error) {
	p, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	timeline, err := BuildTimeline(p)
	if err != nil {
		return nil, err
	}

	s := &Session{
		params:     p,
		timeline:   timeline,
		clock:      clock,
		nav:        nav,
		capturer:   capturer,
		retries:    DefaultNavigationRetries,
		retryDelay: DefaultRetryDelay,
		navTimeout: DefaultNavigationTimeout,
		sleep:      sleep,
	}
	for _, o := range opts {
		o(s)
	}
	s.initLogging()
	return s, nil
}

// Params returns the resolved capture parameters.
func (s *Session) Params() *Params {
	return s.params
}

// Timeline returns the markers the session visits, in order. The returned
// slice must not be modified.
func (s *Session) Timeline() []Marker {
	return s.timeline
}

// Run loads urlstr, prepares the page and visits every marker of the
// timeline. Any error aborts the session; closing the target is left to
// the caller.
func (s *Session) Run(ctx context.Context, urlstr string) error {
	if err := s.run(ctx, urlstr); err != nil {
		s.errorf("%v", err)
		return err
	}
	return nil
}

func (s *Session) run(ctx context.Context, urlstr string) error {
	s.logf("Going to %s...", urlstr)
	if err := s.load(ctx, urlstr, s.retries); err != nil {
		return err
	}
	s.logf("Page loaded")

	if s.preparePage != nil {
		s.logf("Preparing page before screenshots...")
		if err := s.preparePage(ctx); err != nil {
			return err
		}
		s.logf("Page prepared")
	}

	if err := s.sleep(ctx, s.params.StartDelay); err != nil {
		return err
	}

	if c, ok := s.capturer.(BeforeCapturer); ok {
		if err := c.BeforeCapture(ctx, s.params); err != nil {
			return err
		}
	}
	return s.capture(ctx)
}

// capture walks the timeline once.
func (s *Session) capture(ctx context.Context) error {
	start := time.Now()
	total := s.params.Frames

	// skip target requested by prepareFrame; 0 skips nothing
	nextFrame := 0
	for i := 0; i < len(s.timeline); i++ {
		m := s.timeline[i]
		switch m.Kind {
		case CaptureMarker:
			if m.Frame < nextFrame {
				s.debugf("skipping frame %d at %v", m.Frame, m.Time)
				continue
			}
			s.debugf("capturing frame %d at %v", m.Frame, m.Time)
			if err := s.clock.AnimateForCapture(ctx, m.Time); err != nil {
				return err
			}
			if s.prepareFrame != nil {
				s.logf("Preparing page for screenshot...")
				skip, err := s.prepareFrame(ctx, m.Frame, total)
				if err != nil {
					return err
				}
				if frame, ok := skip.Frame(); ok {
					nextFrame = frame
				}
				s.logf("Page prepared")
			}
			if s.capturer != nil {
				if err := s.capturer.CaptureFrame(ctx, m.Frame, total); err != nil {
					return err
				}
			}

		case AnimateMarker:
			s.debugf("animating to %v", m.Time)
			if err := s.clock.Animate(ctx, m.Time); err != nil {
				return err
			}
		}
	}

	s.logf("Elapsed capture time: %v", time.Since(start))
	if c, ok := s.capturer.(AfterCapturer); ok {
		return c.AfterCapture(ctx)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return chromedp.Sleep(d).Do(ctx)
}
