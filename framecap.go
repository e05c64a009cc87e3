package framecap

import (
	"context"

	"github.com/chromedp/chromedp"
)

// Capture loads urlstr in the chromedp target of ctx and captures the frames
// described by cfg with c.
//
// The target runs on virtual time: Capture installs the time script before
// navigating, so ctx should be a fresh tab. Closing the tab or browser is
// left to the caller, for example with chromedp.Cancel.
func Capture(ctx context.Context, urlstr string, cfg Config, c Capturer, opts ...Option) error {
	s, err := NewSession(cfg, NewClock(), NewNavigator(), c, opts...)
	if err != nil {
		return err
	}
	if err := chromedp.Run(ctx, s.setup()); err != nil {
		return err
	}
	return s.Run(ctx, urlstr)
}
