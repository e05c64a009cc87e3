package framecap

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ScreenshotCapturer captures frames with the "Capture screenshot" command
// of the chromedp target of the session context.
type ScreenshotCapturer struct {
	Output *FrameOutput

	// Format defaults to PNG.
	Format page.CaptureScreenshotFormat

	// Quality is the JPEG compression quality in [0..100].
	Quality int

	// Clip restricts the screenshot to a region of the page. When nil, the
	// viewport is captured.
	Clip *page.Viewport
}

// BeforeCapture satisfies BeforeCapturer.
func (c *ScreenshotCapturer) BeforeCapture(_ context.Context, _ *Params) error {
	if c.Format == "" {
		c.Format = page.CaptureScreenshotFormatPng
	}
	if c.Output == nil {
		return fmt.Errorf("%w: nil output", ErrInvalidOutput)
	}
	c.Output.defaultPattern(c.ext())
	return c.Output.Open()
}

// CaptureFrame satisfies Capturer.
func (c *ScreenshotCapturer) CaptureFrame(ctx context.Context, frame, _ int) error {
	var buf []byte
	if err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		p := page.CaptureScreenshot().
			WithFormat(c.Format).
			WithFromSurface(true)
		if c.Format == page.CaptureScreenshotFormatJpeg {
			p = p.WithQuality(int64(c.Quality))
		}
		if c.Clip != nil {
			p = p.WithClip(c.Clip).WithCaptureBeyondViewport(true)
		}
		var err error
		buf, err = p.Do(ctx)
		return err
	})); err != nil {
		return err
	}
	return c.Output.WriteFrame(frame, buf)
}

// AfterCapture satisfies AfterCapturer.
func (c *ScreenshotCapturer) AfterCapture(context.Context) error {
	return c.Output.Flush()
}

func (c *ScreenshotCapturer) ext() string {
	if c.Format == page.CaptureScreenshotFormatJpeg {
		return "jpg"
	}
	return string(c.Format)
}
