package framecap

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
)

// CanvasCapturer captures frames from the pixels of a canvas element,
// instead of a screenshot of the page.
type CanvasCapturer struct {
	Output *FrameOutput

	// Selector is the CSS selector of the canvas. Defaults to "canvas".
	Selector string

	// Type is the image MIME type passed to toDataURL. Defaults to
	// "image/png".
	Type string

	// Quality is the encoder quality in [0..1] for lossy types.
	Quality float64
}

// BeforeCapture satisfies BeforeCapturer.
func (c *CanvasCapturer) BeforeCapture(_ context.Context, _ *Params) error {
	if c.Selector == "" {
		c.Selector = "canvas"
	}
	if c.Type == "" {
		c.Type = "image/png"
	}
	if c.Output == nil {
		return fmt.Errorf("%w: nil output", ErrInvalidOutput)
	}
	c.Output.defaultPattern(c.ext())
	return c.Output.Open()
}

// CaptureFrame satisfies Capturer.
func (c *CanvasCapturer) CaptureFrame(ctx context.Context, frame, _ int) error {
	expr, err := c.expression()
	if err != nil {
		return err
	}
	var dataURL string
	if err := chromedp.Run(ctx, chromedp.Evaluate(expr, &dataURL)); err != nil {
		return err
	}
	if dataURL == "" {
		return fmt.Errorf("%w: %q", ErrNoCanvas, c.Selector)
	}
	buf, err := decodeDataURL(dataURL)
	if err != nil {
		return fmt.Errorf("frame %d: %w", frame, err)
	}
	return c.Output.WriteFrame(frame, buf)
}

// AfterCapture satisfies AfterCapturer.
func (c *CanvasCapturer) AfterCapture(context.Context) error {
	return c.Output.Flush()
}

func (c *CanvasCapturer) expression() (string, error) {
	args, err := json.Marshal([]interface{}{c.Selector, c.Type, c.Quality})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s)(...%s)", strings.TrimSpace(canvasJS), args), nil
}

func (c *CanvasCapturer) ext() string {
	switch c.Type {
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	}
	return "png"
}

// decodeDataURL returns the payload of a base64 data URL.
func decodeDataURL(s string) ([]byte, error) {
	i := strings.IndexByte(s, ',')
	if !strings.HasPrefix(s, "data:") || i < 0 || !strings.HasSuffix(s[:i], ";base64") {
		return nil, ErrInvalidDataURL
	}
	buf, err := base64.StdEncoding.DecodeString(s[i+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return buf, nil
}
