package framecap

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// Clock moves the page's animation clock. t is always a non-negative
// offset from the start of the session and never decreases within one
// session.
type Clock interface {
	// Animate moves the clock to t, firing due timers and animation frame
	// callbacks, without producing output.
	Animate(ctx context.Context, t time.Duration) error

	// AnimateForCapture moves the clock to t and returns once the page has
	// painted the resulting state.
	AnimateForCapture(ctx context.Context, t time.Duration) error
}

// NewClock returns a Clock driving the virtual time script installed by
// InstallClock on the chromedp target of ctx.
func NewClock() Clock {
	return chromedpClock{}
}

// InstallClock is an action that makes every document subsequently loaded
// in the target run on virtual time. It must run before navigation.
func InstallClock() chromedp.Action {
	return addScript(virtualTimeJS)
}

type chromedpClock struct{}

func (chromedpClock) Animate(ctx context.Context, t time.Duration) error {
	return chromedp.Run(ctx, chromedp.Evaluate(fmt.Sprintf(`window.__framecap.goToTime(%s)`, jsMillis(t)), nil))
}

func (chromedpClock) AnimateForCapture(ctx context.Context, t time.Duration) error {
	expr := fmt.Sprintf(`window.__framecap.goToTime(%s), window.__framecap.settle()`, jsMillis(t))
	return chromedp.Run(ctx, chromedp.Evaluate(expr, nil, awaitPromise))
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// jsMillis formats t as a javascript millisecond number literal.
func jsMillis(t time.Duration) string {
	return strconv.FormatFloat(float64(t)/float64(time.Millisecond), 'f', -1, 64)
}
