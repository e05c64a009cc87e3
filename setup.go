package framecap

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// addScript is an action that evaluates src in every frame before any of
// the frame's own scripts, on every subsequent navigation.
func addScript(src string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(src).Do(ctx)
		return err
	})
}

// Unrandomize is an action that replaces Math.random in every subsequently
// loaded document with a generator seeded with seed.
func Unrandomize(seed int64) chromedp.Action {
	return addScript(fmt.Sprintf("(%s)(%d);", strings.TrimSpace(unrandomJS), seed))
}

// setup returns the actions preparing the target before navigation.
func (s *Session) setup() chromedp.Tasks {
	var tasks chromedp.Tasks
	if v := s.viewport; v != nil {
		var opts []chromedp.EmulateViewportOption
		if v.scale > 0 {
			opts = append(opts, chromedp.EmulateScale(v.scale))
		}
		tasks = append(tasks, chromedp.EmulateViewport(v.width, v.height, opts...))
	}
	if s.seed != nil {
		s.logf("Overwriting Math.random with seed %d", *s.seed)
		tasks = append(tasks, Unrandomize(*s.seed))
	}
	return append(tasks, InstallClock())
}
