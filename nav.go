package framecap

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const (
	// DefaultNavigationRetries is the number of navigation attempts made
	// before a page load is considered failed.
	DefaultNavigationRetries = 10

	// DefaultNavigationTimeout bounds each navigation attempt.
	DefaultNavigationTimeout = 60 * time.Second

	// DefaultRetryDelay is the real time waited between attempts.
	DefaultRetryDelay = 250 * time.Millisecond
)

// Navigator loads a URL in the target page. The deadline of ctx bounds the
// attempt.
type Navigator interface {
	Navigate(ctx context.Context, urlstr string) error
}

// NavigatorFunc adapts a func to the Navigator interface.
type NavigatorFunc func(ctx context.Context, urlstr string) error

// Navigate calls f(ctx, urlstr).
func (f NavigatorFunc) Navigate(ctx context.Context, urlstr string) error {
	return f(ctx, urlstr)
}

// NewNavigator returns a Navigator that navigates the chromedp target of
// ctx and waits until its network has been idle, with no connections for
// at least 500ms.
func NewNavigator() Navigator {
	return NavigatorFunc(navigateIdle)
}

func navigateIdle(ctx context.Context, urlstr string) error {
	lctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// networkIdle can arrive before page.Navigate returns the loader.
	idle := make(chan cdp.LoaderID, 16)
	chromedp.ListenTarget(lctx, func(ev interface{}) {
		if ev, ok := ev.(*page.EventLifecycleEvent); ok && ev.Name == "networkIdle" {
			select {
			case idle <- ev.LoaderID:
			default:
			}
		}
	})

	var loader cdp.LoaderID
	if err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, loaderID, errorText, err := page.Navigate(urlstr).Do(ctx)
		if err != nil {
			return err
		}
		if errorText != "" {
			return fmt.Errorf("page load error %s", errorText)
		}
		loader = loaderID
		return nil
	})); err != nil {
		return err
	}
	if loader == "" {
		// same-document navigation, no lifecycle
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case id := <-idle:
			if id == loader {
				return nil
			}
		}
	}
}

// load navigates to urlstr, making at most retries attempts separated by
// the session's retry delay. Every error is retried the same way.
func (s *Session) load(ctx context.Context, urlstr string, retries int) error {
	for attempt := 1; ; attempt++ {
		err := s.navigate(ctx, urlstr)
		if err == nil {
			return nil
		}
		s.logf("Failed to load page with error: %v", err)
		if retries <= 1 {
			return &NavigationError{URL: urlstr, Attempts: attempt, Err: err}
		}
		s.logf("Going to retry")
		if err := s.sleep(ctx, s.retryDelay); err != nil {
			return err
		}
		retries--
	}
}

func (s *Session) navigate(ctx context.Context, urlstr string) error {
	ctx, cancel := context.WithTimeout(ctx, s.navTimeout)
	defer cancel()
	return s.nav.Navigate(ctx, urlstr)
}
