package framecap

import (
	_ "embed"
)

var (
	// virtualTimeJS is a javascript snippet, run before any page script,
	// that replaces Date, performance.now, requestAnimationFrame, timers
	// and media playback with a clock that only moves when told to. It
	// exposes window.__framecap.goToTime(ms) and window.__framecap.settle().
	//go:embed js/virtualtime.js
	virtualTimeJS string

	// unrandomJS is a javascript function expression taking a seed, that
	// replaces Math.random with a deterministic generator.
	//go:embed js/unrandom.js
	unrandomJS string

	// canvasJS is a javascript function expression taking a selector, an
	// image type and a quality, returning the data URL of the matching
	// canvas or an empty string.
	//go:embed js/canvas.js
	canvasJS string
)
