// Package framecap captures the frames of web page animations on virtual
// time, using the Chrome DevTools Protocol through chromedp.
//
// A capture visits an ordered timeline of instants. At capture instants the
// page's clock is advanced, the page is allowed to paint, and a Capturer
// persists the frame; between them, animate-only instants keep animation
// state consistent when the captured frames are far apart in virtual time.
// Because the page clock only moves when framecap moves it, capture can run
// faster or slower than real time and still produce evenly spaced frames.
package framecap
