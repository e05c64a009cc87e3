package framecap

import (
	"fmt"
	"math"
	"time"
)

const (
	// DefaultFPS is the frame rate used when neither FPS nor a Frames and
	// Duration pair is given.
	DefaultFPS = 60

	// DefaultDuration is the capture length used when neither Frames nor
	// Duration is given.
	DefaultDuration = 5 * time.Second

	// DefaultAnimationGapThreshold is the first capture instant above which
	// an extra animate-only step is visited near the start.
	DefaultAnimationGapThreshold = 100 * time.Millisecond

	// DefaultAnimationFrameTime is the virtual time of that extra step.
	DefaultAnimationFrameTime = 20 * time.Millisecond

	// MaxFrames bounds the number of frames of one capture, and separately
	// the number of animate-only markers of its timeline.
	MaxFrames = 1 << 24
)

// FrameTimeFunc maps a 1-based frame number to its virtual time offset from
// the start of the capture. total is the number of frames being captured.
type FrameTimeFunc func(frame, total int) time.Duration

// Config holds the capture cadence as supplied by a caller. Zero values
// select the documented defaults. Use Resolve to obtain Params.
type Config struct {
	// FPS is the target frame rate.
	FPS float64

	// Frames is the number of frames to capture. When zero it is derived
	// from Duration and FPS.
	Frames int

	// Duration is the length of virtual time to capture.
	Duration time.Duration

	// Start shifts every capture instant by a constant offset.
	Start time.Duration

	// StartDelay is a real-time wait observed once, after the page is
	// prepared and before the first marker is visited.
	StartDelay time.Duration

	// FrameTime overrides the linear frame to time mapping.
	FrameTime FrameTimeFunc

	// MaxAnimationFrameDuration, when positive, bounds the virtual time
	// between two consecutive visited instants.
	MaxAnimationFrameDuration time.Duration

	// AnimationGapThreshold and AnimationFrameTime control the single
	// animate-only step inserted when the first capture is far from zero.
	AnimationGapThreshold time.Duration
	AnimationFrameTime    time.Duration
}

// Params are the resolved, immutable capture parameters of a session.
type Params struct {
	FPS                       float64
	Frames                    int
	FrameDuration             time.Duration
	FrameTime                 FrameTimeFunc
	Start                     time.Duration
	StartDelay                time.Duration
	MaxAnimationFrameDuration time.Duration
	AnimationGapThreshold     time.Duration
	AnimationFrameTime        time.Duration
}

// Resolve validates c and applies defaults.
func (c Config) Resolve() (*Params, error) {
	switch {
	case math.IsNaN(c.FPS) || math.IsInf(c.FPS, 0) || c.FPS < 0:
		return nil, fmt.Errorf("%w: fps %v", ErrInvalidParams, c.FPS)
	case c.Frames < 0 || c.Frames > MaxFrames:
		return nil, fmt.Errorf("%w: frame count %d out of range [0..%d]", ErrInvalidParams, c.Frames, MaxFrames)
	case c.Duration < 0:
		return nil, fmt.Errorf("%w: negative duration %v", ErrInvalidParams, c.Duration)
	case c.Start < 0:
		return nil, fmt.Errorf("%w: negative start %v", ErrInvalidParams, c.Start)
	case c.StartDelay < 0:
		return nil, fmt.Errorf("%w: negative start delay %v", ErrInvalidParams, c.StartDelay)
	case c.MaxAnimationFrameDuration < 0:
		return nil, fmt.Errorf("%w: negative maximum animation frame duration %v", ErrInvalidParams, c.MaxAnimationFrameDuration)
	case c.AnimationGapThreshold < 0 || c.AnimationFrameTime < 0:
		return nil, fmt.Errorf("%w: negative animation gap settings", ErrInvalidParams)
	}

	fps, frames := c.FPS, c.Frames
	if frames > 0 {
		if fps == 0 {
			if c.Duration > 0 {
				fps = float64(frames) / c.Duration.Seconds()
			} else {
				fps = DefaultFPS
			}
		}
	} else {
		if fps == 0 {
			fps = DefaultFPS
		}
		d := c.Duration
		if d == 0 {
			d = DefaultDuration
		}
		// the tolerance keeps products such as 2.3s*10 from flooring to 22
		n := math.Floor(d.Seconds()*fps + 1e-9)
		if n > MaxFrames {
			return nil, fmt.Errorf("%w: %v at %v fps is more than %d frames", ErrInvalidParams, d, fps, MaxFrames)
		}
		frames = int(n)
	}

	// frame durations and linear frame times must fit a time.Duration
	if last := float64(frames-1) * float64(time.Second) / fps; float64(time.Second)/fps >= math.MaxInt64 ||
		(c.FrameTime == nil && last+float64(c.Start) >= math.MaxInt64) {
		return nil, fmt.Errorf("%w: fps %v too low for %d frames", ErrInvalidParams, fps, frames)
	}

	p := &Params{
		FPS:                       fps,
		Frames:                    frames,
		FrameDuration:             time.Duration(float64(time.Second) / fps),
		FrameTime:                 c.FrameTime,
		Start:                     c.Start,
		StartDelay:                c.StartDelay,
		MaxAnimationFrameDuration: c.MaxAnimationFrameDuration,
		AnimationGapThreshold:     c.AnimationGapThreshold,
		AnimationFrameTime:        c.AnimationFrameTime,
	}
	if p.FrameTime == nil {
		p.FrameTime = LinearFrameTime(fps)
	}
	if p.AnimationGapThreshold == 0 {
		p.AnimationGapThreshold = DefaultAnimationGapThreshold
	}
	if p.AnimationFrameTime == 0 {
		p.AnimationFrameTime = DefaultAnimationFrameTime
	}
	return p, nil
}

// LinearFrameTime returns the default mapping, placing frame n at
// (n-1)/fps seconds.
func LinearFrameTime(fps float64) FrameTimeFunc {
	return func(frame, _ int) time.Duration {
		return time.Duration(float64(frame-1) * float64(time.Second) / fps)
	}
}
