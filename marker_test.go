package framecap

import (
	"errors"
	"math"
	"testing"
	"time"

	"golang.org/x/exp/slices"
)

func msTimes(ms ...float64) FrameTimeFunc {
	return func(frame, _ int) time.Duration {
		return time.Duration(ms[frame-1] * float64(time.Millisecond))
	}
}

func mustTimeline(tb testing.TB, cfg Config) []Marker {
	tb.Helper()
	p, err := cfg.Resolve()
	if err != nil {
		tb.Fatal(err)
	}
	markers, err := BuildTimeline(p)
	if err != nil {
		tb.Fatal(err)
	}
	return markers
}

func captures(markers []Marker) []Marker {
	var res []Marker
	for _, m := range markers {
		if m.Kind == CaptureMarker {
			res = append(res, m)
		}
	}
	return res
}

func TestBuildTimelineLinear(t *testing.T) {
	t.Parallel()

	markers := mustTimeline(t, Config{FPS: 10, Duration: 2 * time.Second})
	if len(markers) != 20 {
		t.Fatalf("expected 20 markers, got %d", len(markers))
	}
	for i, m := range markers {
		if m.Kind != CaptureMarker {
			t.Fatalf("marker %d: expected a capture marker, got %v", i, m.Kind)
		}
		if want := time.Duration(i) * 100 * time.Millisecond; m.Time != want {
			t.Errorf("marker %d: expected time %v, got %v", i, want, m.Time)
		}
		if m.Frame != i+1 {
			t.Errorf("marker %d: expected frame %d, got %d", i, i+1, m.Frame)
		}
	}
}

func TestBuildTimelineSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		padding int
	}{
		{"default", Config{}, 0},
		{"frames", Config{Frames: 7}, 0},
		{"low fps", Config{FPS: 2, Frames: 3}, 0},
		{"start", Config{Frames: 4, Start: time.Second}, 1},
		{"threshold", Config{Frames: 2, Start: 50 * time.Millisecond, AnimationGapThreshold: 10 * time.Millisecond}, 1},
		{"first at threshold", Config{Frames: 2, Start: 100 * time.Millisecond}, 0},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			p, err := test.cfg.Resolve()
			if err != nil {
				t.Fatal(err)
			}
			markers, err := BuildTimeline(p)
			if err != nil {
				t.Fatal(err)
			}
			if want := p.Frames + test.padding; len(markers) != want {
				t.Fatalf("expected %d markers, got %d", want, len(markers))
			}
			seen := make(map[int]bool)
			for _, m := range captures(markers) {
				if seen[m.Frame] {
					t.Errorf("frame %d captured twice", m.Frame)
				}
				seen[m.Frame] = true
			}
			for i := 1; i <= p.Frames; i++ {
				if !seen[i] {
					t.Errorf("frame %d never captured", i)
				}
			}
			if test.padding > 0 {
				if m := markers[0]; m.Kind != AnimateMarker || m.Time != p.AnimationFrameTime {
					t.Errorf("expected an animate marker at %v first, got %+v", p.AnimationFrameTime, m)
				}
			}
		})
	}
}

func TestBuildTimelineOrdering(t *testing.T) {
	t.Parallel()

	tests := []Config{
		{FPS: 30, Duration: time.Second},
		{FPS: 24, Frames: 48, Start: 3 * time.Second, MaxAnimationFrameDuration: 16 * time.Millisecond},
		{Frames: 5, FrameTime: msTimes(300, 0, 300, 120, 5), MaxAnimationFrameDuration: 40 * time.Millisecond},
		{Frames: 4, FrameTime: msTimes(20, 20, 20, 20), Start: 500 * time.Millisecond, MaxAnimationFrameDuration: 100 * time.Millisecond},
	}
	for i, cfg := range tests {
		markers := mustTimeline(t, cfg)
		for j := 1; j < len(markers); j++ {
			a, b := markers[j-1], markers[j]
			if a.Time > b.Time || (a.Time == b.Time && a.ID >= b.ID) {
				t.Errorf("test %d: markers %d and %d out of order: %+v, %+v", i, j-1, j, a, b)
			}
		}
		if !slices.IsSortedFunc(markers, markerLess) {
			t.Errorf("test %d: timeline not sorted", i)
		}
	}
}

func TestBuildTimelineGapBounding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cfg Config
		max time.Duration
	}{
		{Config{FPS: 1, Frames: 5}, 100 * time.Millisecond},
		{Config{FPS: 60, Frames: 60}, 5 * time.Millisecond},
		{Config{FPS: 3, Frames: 10, Start: 2 * time.Second}, 70 * time.Millisecond},
		{Config{Frames: 3, FrameTime: msTimes(0, 1000, 1001)}, 7 * time.Millisecond},
		{Config{Frames: 4, FrameTime: msTimes(900, 100, 500, 1300)}, 33 * time.Millisecond},
	}
	for i, test := range tests {
		cfg := test.cfg
		cfg.MaxAnimationFrameDuration = test.max
		markers := mustTimeline(t, cfg)
		for j := 1; j < len(markers); j++ {
			// allow for float rounding to the nanosecond
			if gap := markers[j].Time - markers[j-1].Time; gap > test.max+time.Nanosecond {
				t.Errorf("test %d: gap of %v between markers %d and %d exceeds %v",
					i, gap, j-1, j, test.max)
			}
		}
	}
}

func TestBuildTimelineSubdivision(t *testing.T) {
	t.Parallel()

	markers := mustTimeline(t, Config{
		Frames:                    5,
		FrameTime:                 msTimes(0, 50, 500, 550, 600),
		MaxAnimationFrameDuration: 100 * time.Millisecond,
	})

	type want struct {
		ms    time.Duration
		kind  MarkerKind
		frame int
	}
	exp := []want{
		{0, CaptureMarker, 1},
		{50, CaptureMarker, 2},
		{140, AnimateMarker, 0},
		{230, AnimateMarker, 0},
		{320, AnimateMarker, 0},
		{410, AnimateMarker, 0},
		{500, CaptureMarker, 3},
		{550, CaptureMarker, 4},
		{600, CaptureMarker, 5},
	}
	if len(markers) != len(exp) {
		t.Fatalf("expected %d markers, got %d: %+v", len(exp), len(markers), markers)
	}
	for i, w := range exp {
		m := markers[i]
		if m.Time != w.ms*time.Millisecond || m.Kind != w.kind || m.Frame != w.frame {
			t.Errorf("marker %d: expected %v %v frame %d, got %+v", i, w.ms*time.Millisecond, w.kind, w.frame, m)
		}
	}
}

func TestBuildTimelineNonMonotonic(t *testing.T) {
	t.Parallel()

	markers := mustTimeline(t, Config{Frames: 3, FrameTime: msTimes(80, 10, 40)})
	var frames []int
	for _, m := range captures(markers) {
		frames = append(frames, m.Frame)
	}
	if want := []int{2, 3, 1}; !slices.Equal(frames, want) {
		t.Errorf("expected capture order %v, got %v", want, frames)
	}
}

func TestBuildTimelineTies(t *testing.T) {
	t.Parallel()

	markers := mustTimeline(t, Config{Frames: 3, FrameTime: msTimes(30, 30, 30)})
	for i, m := range markers {
		if m.Frame != i+1 {
			t.Errorf("marker %d: expected frame %d for equal times, got %d", i, i+1, m.Frame)
		}
	}
}

func TestBuildTimelineEmpty(t *testing.T) {
	t.Parallel()

	p := &Params{
		Frames:                    0,
		FrameTime:                 LinearFrameTime(60),
		MaxAnimationFrameDuration: 10 * time.Millisecond,
		AnimationGapThreshold:     DefaultAnimationGapThreshold,
		AnimationFrameTime:        DefaultAnimationFrameTime,
	}
	markers, err := BuildTimeline(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(markers) != 0 {
		t.Errorf("expected an empty timeline, got %+v", markers)
	}
}

func TestBuildTimelineNegativeTime(t *testing.T) {
	t.Parallel()

	p, err := Config{Frames: 2, FrameTime: msTimes(0, -5)}.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := BuildTimeline(p); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestBuildTimelineBounds(t *testing.T) {
	t.Parallel()

	params := func(frames int, ft FrameTimeFunc, max time.Duration) *Params {
		return &Params{
			Frames:                    frames,
			FrameTime:                 ft,
			Start:                     time.Second,
			MaxAnimationFrameDuration: max,
			AnimationGapThreshold:     DefaultAnimationGapThreshold,
			AnimationFrameTime:        DefaultAnimationFrameTime,
		}
	}
	huge := func(int, int) time.Duration { return math.MaxInt64 }

	tests := []struct {
		name string
		p    *Params
	}{
		{"negative frames", params(-1, LinearFrameTime(60), 0)},
		{"too many frames", params(MaxFrames+1, LinearFrameTime(60), 0)},
		{"time overflow", params(1, huge, 0)},
		{"too many animation steps", params(2, msTimes(0, 1e7), 100*time.Microsecond)},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if _, err := BuildTimeline(test.p); !errors.Is(err, ErrInvalidParams) {
				t.Errorf("expected ErrInvalidParams, got %v", err)
			}
		})
	}
}
