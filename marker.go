package framecap

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/slices"
)

// MarkerKind tags what the scheduler does when it visits a Marker.
type MarkerKind int

// Marker kinds.
const (
	// CaptureMarker advances the clock, settles the page and captures a
	// frame.
	CaptureMarker MarkerKind = iota

	// AnimateMarker only advances the clock.
	AnimateMarker
)

// String satisfies fmt.Stringer.
func (k MarkerKind) String() string {
	switch k {
	case CaptureMarker:
		return "Capture"
	case AnimateMarker:
		return "Animate"
	}
	return fmt.Sprintf("MarkerKind(%d)", int(k))
}

// Marker is an instant on the virtual timeline.
type Marker struct {
	// Time is the virtual time offset from the start of the session.
	Time time.Duration

	// Kind is what happens at Time.
	Kind MarkerKind

	// ID breaks ties between markers at the same Time, in creation order.
	ID int

	// Frame is the 1-based output frame number of a CaptureMarker, and zero
	// otherwise.
	Frame int
}

func markerLess(a, b Marker) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	return a.ID < b.ID
}

// BuildTimeline computes the ordered list of instants a session visits for
// p. The result is sorted by Time, then ID.
//
// Capture markers are ordered by their virtual time, not their frame
// number: a FrameTime mapping that is not monotonic produces captures whose
// Frame values are out of numeric order.
func BuildTimeline(p *Params) ([]Marker, error) {
	if p.Frames < 0 || p.Frames > MaxFrames {
		return nil, fmt.Errorf("%w: frame count %d out of range [0..%d]", ErrInvalidParams, p.Frames, MaxFrames)
	}

	id := 0
	captures := make([]Marker, 0, p.Frames)
	for i := 1; i <= p.Frames; i++ {
		ft := p.FrameTime(i, p.Frames)
		if ft > math.MaxInt64-p.Start {
			return nil, fmt.Errorf("%w: frame %d time %v overflows", ErrInvalidParams, i, ft)
		}
		t := p.Start + ft
		if t < 0 {
			return nil, fmt.Errorf("%w: frame %d is at negative time %v", ErrInvalidParams, i, t)
		}
		captures = append(captures, Marker{Time: t, Kind: CaptureMarker, ID: id, Frame: i})
		id++
	}
	slices.SortStableFunc(captures, markerLess)

	markers := make([]Marker, 0, len(captures)+1)
	if len(captures) > 0 && captures[0].Time > p.AnimationGapThreshold {
		markers = append(markers, Marker{Time: p.AnimationFrameTime, Kind: AnimateMarker, ID: id})
		id++
	}

	var last time.Duration
	animated := len(markers)
	for _, c := range captures {
		if d := p.MaxAnimationFrameDuration; d > 0 {
			gap := c.Time - last
			n := int64(gap / d)
			if gap%d != 0 {
				n++
			}
			if n < 1 {
				n = 1
			}
			if n-1 > int64(MaxFrames-animated) {
				return nil, fmt.Errorf("%w: gap of %v needs more than %d animate-only markers of %v", ErrInvalidParams, gap, MaxFrames, d)
			}
			for i := int64(1); i < n; i++ {
				t := last + time.Duration(float64(gap)*float64(i)/float64(n))
				markers = append(markers, Marker{Time: t, Kind: AnimateMarker, ID: id})
				id++
			}
			animated += int(n - 1)
		}
		markers = append(markers, c)
		last = c.Time
	}

	slices.SortStableFunc(markers, markerLess)
	return markers, nil
}
