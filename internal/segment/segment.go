// Package segment derives named track segments from unreliable sources of
// structure: embedded chapter marks, free-text timestamp lists, and
// acoustic silence gaps.
package segment

import (
	"fmt"

	"github.com/aaaronmiller/ripit/internal/timestamp"
)

// Chapter is a source-provided structural annotation.
type Chapter struct {
	Start float64
	// End is nil when the mark is open-ended and must be resolved to the
	// next mark's start or end-of-file.
	End   *float64
	Title string
}

// MediaItem is one piece of source media under processing. Constructed once
// per invocation from collaborator-supplied metadata; immutable thereafter.
type MediaItem struct {
	RawTitle    string
	Description string
	Chapters    []Chapter
	AudioPath   string
}

// End marks where a segment stops: a bounded offset in seconds, or
// open-ended to end-of-file. Open-ended ends are passed to the transcoder
// by omitting the upper bound.
type End struct {
	seconds float64
	open    bool
}

// EndAt returns a bounded end at the given offset.
func EndAt(seconds float64) End {
	return End{seconds: seconds}
}

// OpenEnd returns an open-ended (end-of-file) end.
func OpenEnd() End {
	return End{open: true}
}

// Open reports whether the end is open-ended.
func (e End) Open() bool {
	return e.open
}

// Seconds returns the bounded offset. Meaningful only when !Open.
func (e End) Seconds() float64 {
	return e.seconds
}

// String renders the end for diagnostics.
func (e End) String() string {
	if e.open {
		return "EOF"
	}
	return timestamp.Clock(e.seconds)
}

// Segment is one derived contiguous audio range destined for one output
// file. Title is already sanitized and never empty; Index is 1-based and
// contiguous across whatever segments survived derivation.
type Segment struct {
	Index int
	Start float64
	End   End
	Title string
}

// String renders the segment for diagnostics.
func (s Segment) String() string {
	return fmt.Sprintf("%03d %s [%s - %s]",
		s.Index, s.Title, timestamp.Clock(s.Start), s.End)
}
