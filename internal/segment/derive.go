package segment

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/aaaronmiller/ripit/internal/sanitize"
	"github.com/aaaronmiller/ripit/internal/timestamp"
	"github.com/aaaronmiller/ripit/internal/titles"
)

// minDescriptionEntries is the minimum number of timestamped lines for the
// description strategy: a single timestamp cannot bound an interval.
const minDescriptionEntries = 2

// descriptionLineRe matches a timestamped description line: optional
// leading whitespace, optional hours, minutes and two-digit seconds,
// mandatory whitespace, then a free-text title.
var descriptionLineRe = regexp.MustCompile(`^\s*((?:\d{1,3}:)?\d{1,3}:\d{2}(?:\.\d+)?)\s+(.+?)\s*$`)

// SilenceFunc runs the acoustic analysis pass and returns silence onsets
// sorted ascending. Zero onsets with a nil error is the soft-failure case:
// the file has no qualifying gaps. Called lazily, only when both
// structured sources produced nothing.
type SilenceFunc func(ctx context.Context) ([]float64, error)

// Config carries the derivation dependencies.
type Config struct {
	// DetectSilence is invoked for the silence strategy. When nil, the
	// silence strategy is skipped entirely.
	DetectSilence SilenceFunc
}

// Derive partitions item into named segments.
//
// Strategies are tried strictly in priority order: chapter marks, then the
// timestamped description, then silence detection with title correlation.
// The first strategy producing at least one segment wins and the rest are
// skipped. An empty result is not an error; it means "retain the file
// whole, untouched" and the caller must never invoke the materializer.
//
// Timestamps keep full float64 precision throughout: cut points are never
// truncated before the end-exceeds-start comparison, or boundary-adjacent
// sub-second cuts would be wrongly rejected.
func Derive(ctx context.Context, item MediaItem, cfg Config) ([]Segment, Trace) {
	var trace Trace
	trace.Chosen = StrategyNone

	if segs := fromChapters(item.Chapters, &trace); len(segs) > 0 {
		trace.accept(StrategyChapters, len(segs))
		return segs, trace
	}

	if segs := fromDescription(item.Description, &trace); len(segs) > 0 {
		trace.accept(StrategyDescription, len(segs))
		return segs, trace
	}

	if segs := fromSilence(ctx, item.Description, cfg.DetectSilence, &trace); len(segs) > 0 {
		trace.accept(StrategySilence, len(segs))
		return segs, trace
	}

	return nil, trace
}

// fromChapters derives one segment per chapter mark.
//
// A chapter whose end does not exceed its start is demoted to open-ended
// with a warning, never dropped: dropping a mark would silently fuse two
// chapters, which is worse than an overlong open-ended segment.
func fromChapters(chapters []Chapter, trace *Trace) []Segment {
	if len(chapters) == 0 {
		trace.reject(StrategyChapters, "no chapter marks in metadata")
		return nil
	}

	segs := make([]Segment, 0, len(chapters))
	for i, ch := range chapters {
		idx := i + 1

		end := OpenEnd()
		if ch.End != nil {
			if *ch.End > ch.Start {
				end = EndAt(*ch.End)
			} else {
				trace.warn(fmt.Sprintf(
					"chapter %d end %s does not exceed start %s, demoting to EOF",
					idx, timestamp.Clock(*ch.End), timestamp.Clock(ch.Start)))
			}
		}

		title := ""
		if ch.Title == "" {
			// The source carried no title at all.
			title = fmt.Sprintf("Chapter_%d", idx)
		} else if title = sanitize.Name(ch.Title); title == "" {
			title = fmt.Sprintf("chapter_%d", idx)
		}

		segs = append(segs, Segment{Index: idx, Start: ch.Start, End: end, Title: title})
	}
	return segs
}

// entry is one matched timestamp line from the description.
type entry struct {
	seconds float64
	title   string
}

// fromDescription derives segments from timestamped description lines.
func fromDescription(description string, trace *Trace) []Segment {
	if description == "" {
		trace.reject(StrategyDescription, "description is empty")
		return nil
	}

	var entries []entry
	for _, line := range strings.Split(description, "\n") {
		m := descriptionLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		seconds, err := timestamp.Parse(m[1])
		if err != nil {
			// Best-effort mining over uncontrolled text: warn and move on.
			trace.warn(fmt.Sprintf("skipping line %q: %v", strings.TrimSpace(line), err))
			continue
		}
		title := sanitize.Name(trimTitleSeparator(m[2]))
		if title == "" {
			title = "track"
		}
		entries = append(entries, entry{seconds: seconds, title: title})
	}

	if len(entries) < minDescriptionEntries {
		trace.reject(StrategyDescription, fmt.Sprintf(
			"%d timestamped lines found, need at least %d to bound an interval",
			len(entries), minDescriptionEntries))
		return nil
	}

	// Stable: entries sharing a timestamp keep their textual order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].seconds < entries[j].seconds
	})

	segs := make([]Segment, 0, len(entries))
	for i, e := range entries {
		end := OpenEnd()
		if i < len(entries)-1 && entries[i+1].seconds > e.seconds {
			end = EndAt(entries[i+1].seconds)
		}
		segs = append(segs, Segment{Index: i + 1, Start: e.seconds, End: end, Title: e.title})
	}
	return segs
}

// trimTitleSeparator strips the dash separator conventionally placed
// between the timestamp and the title ("00:00 - Alpha").
func trimTitleSeparator(title string) string {
	return strings.TrimSpace(strings.TrimLeft(title, "-–—"))
}

// fromSilence derives segments from silence onsets, correlating extracted
// description titles when their count matches exactly.
//
// N onsets imply N+1 candidate segments. A candidate whose bounded end
// does not exceed its start is suppressed, but its boundary still becomes
// the next candidate's start, so no content is lost. Indexes stay 1-based
// and contiguous across the survivors.
func fromSilence(ctx context.Context, description string, detect SilenceFunc, trace *Trace) []Segment {
	if detect == nil {
		trace.reject(StrategySilence, "silence detection not configured")
		return nil
	}

	points, err := detect(ctx)
	if err != nil {
		trace.warn(fmt.Sprintf("silence analysis failed: %v", err))
		trace.reject(StrategySilence, "silence analysis failed")
		return nil
	}
	if len(points) == 0 {
		trace.reject(StrategySilence, "no qualifying silence gaps found")
		return nil
	}

	candidates := titles.Extract(description)
	confident := len(candidates) == len(points)+1
	if !confident {
		trace.warn(fmt.Sprintf(
			"%d extracted titles do not match %d implied segments, using generic titles",
			len(candidates), len(points)+1))
	}

	segs := make([]Segment, 0, len(points)+1)
	for i := 0; i <= len(points); i++ {
		start := 0.0
		if i > 0 {
			start = points[i-1]
		}
		end := OpenEnd()
		if i < len(points) {
			end = EndAt(points[i])
		}

		if !end.Open() && end.Seconds() <= start {
			trace.warn(fmt.Sprintf(
				"suppressing zero-length slice at %s", timestamp.Clock(start)))
			continue
		}

		idx := len(segs) + 1
		title := ""
		if confident {
			if title = sanitize.Name(candidates[i]); title == "" {
				title = fmt.Sprintf("track_%d", idx)
			}
		} else {
			title = fmt.Sprintf("Track_%03d", idx)
		}

		segs = append(segs, Segment{Index: idx, Start: start, End: end, Title: title})
	}
	return segs
}
