// Package silence detects silence onsets in an audio file using ffmpeg's
// silencedetect filter.
package silence

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/aaaronmiller/ripit/internal/ffmpeg"
)

// Default analysis parameters. -30dB / 2s suit music with distinct track
// gaps; speech needs a shorter minimum.
const (
	DefaultNoiseDB     = -30.0
	DefaultMinDuration = 2.0
)

// Regex patterns for silencedetect report lines, e.g.
//
//	[silencedetect @ 0x...] silence_start: 42.123
var (
	onsetRe    = regexp.MustCompile(`silence_start:\s*(-?[\d.]+)`)
	durationRe = regexp.MustCompile(`Duration:\s*\d+:\d+:\d+`)
)

// Detector runs the silencedetect analysis pass.
type Detector struct {
	ffmpegPath string
	exec       *ffmpeg.Executor
}

// NewDetector creates a Detector for the given ffmpeg binary.
func NewDetector(ffmpegPath string, exec *ffmpeg.Executor) (*Detector, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}
	return &Detector{ffmpegPath: ffmpegPath, exec: exec}, nil
}

// Detect returns silence-onset timestamps sorted ascending.
//
// A qualifying silence has level <= noiseDB for at least minDuration
// seconds. Zero onsets with a clean analysis pass is not an error: it
// returns (nil, nil) and signals "try a different strategy". A hard error
// is returned only when ffmpeg failed without producing an analysis report
// (e.g. unreadable input); the exit status alone is not trusted, because
// the -f null output mode commonly exits non-zero on success.
func (d *Detector) Detect(ctx context.Context, audioPath string, noiseDB, minDuration float64) ([]float64, error) {
	args := []string{
		"-i", audioPath,
		"-af", fmt.Sprintf("silencedetect=noise=%gdB:d=%g", noiseDB, minDuration),
		"-f", "null",
		"-",
	}

	out, runErr := d.exec.Output(ctx, d.ffmpegPath, args)

	onsets := parseOnsets(out)
	if len(onsets) > 0 {
		return onsets, nil
	}

	// No onsets. Disambiguate by content: a readable input always yields a
	// Duration header even when the exit status is non-zero.
	if runErr != nil && !durationRe.MatchString(out) {
		return nil, fmt.Errorf("silence analysis failed: %v\noutput: %s", runErr, tail(out))
	}
	return nil, nil
}

// parseOnsets extracts silence_start values, sorted ascending.
// Negative onsets (ffmpeg reports small negative values for silence at the
// very start of a file) are clamped to zero.
func parseOnsets(output string) []float64 {
	var onsets []float64
	for _, line := range strings.Split(output, "\n") {
		m := onsetRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		seconds, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if seconds < 0 {
			seconds = 0
		}
		onsets = append(onsets, seconds)
	}
	sort.Float64s(onsets)
	return onsets
}

// tail returns the last few lines of ffmpeg output for error context.
func tail(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	const keep = 5
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return strings.Join(lines, "\n")
}
