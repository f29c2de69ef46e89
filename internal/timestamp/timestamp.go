// Package timestamp parses and formats media positions in seconds.
package timestamp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed indicates text that is not a clock-style timestamp.
var ErrMalformed = errors.New("malformed timestamp")

// Parse converts clock notation to seconds. Accepted forms are SS, MM:SS,
// and HH:MM:SS, with an optional fractional part on the rightmost field.
func Parse(text string) (float64, error) {
	fields := strings.Split(strings.TrimSpace(text), ":")
	if len(fields) < 1 || len(fields) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, text)
	}

	var total float64
	for i, f := range fields {
		if f == "" {
			return 0, fmt.Errorf("%w: %q", ErrMalformed, text)
		}
		if i == len(fields)-1 {
			sec, err := strconv.ParseFloat(f, 64)
			if err != nil || sec < 0 {
				return 0, fmt.Errorf("%w: %q", ErrMalformed, text)
			}
			total = total*60 + sec
			break
		}
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrMalformed, text)
		}
		total = total*60 + float64(n)
	}
	return total, nil
}

// FFmpeg formats seconds the way ffmpeg's -ss and -to flags expect,
// keeping millisecond precision.
func FFmpeg(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

// Clock formats seconds for human display, H:MM:SS above an hour and
// M:SS below.
func Clock(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
