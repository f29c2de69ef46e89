package silence_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/aaaronmiller/ripit/internal/ffmpeg"
	"github.com/aaaronmiller/ripit/internal/silence"
)

// report builds a plausible silencedetect stderr report.
const reportHeader = `Input #0, mp3, from 'album.mp3':
  Duration: 00:12:30.50, start: 0.000000, bitrate: 192 kb/s
`

func detectorWith(t *testing.T, output string, runErr error) *silence.Detector {
	t.Helper()

	e := ffmpeg.NewExecutor(ffmpeg.WithRun(
		func(_ context.Context, _ string, args []string) (string, error) {
			// The filter argument must carry the configured thresholds.
			joined := strings.Join(args, " ")
			if !strings.Contains(joined, "silencedetect=noise=-30dB:d=2") {
				t.Errorf("unexpected ffmpeg args: %v", args)
			}
			return output, runErr
		}))

	d, err := silence.NewDetector("/usr/bin/ffmpeg", e)
	if err != nil {
		t.Fatalf("NewDetector() error: %v", err)
	}
	return d
}

func TestDetect(t *testing.T) {
	t.Parallel()

	t.Run("parses onsets sorted ascending", func(t *testing.T) {
		t.Parallel()

		output := reportHeader +
			"[silencedetect @ 0x1] silence_start: 90.25\n" +
			"[silencedetect @ 0x1] silence_end: 92.5 | silence_duration: 2.25\n" +
			"[silencedetect @ 0x1] silence_start: 245.125\n" +
			"[silencedetect @ 0x1] silence_end: 248.0 | silence_duration: 2.875\n"

		d := detectorWith(t, output, nil)
		got, err := d.Detect(context.Background(), "album.mp3", -30, 2)
		if err != nil {
			t.Fatalf("Detect() error: %v", err)
		}
		want := []float64{90.25, 245.125}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Detect() = %v, want %v", got, want)
		}
	})

	t.Run("non-zero exit with onsets is still success", func(t *testing.T) {
		t.Parallel()

		output := reportHeader + "[silencedetect @ 0x1] silence_start: 10.5\n"
		d := detectorWith(t, output, errors.New("exit status 1"))

		got, err := d.Detect(context.Background(), "album.mp3", -30, 2)
		if err != nil {
			t.Fatalf("Detect() error: %v (exit status must not decide failure)", err)
		}
		if len(got) != 1 || got[0] != 10.5 {
			t.Errorf("Detect() = %v, want [10.5]", got)
		}
	})

	t.Run("clean run with zero onsets is soft failure", func(t *testing.T) {
		t.Parallel()

		d := detectorWith(t, reportHeader, nil)
		got, err := d.Detect(context.Background(), "album.mp3", -30, 2)
		if err != nil {
			t.Fatalf("Detect() error: %v, want nil (soft failure)", err)
		}
		if got != nil {
			t.Errorf("Detect() = %v, want nil", got)
		}
	})

	t.Run("execution error without report is hard failure", func(t *testing.T) {
		t.Parallel()

		output := "album.mp3: No such file or directory\n"
		d := detectorWith(t, output, errors.New("exit status 1"))

		if _, err := d.Detect(context.Background(), "album.mp3", -30, 2); err == nil {
			t.Fatal("Detect() error = nil, want hard failure for unreadable input")
		}
	})

	t.Run("negative onset clamped to zero", func(t *testing.T) {
		t.Parallel()

		output := reportHeader + "[silencedetect @ 0x1] silence_start: -0.011\n"
		d := detectorWith(t, output, nil)

		got, err := d.Detect(context.Background(), "album.mp3", -30, 2)
		if err != nil {
			t.Fatalf("Detect() error: %v", err)
		}
		if len(got) != 1 || got[0] != 0 {
			t.Errorf("Detect() = %v, want [0]", got)
		}
	})
}

func TestNewDetectorRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := silence.NewDetector("", ffmpeg.NewExecutor()); !errors.Is(err, ffmpeg.ErrNotFound) {
		t.Errorf("NewDetector(\"\") error = %v, want ErrNotFound", err)
	}
}
