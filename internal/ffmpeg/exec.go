// Package ffmpeg locates and runs the ffmpeg binary.
//
// ffmpeg writes its diagnostic output (including silencedetect reports) to
// stderr and frequently returns a non-zero exit status for operations that
// succeeded, so callers must judge success by inspecting the captured
// output rather than trusting the status code alone.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"
)

// runFn is the function type for running ffmpeg and capturing stderr.
type runFn func(ctx context.Context, path string, args []string) (string, error)

// Executor runs ffmpeg commands with injectable execution for testing.
type Executor struct {
	run     runFn
	timeout time.Duration
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRun sets a custom run function (for testing).
func WithRun(fn runFn) ExecutorOption {
	return func(e *Executor) { e.run = fn }
}

// WithTimeout bounds every ffmpeg invocation. Zero means no timeout;
// external tools can hang on malformed input, so production callers
// normally set one.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = d }
}

// NewExecutor creates an Executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{run: defaultRun}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Output executes ffmpeg and returns its stderr output.
//
// The output is returned even when the command fails: for probe-style
// invocations (-f null) the data lives on stderr and the exit status is
// not a reliable success signal.
func (e *Executor) Output(ctx context.Context, ffmpegPath string, args []string) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	return e.run(ctx, ffmpegPath, args)
}

// Transcode executes ffmpeg for an operation that must produce a file.
// Unlike Output, a non-zero exit here is a real failure; stderr is folded
// into the error for context.
func (e *Executor) Transcode(ctx context.Context, ffmpegPath string, args []string) error {
	out, err := e.Output(ctx, ffmpegPath, args)
	if err != nil {
		return fmt.Errorf("%w: %v\noutput: %s", ErrTranscodeFailed, err, out)
	}
	return nil
}

// defaultRun is the production implementation. Stdout and stderr are
// captured together: probe data arrives on stderr, version banners on
// stdout.
func defaultRun(ctx context.Context, ffmpegPath string, args []string) (string, error) {
	// #nosec G204 -- path and args are constructed by this program, not user input
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	return buf.String(), err
}
