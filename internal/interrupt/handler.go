// Package interrupt provides graceful Ctrl+C handling for the rip
// pipeline: the first interrupt cancels in-flight external processes but
// keeps completed output, a second interrupt within the window abandons
// the run entirely.
package interrupt

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Behavior defines what happens after the first Ctrl+C.
type Behavior int

const (
	// KeepPartial means stop new work but keep segments already written.
	KeepPartial Behavior = iota
	// Abort means discard the run's output and exit.
	Abort
)

// String returns the string representation of the Behavior.
func (b Behavior) String() string {
	switch b {
	case KeepPartial:
		return "KeepPartial"
	case Abort:
		return "Abort"
	default:
		return fmt.Sprintf("Behavior(%d)", b)
	}
}

// ExitInterrupt is the exit code for interrupt (130 = 128 + SIGINT).
const ExitInterrupt = 130

// window is the time span in which a second Ctrl+C triggers abort.
const window = 2 * time.Second

// pollInterval is how often Decide checks for abort status.
const pollInterval = 100 * time.Millisecond

// Handler manages double Ctrl+C detection.
type Handler struct {
	mu          sync.Mutex
	first       time.Time
	interrupted bool
	aborted     bool
	stopped     bool
	cancel      context.CancelFunc
	done        chan struct{}

	exitFunc func(int)
	nowFunc  func() time.Time
	stderr   io.Writer
}

// Options holds injectable dependencies for testing.
type Options struct {
	SigCh    <-chan os.Signal
	ExitFunc func(int)
	NowFunc  func() time.Time
	// Stderr must be safe for concurrent writes; os.Stderr is.
	Stderr io.Writer
}

// NewHandler creates a handler listening for SIGINT/SIGTERM and returns a
// context canceled on first interrupt.
func NewHandler(parent context.Context) (*Handler, context.Context) {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	return NewHandlerWithOptions(parent, Options{SigCh: sigCh})
}

// NewHandlerWithOptions creates a handler with injectable dependencies.
func NewHandlerWithOptions(parent context.Context, opts Options) (*Handler, context.Context) {
	ctx, cancel := context.WithCancel(parent)

	if opts.ExitFunc == nil {
		opts.ExitFunc = os.Exit
	}
	if opts.NowFunc == nil {
		opts.NowFunc = time.Now
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	h := &Handler{
		cancel:   cancel,
		done:     make(chan struct{}),
		exitFunc: opts.ExitFunc,
		nowFunc:  opts.NowFunc,
		stderr:   opts.Stderr,
	}
	if opts.SigCh != nil {
		go h.listen(opts.SigCh)
	}
	return h, ctx
}

// listen handles incoming signals.
func (h *Handler) listen(sigCh <-chan os.Signal) {
	for {
		select {
		case <-h.done:
			return
		case _, ok := <-sigCh:
			if !ok {
				return
			}

			h.mu.Lock()
			if h.stopped {
				h.mu.Unlock()
				return
			}
			now := h.nowFunc()

			if !h.interrupted {
				h.interrupted = true
				h.first = now
				h.cancel()
				h.mu.Unlock()
				continue
			}

			if now.Sub(h.first) <= window {
				h.aborted = true
				h.mu.Unlock()
				fmt.Fprintln(h.stderr, "\nAborted.")
				h.exitFunc(ExitInterrupt)
				return // exitFunc may not exit in tests
			}
			h.mu.Unlock()
		}
	}
}

// Interrupted reports whether at least one interrupt was received.
func (h *Handler) Interrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}

// Decide waits out the interrupt window and returns the user's intent:
// Abort when a second Ctrl+C arrived within the window, KeepPartial
// otherwise. The message guides the user while waiting.
func (h *Handler) Decide(message string) Behavior {
	h.mu.Lock()
	if !h.interrupted {
		h.mu.Unlock()
		return KeepPartial
	}
	if h.aborted {
		h.mu.Unlock()
		return Abort
	}
	first := h.first
	h.mu.Unlock()

	remaining := window - h.nowFunc().Sub(first)
	if remaining <= 0 {
		return KeepPartial
	}

	fmt.Fprintln(h.stderr, message)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(remaining)
	defer deadline.Stop()

	for {
		select {
		case <-deadline.C:
			return KeepPartial
		case <-ticker.C:
			h.mu.Lock()
			aborted := h.aborted
			h.mu.Unlock()
			if aborted {
				return Abort
			}
		}
	}
}

// Stop cleans up the handler. Should be called when done.
func (h *Handler) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	h.mu.Unlock()

	signal.Reset(syscall.SIGINT, syscall.SIGTERM)
	close(h.done)
}
