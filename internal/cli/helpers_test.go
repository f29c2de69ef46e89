package cli

import (
	"bytes"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newTestEnv builds an Env with buffered output and a silent logger.
func newTestEnv() (*Env, *syncBuffer, *syncBuffer) {
	stdout := &syncBuffer{}
	stderr := &syncBuffer{}
	env := &Env{
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(string) string { return "" },
		Logger: hclog.NewNullLogger(),
		ResolveFFmpeg: func(string) (string, error) {
			return "/usr/bin/ffmpeg", nil
		},
		ResolveYtdlp: func(string) (string, error) {
			return "/usr/bin/yt-dlp", nil
		},
	}
	return env, stdout, stderr
}
