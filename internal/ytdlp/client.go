// Package ytdlp wraps the external yt-dlp binary: metadata resolution,
// best-quality audio download, and archive-based deduplication.
//
// This is a thin collaborator boundary by design; retry policy and
// transport concerns belong to yt-dlp itself, not to this client.
package ytdlp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/aaaronmiller/ripit/internal/archive"
)

// EnvPath is the environment variable overriding yt-dlp binary discovery.
const EnvPath = "RIPIT_YTDLP"

// DownloadStatus reports the outcome of a download request.
type DownloadStatus int

const (
	// StatusDownloaded means a fresh audio file was written.
	StatusDownloaded DownloadStatus = iota
	// StatusSkipped means the identifier was already processed (archive
	// hit). Treated as success by callers.
	StatusSkipped
)

// String returns the status name for logging.
func (s DownloadStatus) String() string {
	switch s {
	case StatusDownloaded:
		return "downloaded"
	case StatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("DownloadStatus(%d)", int(s))
	}
}

// runFn executes yt-dlp and returns stdout and stderr separately: the
// metadata JSON arrives on stdout, progress and warnings on stderr.
type runFn func(ctx context.Context, path string, args []string) (stdout, stderr string, err error)

// Client invokes yt-dlp for one media identifier at a time.
type Client struct {
	binPath string
	arch    *archive.Archive
	logger  hclog.Logger
	timeout time.Duration
	run     runFn
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRun sets a custom run function (for testing).
func WithRun(fn runFn) ClientOption {
	return func(c *Client) { c.run = fn }
}

// WithTimeout bounds every yt-dlp invocation. Zero means no timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// NewClient creates a Client for the given binary and archive.
func NewClient(binPath string, arch *archive.Archive, logger hclog.Logger, opts ...ClientOption) (*Client, error) {
	if binPath == "" {
		return nil, fmt.Errorf("binPath cannot be empty: %w", ErrNotFound)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	c := &Client{
		binPath: binPath,
		arch:    arch,
		logger:  logger,
		run:     defaultRun,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Resolve locates the yt-dlp binary: explicit config path, RIPIT_YTDLP,
// then PATH lookup.
func Resolve(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: configured path %s: %v", ErrNotFound, explicit, err)
		}
		return explicit, nil
	}
	if env := os.Getenv(EnvPath); env != "" {
		if _, err := os.Stat(env); err != nil {
			return "", fmt.Errorf("%w: %s=%s: %v", ErrNotFound, EnvPath, env, err)
		}
		return env, nil
	}
	path, err := exec.LookPath("yt-dlp")
	if err != nil {
		return "", fmt.Errorf("%w: install yt-dlp or set %s", ErrNotFound, EnvPath)
	}
	return path, nil
}

// FetchMetadata resolves title, description, and chapter marks for url
// without downloading media.
func (c *Client) FetchMetadata(ctx context.Context, url string) (Metadata, error) {
	args := []string{"--dump-json", "--no-playlist", "--no-download", url}

	stdout, stderr, err := c.runBounded(ctx, args)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %v: %s", ErrMetadataUnavailable, err, firstLine(stderr))
	}

	md, warns, err := parseMetadata([]byte(stdout))
	if err != nil {
		return Metadata{}, err
	}
	for _, w := range warns {
		c.logger.Warn(w, "url", url)
	}
	return md, nil
}

// Download fetches the best-quality audio stream for url into outPath as
// the given format.
//
// When the identifier is already recorded in the archive the download is
// skipped entirely and StatusSkipped is returned; callers treat that as
// success, distinct from a fresh download and from hard failure.
func (c *Client) Download(ctx context.Context, url, id, outPath, format string) (DownloadStatus, error) {
	if c.arch != nil {
		seen, err := c.arch.Contains(id)
		if err != nil {
			// A damaged archive must not block downloads; dedup is an
			// optimization, not a correctness requirement.
			c.logger.Warn("archive check failed", "error", err)
		} else if seen {
			c.logger.Info("already processed, skipping download", "id", id)
			return StatusSkipped, nil
		}
	}

	args := []string{
		"-f", "bestaudio",
		"-x",
		"--audio-format", format,
		"--no-playlist",
		"-o", outPath,
		url,
	}

	_, stderr, err := c.runBounded(ctx, args)
	if err != nil {
		return 0, fmt.Errorf("%w: %v: %s", ErrDownloadFailed, err, firstLine(stderr))
	}

	if _, err := os.Stat(outPath); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrAudioMissing, outPath)
	}
	return StatusDownloaded, nil
}

// MarkProcessed records id in the archive. Called only after the pipeline
// fully succeeded for the item.
func (c *Client) MarkProcessed(id string) error {
	if c.arch == nil {
		return nil
	}
	return c.arch.Add(id)
}

// runBounded applies the configured timeout and executes yt-dlp.
func (c *Client) runBounded(ctx context.Context, args []string) (string, string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.run(ctx, c.binPath, args)
}

// defaultRun is the production implementation.
func defaultRun(ctx context.Context, path string, args []string) (string, string, error) {
	// #nosec G204 -- path is resolved by this program, args are constructed flags
	cmd := exec.CommandContext(ctx, path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// firstLine trims yt-dlp's stderr to its leading line for error messages.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
