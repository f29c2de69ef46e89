// Package split turns derived segments into output audio files via the
// external transcoder.
package split

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/aaaronmiller/ripit/internal/ffmpeg"
	"github.com/aaaronmiller/ripit/internal/segment"
	"github.com/aaaronmiller/ripit/internal/timestamp"
)

// ErrSegmentsFailed indicates at least one segment transcode failed. The
// original file is retained in that case.
var ErrSegmentsFailed = errors.New("one or more segments failed")

// Result is the aggregate outcome of a materialization run.
type Result struct {
	Succeeded int
	Failed    int
	// Outputs are the paths written successfully, in segment order.
	Outputs []string
	// OriginalDeleted reports whether the source file was removed because
	// every segment succeeded.
	OriginalDeleted bool
}

// Materializer executes segment plans against a source file.
//
// Failure policy: continue best-effort through all segments. A failed
// segment is counted and logged with full context but never aborts its
// siblings, so partial output can be left on disk for inspection; the
// original is deleted only when every segment succeeded.
type Materializer struct {
	ffmpegPath string
	exec       *ffmpeg.Executor
	logger     hclog.Logger
	parallel   int
	keep       bool
	files      fileOps
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithParallel sets the number of concurrent transcodes. Segments read the
// source file read-only and are independent once boundaries are fixed, so
// they may overlap; the delete decision is still serialized until all have
// reported. Default 1 (sequential).
func WithParallel(n int) Option {
	return func(m *Materializer) {
		if n > 0 {
			m.parallel = n
		}
	}
}

// WithKeepOriginal disables deletion of the source file even on full
// success.
func WithKeepOriginal(keep bool) Option {
	return func(m *Materializer) { m.keep = keep }
}

// WithFileOps sets the filesystem seam (for testing).
func WithFileOps(f fileOps) Option {
	return func(m *Materializer) { m.files = f }
}

// New creates a Materializer.
func New(ffmpegPath string, exec *ffmpeg.Executor, logger hclog.Logger, opts ...Option) (*Materializer, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	m := &Materializer{
		ffmpegPath: ffmpegPath,
		exec:       exec,
		logger:     logger,
		parallel:   1,
		files:      osFileOps{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Materialize writes one output file per segment under outputDir, tagging
// each with track number, title, and album.
//
// Output naming: <outputDir>/<zero-padded 3-digit index> - <title>.<ext>.
// Returns ErrSegmentsFailed (with counts in Result) when any segment
// failed; the source file is then retained. A deletion failure on full
// success is a warning only, since the split output is the deliverable.
func (m *Materializer) Materialize(ctx context.Context, segs []segment.Segment, sourceFile, outputDir, album, ext string) (Result, error) {
	var res Result
	if len(segs) == 0 {
		return res, nil
	}

	if err := m.files.MkdirAll(outputDir, 0750); err != nil {
		return res, fmt.Errorf("cannot create output directory: %w", err)
	}

	outputs := make([]string, len(segs))
	failed := make([]bool, len(segs))

	var g errgroup.Group
	g.SetLimit(m.parallel)
	var mu sync.Mutex

	for i, seg := range segs {
		i, seg := i, seg
		outPath := filepath.Join(outputDir, fmt.Sprintf("%03d - %s.%s", seg.Index, seg.Title, ext))
		g.Go(func() error {
			err := m.transcode(ctx, seg, sourceFile, outPath, album)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed[i] = true
				m.logger.Error("segment transcode failed",
					"index", seg.Index,
					"title", seg.Title,
					"input", sourceFile,
					"output", outPath,
					"start", timestamp.FFmpeg(seg.Start),
					"end", seg.End.String(),
					"error", err)
				return nil // best-effort: siblings continue
			}
			outputs[i] = outPath
			m.logger.Debug("segment written", "index", seg.Index, "output", outPath)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures are counted

	for i := range segs {
		if failed[i] {
			res.Failed++
		} else {
			res.Succeeded++
			res.Outputs = append(res.Outputs, outputs[i])
		}
	}

	if res.Failed > 0 {
		return res, fmt.Errorf("%w: %d of %d", ErrSegmentsFailed, res.Failed, len(segs))
	}

	// All segments succeeded: the split output fully supersedes the
	// original.
	if !m.keep {
		if err := m.files.Remove(sourceFile); err != nil {
			m.logger.Warn("could not delete original file", "path", sourceFile, "error", err)
		} else {
			res.OriginalDeleted = true
			m.logger.Info("original file deleted", "path", sourceFile)
		}
	}
	return res, nil
}

// transcode extracts one segment range into outPath with tags.
func (m *Materializer) transcode(ctx context.Context, seg segment.Segment, sourceFile, outPath, album string) error {
	args := []string{
		"-y",
		"-i", sourceFile,
		"-ss", timestamp.FFmpeg(seg.Start),
	}
	// Open-ended segments run to end-of-file: the upper bound is omitted.
	if !seg.End.Open() {
		args = append(args, "-to", timestamp.FFmpeg(seg.End.Seconds()))
	}
	args = append(args,
		"-vn",
		"-acodec", "copy",
		"-metadata", fmt.Sprintf("track=%d", seg.Index),
		"-metadata", fmt.Sprintf("title=%s", seg.Title),
		"-metadata", fmt.Sprintf("album=%s", album),
		outPath,
	)
	return m.exec.Transcode(ctx, m.ffmpegPath, args)
}
