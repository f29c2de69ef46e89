package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/aaaronmiller/ripit/internal/archive"
	"github.com/aaaronmiller/ripit/internal/config"
	"github.com/aaaronmiller/ripit/internal/ffmpeg"
	"github.com/aaaronmiller/ripit/internal/interrupt"
	"github.com/aaaronmiller/ripit/internal/sanitize"
	"github.com/aaaronmiller/ripit/internal/segment"
	"github.com/aaaronmiller/ripit/internal/silence"
	"github.com/aaaronmiller/ripit/internal/split"
	"github.com/aaaronmiller/ripit/internal/ytdlp"
)

// ripOptions are the per-run settings after merging config and flags.
type ripOptions struct {
	outputDir  string
	noiseDB    float64
	minSilence float64
	format     string
	parallel   int
	keep       bool
	timeout    time.Duration
}

// RipCmd creates the rip command.
func RipCmd(env *Env) *cobra.Command {
	var (
		outputDir  string
		noiseDB    float64
		minSilence float64
		format     string
		parallel   int
		keep       bool
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "rip <url>",
		Short: "Download audio and split it into titled tracks",
		Long: `Download the audio stream for a single video and split it into
individually titled track files.

Track boundaries come from the first source of structure that yields
anything, in priority order: embedded chapter marks, a timestamped track
list in the description, then silence detection correlated with extracted
titles. When no structure is found the file is kept whole.`,
		Example: `  ripit rip https://example.com/watch?v=abc123
  ripit rip -o ~/Music --noise -40 --min-silence 1.5 https://example.com/watch?v=abc123
  ripit rip --keep -p 4 https://example.com/watch?v=abc123`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := env.ConfigLoader.Load(cmd.Context())
			if err != nil {
				return err
			}

			opts := ripOptions{
				outputDir:  cfg.OutputDir,
				noiseDB:    cfg.NoiseDB,
				minSilence: cfg.MinSilence,
				format:     cfg.Format,
				parallel:   1,
				timeout:    cfg.Timeout,
			}
			flags := cmd.Flags()
			if flags.Changed("output-dir") {
				opts.outputDir = config.ExpandPath(outputDir)
			}
			if flags.Changed("noise") {
				opts.noiseDB = noiseDB
			}
			if flags.Changed("min-silence") {
				opts.minSilence = minSilence
			}
			if flags.Changed("format") {
				opts.format = format
			}
			if flags.Changed("parallel") {
				opts.parallel = parallel
			}
			if flags.Changed("timeout") {
				opts.timeout = timeout
			}
			opts.keep = keep

			p, err := newPipeline(cmd.Context(), env, cfg, opts)
			if err != nil {
				return err
			}

			// First Ctrl+C cancels in-flight external processes but keeps
			// completed tracks; a second one within the window aborts.
			h, ctx := interrupt.NewHandler(cmd.Context())
			defer h.Stop()

			runErr := p.run(ctx, args[0])
			if h.Interrupted() {
				h.Decide("Interrupted: keeping completed tracks. Press Ctrl+C again to abort.")
				return context.Canceled
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the album directory (default: config or cwd)")
	cmd.Flags().Float64Var(&noiseDB, "noise", silence.DefaultNoiseDB, "Silence threshold in dB")
	cmd.Flags().Float64Var(&minSilence, "min-silence", silence.DefaultMinDuration, "Minimum silence duration in seconds")
	cmd.Flags().StringVarP(&format, "format", "f", "mp3", "Output audio format")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "Concurrent segment transcodes")
	cmd.Flags().BoolVar(&keep, "keep", false, "Never delete the downloaded source file")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-call timeout for external tools (0 = none)")

	return cmd
}

// pipeline holds the resolved collaborators for one or more rip runs.
type pipeline struct {
	env      *Env
	opts     ripOptions
	client   MediaClient
	detector SilenceDetector
	splitter Splitter
}

// newPipeline resolves external binaries and builds the collaborators.
func newPipeline(ctx context.Context, env *Env, cfg config.Config, opts ripOptions) (*pipeline, error) {
	ytdlpPath, err := env.ResolveYtdlp(cfg.Ytdlp)
	if err != nil {
		return nil, err
	}
	ffmpegPath, err := env.ResolveFFmpeg(cfg.FFmpeg)
	if err != nil {
		return nil, err
	}

	exec := ffmpeg.NewExecutor(ffmpeg.WithTimeout(opts.timeout))
	if env.Logger.IsDebug() {
		env.Logger.Debug("ffmpeg resolved",
			"path", ffmpegPath, "version", ffmpeg.Version(ctx, exec, ffmpegPath))
	}

	arch := archive.New(cfg.Archive)
	client, err := env.Clients.NewClient(ytdlpPath, arch, env.Logger, opts.timeout)
	if err != nil {
		return nil, err
	}
	detector, err := env.Detectors.NewDetector(ffmpegPath, exec)
	if err != nil {
		return nil, err
	}
	splitter, err := env.Splitters.NewSplitter(ffmpegPath, exec, env.Logger,
		split.WithParallel(opts.parallel), split.WithKeepOriginal(opts.keep))
	if err != nil {
		return nil, err
	}

	return &pipeline{
		env:      env,
		opts:     opts,
		client:   client,
		detector: detector,
		splitter: splitter,
	}, nil
}

// run executes the full pipeline for one URL.
func (p *pipeline) run(ctx context.Context, url string) error {
	stderr := p.env.Stderr
	logger := p.env.Logger

	infof(stderr, "Fetching metadata...")
	md, err := p.client.FetchMetadata(ctx, url)
	if err != nil {
		return err
	}
	logger.Info("metadata resolved", "id", md.ID, "title", md.Title,
		"chapters", len(md.Chapters), "description_bytes", len(md.Description))

	album := sanitize.Name(md.Title)
	if album == "" {
		album = "ripit_" + md.ID
	}
	outDir := filepath.Join(p.opts.outputDir, album)
	sourceFile := filepath.Join(outDir, album+"."+p.opts.format)

	if err := os.MkdirAll(outDir, 0750); err != nil { // #nosec G301 -- user output dir
		return fmt.Errorf("cannot create output directory: %w", err)
	}

	infof(stderr, "Downloading audio...")
	status, err := p.client.Download(ctx, url, md.ID, sourceFile, p.opts.format)
	if err != nil {
		return err
	}
	if status == ytdlp.StatusSkipped {
		successf(stderr, "Already processed: %s", md.Title)
		return nil
	}

	item := segment.MediaItem{
		RawTitle:    md.Title,
		Description: md.Description,
		Chapters:    md.Chapters,
		AudioPath:   sourceFile,
	}
	segs, trace := segment.Derive(ctx, item, segment.Config{
		DetectSilence: func(ctx context.Context) ([]float64, error) {
			infof(stderr, "Analyzing silence (%g dB, %gs)...", p.opts.noiseDB, p.opts.minSilence)
			return p.detector.Detect(ctx, sourceFile, p.opts.noiseDB, p.opts.minSilence)
		},
	})
	logTrace(logger, trace)
	for _, w := range trace.Warnings {
		warnf(stderr, "Warning: %s", w)
	}

	if len(segs) == 0 {
		warnf(stderr, "No track structure found; keeping the file whole: %s", sourceFile)
		p.markProcessed(md.ID)
		return nil
	}

	infof(stderr, "Strategy %q produced %d tracks:", trace.Chosen, len(segs))
	printSegments(stderr, segs)

	res, err := p.splitter.Materialize(ctx, segs, sourceFile, outDir, album, p.opts.format)
	if err != nil {
		if errors.Is(err, split.ErrSegmentsFailed) {
			failf(stderr, "Partially successful: %d written, %d failed; original retained", res.Succeeded, res.Failed)
		}
		return err
	}

	successf(stderr, "Fully successful: %d tracks in %s", res.Succeeded, outDir)
	p.markProcessed(md.ID)
	return nil
}

// logTrace emits the derivation record: which strategies were tried,
// why each was rejected, and what the chosen one produced.
func logTrace(logger hclog.Logger, trace segment.Trace) {
	for _, a := range trace.Attempts {
		if a.Rejected != "" {
			logger.Debug("strategy rejected", "strategy", a.Strategy, "reason", a.Rejected)
			continue
		}
		logger.Info("strategy selected", "strategy", a.Strategy, "segments", a.Segments)
	}
	for _, w := range trace.Warnings {
		logger.Warn("derivation warning", "detail", w)
	}
}

// markProcessed records the id for deduplication. Archive write failures
// are warnings: the deliverable already exists on disk.
func (p *pipeline) markProcessed(id string) {
	if err := p.client.MarkProcessed(id); err != nil {
		warnf(p.env.Stderr, "Warning: could not update archive: %v", err)
		p.env.Logger.Warn("archive update failed", "id", id, "error", err)
	}
}
