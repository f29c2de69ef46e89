package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/aaaronmiller/ripit/internal/archive"
	"github.com/aaaronmiller/ripit/internal/config"
	"github.com/aaaronmiller/ripit/internal/ffmpeg"
	"github.com/aaaronmiller/ripit/internal/segment"
	"github.com/aaaronmiller/ripit/internal/silence"
	"github.com/aaaronmiller/ripit/internal/split"
	"github.com/aaaronmiller/ripit/internal/ytdlp"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing commands in isolation.
//
// All fields have production defaults via DefaultEnv(). Tests override
// specific fields with the With* options.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Logger hclog.Logger

	// Binary resolution
	ResolveFFmpeg func(explicit string) (string, error)
	ResolveYtdlp  func(explicit string) (string, error)

	// Factories for domain objects
	ConfigLoader ConfigLoader
	Clients      ClientFactory
	Detectors    DetectorFactory
	Splitters    SplitterFactory
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load(ctx context.Context) (config.Config, error)
}

// MediaClient resolves metadata and downloads audio for one identifier.
type MediaClient interface {
	FetchMetadata(ctx context.Context, url string) (ytdlp.Metadata, error)
	Download(ctx context.Context, url, id, outPath, format string) (ytdlp.DownloadStatus, error)
	MarkProcessed(id string) error
}

// ClientFactory creates media clients.
type ClientFactory interface {
	NewClient(binPath string, arch *archive.Archive, logger hclog.Logger, timeout time.Duration) (MediaClient, error)
}

// SilenceDetector runs the acoustic analysis pass.
type SilenceDetector interface {
	Detect(ctx context.Context, audioPath string, noiseDB, minDuration float64) ([]float64, error)
}

// DetectorFactory creates silence detectors.
type DetectorFactory interface {
	NewDetector(ffmpegPath string, exec *ffmpeg.Executor) (SilenceDetector, error)
}

// Splitter materializes segments into output files.
type Splitter interface {
	Materialize(ctx context.Context, segs []segment.Segment, sourceFile, outputDir, album, ext string) (split.Result, error)
}

// SplitterFactory creates splitters.
type SplitterFactory interface {
	NewSplitter(ffmpegPath string, exec *ffmpeg.Executor, logger hclog.Logger, opts ...split.Option) (Splitter, error)
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) { e.Stdout = w }
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) { e.Stderr = w }
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) { e.Getenv = fn }
}

// WithLogger sets the structured logger.
func WithLogger(l hclog.Logger) EnvOption {
	return func(e *Env) { e.Logger = l }
}

// WithResolveFFmpeg sets the ffmpeg binary resolver.
func WithResolveFFmpeg(fn func(string) (string, error)) EnvOption {
	return func(e *Env) { e.ResolveFFmpeg = fn }
}

// WithResolveYtdlp sets the yt-dlp binary resolver.
func WithResolveYtdlp(fn func(string) (string, error)) EnvOption {
	return func(e *Env) { e.ResolveYtdlp = fn }
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) { e.ConfigLoader = l }
}

// WithClientFactory sets the media client factory.
func WithClientFactory(f ClientFactory) EnvOption {
	return func(e *Env) { e.Clients = f }
}

// WithDetectorFactory sets the silence detector factory.
func WithDetectorFactory(f DetectorFactory) EnvOption {
	return func(e *Env) { e.Detectors = f }
}

// WithSplitterFactory sets the splitter factory.
func WithSplitterFactory(f SplitterFactory) EnvOption {
	return func(e *Env) { e.Splitters = f }
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		Getenv:        os.Getenv,
		Logger:        hclog.NewNullLogger(),
		ResolveFFmpeg: ffmpeg.Resolve,
		ResolveYtdlp:  ytdlp.Resolve,
		ConfigLoader:  &defaultConfigLoader{},
		Clients:       &defaultClientFactory{},
		Detectors:     &defaultDetectorFactory{},
		Splitters:     &defaultSplitterFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

type defaultConfigLoader struct{}

func (defaultConfigLoader) Load(ctx context.Context) (config.Config, error) {
	return config.Load(ctx)
}

type defaultClientFactory struct{}

func (defaultClientFactory) NewClient(binPath string, arch *archive.Archive, logger hclog.Logger, timeout time.Duration) (MediaClient, error) {
	return ytdlp.NewClient(binPath, arch, logger, ytdlp.WithTimeout(timeout))
}

type defaultDetectorFactory struct{}

func (defaultDetectorFactory) NewDetector(ffmpegPath string, exec *ffmpeg.Executor) (SilenceDetector, error) {
	return silence.NewDetector(ffmpegPath, exec)
}

type defaultSplitterFactory struct{}

func (defaultSplitterFactory) NewSplitter(ffmpegPath string, exec *ffmpeg.Executor, logger hclog.Logger, opts ...split.Option) (Splitter, error) {
	return split.New(ffmpegPath, exec, logger, opts...)
}

// Compile-time interface verification.
var (
	_ ConfigLoader    = (*defaultConfigLoader)(nil)
	_ ClientFactory   = (*defaultClientFactory)(nil)
	_ DetectorFactory = (*defaultDetectorFactory)(nil)
	_ SplitterFactory = (*defaultSplitterFactory)(nil)
)
