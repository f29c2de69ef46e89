package cli

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/aaaronmiller/ripit/internal/archive"
	"github.com/aaaronmiller/ripit/internal/config"
	"github.com/aaaronmiller/ripit/internal/ffmpeg"
	"github.com/aaaronmiller/ripit/internal/segment"
	"github.com/aaaronmiller/ripit/internal/split"
	"github.com/aaaronmiller/ripit/internal/ytdlp"
)

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func(ctx context.Context) (config.Config, error)
}

func (m *mockConfigLoader) Load(ctx context.Context) (config.Config, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return config.Config{Format: "mp3", NoiseDB: -30, MinSilence: 2}, nil
}

// ---------------------------------------------------------------------------
// Mock MediaClient
// ---------------------------------------------------------------------------

type downloadCall struct {
	url     string
	id      string
	outPath string
	format  string
}

type mockClient struct {
	FetchMetadataFunc func(ctx context.Context, url string) (ytdlp.Metadata, error)
	DownloadFunc      func(ctx context.Context, url, id, outPath, format string) (ytdlp.DownloadStatus, error)
	MarkProcessedFunc func(id string) error

	mu        sync.Mutex
	downloads []downloadCall
	marked    []string
}

func (m *mockClient) FetchMetadata(ctx context.Context, url string) (ytdlp.Metadata, error) {
	if m.FetchMetadataFunc != nil {
		return m.FetchMetadataFunc(ctx, url)
	}
	return ytdlp.Metadata{ID: "vid1", Title: "Some Album"}, nil
}

func (m *mockClient) Download(ctx context.Context, url, id, outPath, format string) (ytdlp.DownloadStatus, error) {
	m.mu.Lock()
	m.downloads = append(m.downloads, downloadCall{url, id, outPath, format})
	m.mu.Unlock()

	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, url, id, outPath, format)
	}
	return ytdlp.StatusDownloaded, nil
}

func (m *mockClient) MarkProcessed(id string) error {
	m.mu.Lock()
	m.marked = append(m.marked, id)
	m.mu.Unlock()

	if m.MarkProcessedFunc != nil {
		return m.MarkProcessedFunc(id)
	}
	return nil
}

func (m *mockClient) downloadCalls() []downloadCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]downloadCall(nil), m.downloads...)
}

func (m *mockClient) markedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.marked...)
}

type mockClientFactory struct {
	client *mockClient
	err    error
}

func (f *mockClientFactory) NewClient(binPath string, arch *archive.Archive, logger hclog.Logger, timeout time.Duration) (MediaClient, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.client, nil
}

// ---------------------------------------------------------------------------
// Mock SilenceDetector
// ---------------------------------------------------------------------------

type mockDetector struct {
	DetectFunc func(ctx context.Context, audioPath string, noiseDB, minDuration float64) ([]float64, error)

	mu    sync.Mutex
	calls int
}

func (m *mockDetector) Detect(ctx context.Context, audioPath string, noiseDB, minDuration float64) ([]float64, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.DetectFunc != nil {
		return m.DetectFunc(ctx, audioPath, noiseDB, minDuration)
	}
	return nil, nil
}

func (m *mockDetector) detectCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockDetectorFactory struct {
	detector *mockDetector
	err      error
}

func (f *mockDetectorFactory) NewDetector(ffmpegPath string, exec *ffmpeg.Executor) (SilenceDetector, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.detector, nil
}

// ---------------------------------------------------------------------------
// Mock Splitter
// ---------------------------------------------------------------------------

type materializeCall struct {
	segs       []segment.Segment
	sourceFile string
	outputDir  string
	album      string
	ext        string
}

type mockSplitter struct {
	MaterializeFunc func(ctx context.Context, segs []segment.Segment, sourceFile, outputDir, album, ext string) (split.Result, error)

	mu    sync.Mutex
	calls []materializeCall
}

func (m *mockSplitter) Materialize(ctx context.Context, segs []segment.Segment, sourceFile, outputDir, album, ext string) (split.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, materializeCall{segs, sourceFile, outputDir, album, ext})
	m.mu.Unlock()

	if m.MaterializeFunc != nil {
		return m.MaterializeFunc(ctx, segs, sourceFile, outputDir, album, ext)
	}
	return split.Result{Succeeded: len(segs), OriginalDeleted: true}, nil
}

func (m *mockSplitter) materializeCalls() []materializeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]materializeCall(nil), m.calls...)
}

type mockSplitterFactory struct {
	splitter *mockSplitter
	err      error
}

func (f *mockSplitterFactory) NewSplitter(ffmpegPath string, exec *ffmpeg.Executor, logger hclog.Logger, opts ...split.Option) (Splitter, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.splitter, nil
}
