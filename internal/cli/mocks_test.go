package cli_test

// Test doubles for the CLI dependency injection points.

import (
	"bytes"
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/zufairy/spmind2-sub002/internal/cli"
	"github.com/zufairy/spmind2-sub002/internal/config"
	"github.com/zufairy/spmind2-sub002/internal/pipeline"
)

// syncBuffer is a goroutine-safe bytes.Buffer: the process command writes
// progress from concurrent recordings.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

// mockConfigLoader returns a fixed config.
type mockConfigLoader struct {
	cfg config.Config
	err error
}

func (m mockConfigLoader) Load() (config.Config, error) {
	return m.cfg, m.err
}

// mockResolver returns a fixed FFmpeg path.
type mockResolver struct {
	path string
}

func (m mockResolver) Resolve() string {
	return m.path
}

// mockProcessor returns a fixed result and records its calls. Safe for
// concurrent use: the process command may run recordings in parallel.
type mockProcessor struct {
	result pipeline.Result

	mu    sync.Mutex
	paths []string
	hints []string
}

func (m *mockProcessor) Process(_ context.Context, path, hint string, onProgress pipeline.ProgressFunc) pipeline.Result {
	m.mu.Lock()
	m.paths = append(m.paths, path)
	m.hints = append(m.hints, hint)
	m.mu.Unlock()
	if onProgress != nil {
		onProgress(pipeline.Progress{Stage: pipeline.StageComplete, Message: "processing complete", Percent: 100})
	}
	return m.result
}

// mockFactory hands out the same processor and records the keys it saw.
// Safe for concurrent use like the processor itself.
type mockFactory struct {
	processor *mockProcessor

	mu      sync.Mutex
	apiKeys []string
	ffmpeg  []string
}

func (m *mockFactory) NewProcessor(apiKey, ffmpegPath string, _ zerolog.Logger) cli.Processor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apiKeys = append(m.apiKeys, apiKey)
	m.ffmpeg = append(m.ffmpeg, ffmpegPath)
	return m.processor
}

// Compile-time interface verification.
var (
	_ cli.ConfigLoader     = (*mockConfigLoader)(nil)
	_ cli.FFmpegResolver   = (*mockResolver)(nil)
	_ cli.Processor        = (*mockProcessor)(nil)
	_ cli.ProcessorFactory = (*mockFactory)(nil)
)
