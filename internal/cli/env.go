package cli

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/zufairy/spmind2-sub002/internal/audio"
	"github.com/zufairy/spmind2-sub002/internal/config"
	"github.com/zufairy/spmind2-sub002/internal/notes"
	"github.com/zufairy/spmind2-sub002/internal/pipeline"
	"github.com/zufairy/spmind2-sub002/internal/transcribe"
)

// EnvOpenAIAPIKey is the environment variable holding the OpenAI API key.
const EnvOpenAIAPIKey = "OPENAI_API_KEY"

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Logger zerolog.Logger

	// Factories for domain objects
	FFmpegResolver   FFmpegResolver
	ConfigLoader     ConfigLoader
	ProcessorFactory ProcessorFactory
}

// FFmpegResolver locates the FFmpeg binary. An empty path is valid: probing
// and extraction then degrade rather than fail.
type FFmpegResolver interface {
	Resolve() string
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// Processor runs the full pipeline for one recording.
type Processor interface {
	Process(ctx context.Context, path, languageHint string, onProgress pipeline.ProgressFunc) pipeline.Result
}

// ProcessorFactory creates pipeline processors bound to an API key.
type ProcessorFactory interface {
	NewProcessor(apiKey, ffmpegPath string, log zerolog.Logger) Processor
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithLogger sets the logger handed to pipeline components.
func WithLogger(log zerolog.Logger) EnvOption {
	return func(e *Env) {
		e.Logger = log
	}
}

// WithFFmpegResolver sets the FFmpeg resolver.
func WithFFmpegResolver(r FFmpegResolver) EnvOption {
	return func(e *Env) {
		e.FFmpegResolver = r
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithProcessorFactory sets the processor factory.
func WithProcessorFactory(f ProcessorFactory) EnvOption {
	return func(e *Env) {
		e.ProcessorFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:           os.Stdout,
		Stderr:           os.Stderr,
		Getenv:           os.Getenv,
		Logger:           zerolog.Nop(),
		FFmpegResolver:   &defaultFFmpegResolver{},
		ConfigLoader:     &defaultConfigLoader{},
		ProcessorFactory: &defaultProcessorFactory{},
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

// defaultFFmpegResolver implements FFmpegResolver using the audio package.
type defaultFFmpegResolver struct{}

func (defaultFFmpegResolver) Resolve() string {
	return audio.ResolveFFmpeg()
}

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultProcessorFactory implements ProcessorFactory using OpenAI clients
// and the production pipeline wiring.
type defaultProcessorFactory struct{}

func (defaultProcessorFactory) NewProcessor(apiKey, ffmpegPath string, log zerolog.Logger) Processor {
	client := openai.NewClient(apiKey)
	generator := notes.NewGenerator(client)

	return pipeline.New(pipeline.Deps{
		Prober:      audio.NewProber(ffmpegPath),
		Extractor:   audio.NewExtractor(ffmpegPath, audio.WithExtractorLogger(log)),
		Transcriber: transcribe.NewOpenAIClient(client),
		Summarizer:  generator,
		KeyPoints:   generator,
	}, pipeline.WithLogger(log))
}

// Compile-time interface verification.
var (
	_ FFmpegResolver   = (*defaultFFmpegResolver)(nil)
	_ ConfigLoader     = (*defaultConfigLoader)(nil)
	_ ProcessorFactory = (*defaultProcessorFactory)(nil)
	_ Processor        = (*pipeline.Orchestrator)(nil)
)
