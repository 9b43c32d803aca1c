package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zufairy/spmind2-sub002/internal/config"
	"github.com/zufairy/spmind2-sub002/internal/lang"
	"github.com/zufairy/spmind2-sub002/internal/pipeline"
)

// MaxRecommendedParallel caps concurrent recordings. Each recording already
// fans out sequential API calls internally; more than a few in flight mostly
// buys rate-limit errors.
const MaxRecommendedParallel = 4

// supportedFormats lists audio formats accepted by OpenAI's transcription API.
// Source: https://platform.openai.com/docs/guides/speech-to-text
var supportedFormats = map[string]bool{
	".ogg":  true,
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".flac": true,
	".mp4":  true,
	".mpeg": true,
	".mpga": true,
	".webm": true,
}

// supportedFormatsList returns a sorted, comma-separated list for error messages.
// The list is sorted for deterministic output in tests and user-facing messages.
func supportedFormatsList() string {
	formats := make([]string, 0, len(supportedFormats))
	for ext := range supportedFormats {
		formats = append(formats, strings.TrimPrefix(ext, "."))
	}
	slices.Sort(formats)
	return strings.Join(formats, ", ")
}

// clampParallel constrains concurrency to the valid range [1, MaxRecommendedParallel].
func clampParallel(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxRecommendedParallel {
		return MaxRecommendedParallel
	}
	return n
}

// deriveOutputPath converts an audio file path to a markdown output path.
// Example: "biology-revision.m4a" -> "biology-revision.md"
func deriveOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + ".md"
}

// ProcessCmd creates the process command.
// The env parameter provides injectable dependencies for testing.
func ProcessCmd(env *Env) *cobra.Command {
	var (
		output   string
		language string
		parallel int
	)

	cmd := &cobra.Command{
		Use:   "process <audio-file>...",
		Short: "Turn voice notes into transcripts, summaries, and study points",
		Long: `Process voice recordings into study notes.

Each recording is transcribed (chunked automatically when it is long or
large), summarized in its own language, and mined for sticky-note study
points. The result is written as one Markdown file per recording.

Processing is resilient: a recording whose AI steps fail still produces a
note file with placeholder content rather than aborting the run.

Supported formats: flac, m4a, mp3, mp4, mpeg, mpga, ogg, wav, webm`,
		Example: `  voicenote process sejarah-bab3.m4a
  voicenote process lecture.mp3 -o notes.md
  voicenote process revision.ogg -l ms
  voicenote process monday.m4a tuesday.m4a friday.m4a -p 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, env, args, output, language, parallel)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path, single input only (default: <input>.md)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Transcription language hint: ms, en (default: auto-detect)")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "Max recordings processed concurrently (1-4)")

	return cmd
}

// runProcess validates inputs and processes each recording.
// Validation order: files exist -> format -> output -> language -> API key
func runProcess(cmd *cobra.Command, env *Env, inputs []string, output, language string, parallel int) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast) ===

	// 1. Files exist and formats supported
	for _, inputPath := range inputs {
		if _, err := os.Stat(inputPath); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", ErrFileNotFound, inputPath)
			}
			return fmt.Errorf("cannot access input file: %w", err)
		}

		ext := strings.ToLower(filepath.Ext(inputPath))
		if !supportedFormats[ext] {
			return fmt.Errorf("unsupported format %q (supported: %s): %w",
				ext, supportedFormatsList(), ErrUnsupportedFormat)
		}
	}

	// 2. Explicit output only makes sense for a single recording
	if output != "" && len(inputs) > 1 {
		return fmt.Errorf("--output can only be used with a single input file")
	}

	// 3. Load config for output-dir and default language
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	// 4. Language hint (flag overrides config default)
	if language == "" {
		language = cfg.Language
	}
	language = lang.Normalize(language)
	if err := lang.ValidateHint(language); err != nil {
		return err
	}

	// 5. Parallel bounds
	parallel = clampParallel(parallel)

	// 6. API key present
	apiKey := env.Getenv(EnvOpenAIAPIKey)
	if apiKey == "" {
		return fmt.Errorf("%w (set it with: export %s=sk-...)", ErrAPIKeyMissing, EnvOpenAIAPIKey)
	}

	// === SETUP ===

	ffmpegPath := env.FFmpegResolver.Resolve()
	if ffmpegPath == "" {
		fmt.Fprintln(env.Stderr, "Warning: ffmpeg not found; long recordings cannot be chunked")
	}

	// === PROCESSING ===

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for _, inputPath := range inputs {
		inputPath := inputPath
		g.Go(func() error {
			return processOne(gctx, env, apiKey, ffmpegPath, inputPath, output, cfg.OutputDir, language, len(inputs) > 1)
		})
	}

	return g.Wait()
}

// processOne runs the pipeline for a single recording and writes its note
// file. Pipeline degradation is not an error; only output I/O can fail.
func processOne(ctx context.Context, env *Env, apiKey, ffmpegPath, inputPath, output, outputDir, language string, prefixed bool) error {
	// Progress lines carry the file name when several recordings interleave.
	prefix := ""
	if prefixed {
		prefix = filepath.Base(inputPath) + ": "
	}

	log := env.Logger.With().Str("input", inputPath).Logger()
	processor := env.ProcessorFactory.NewProcessor(apiKey, ffmpegPath, log)

	result := processor.Process(ctx, inputPath, language, func(p pipeline.Progress) {
		if p.TotalChunks > 0 && p.CurrentChunk > 0 {
			fmt.Fprintf(env.Stderr, "%s%s (chunk %d/%d, %d%%)\n",
				prefix, p.Message, p.CurrentChunk, p.TotalChunks, p.Percent)
			return
		}
		fmt.Fprintf(env.Stderr, "%s%s (%d%%)\n", prefix, p.Message, p.Percent)
	})

	// Resolve the output path: explicit flag, else <input>.md next to the
	// configured output dir (or the input itself).
	defaultOutput := deriveOutputPath(filepath.Base(inputPath))
	outPath := config.ResolveOutputPath(output, config.ExpandPath(outputDir), defaultOutput)
	warnNonMarkdownExtension(env.Stderr, outPath)

	if err := writeFileAtomic(outPath, renderMarkdown(inputPath, result)); err != nil {
		return err
	}

	if result.Degraded {
		fmt.Fprintf(env.Stderr, "%sDone (degraded): %s\n", prefix, outPath)
	} else {
		fmt.Fprintf(env.Stderr, "%sDone: %s\n", prefix, outPath)
	}
	return nil
}
