package audio

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// tempDirPattern names the per-chunk temp directories so cleanup can verify
// it only ever removes directories the extractor created.
const tempDirPattern = "voicenote-chunk-*"

// Chunk is one extracted segment, ready for transcription.
type Chunk struct {
	Asset Asset
	Index int
	Start time.Duration
	End   time.Duration

	// Passthrough reports that every extraction strategy failed and Asset is
	// the unmodified source. Passthrough chunks are never deleted by Cleanup.
	Passthrough bool
}

// ExtractStrategy attempts to produce a standalone audio file covering
// [start, end) of the source. A nil error means dst now holds the chunk.
type ExtractStrategy interface {
	Name() string
	TryExtract(ctx context.Context, src Asset, dst string, start, end time.Duration) error
}

// RemoteSlicer delegates chunk extraction to an external slicing service.
// The default implementation always reports ErrRemoteSliceUnavailable; a
// real service can be substituted without touching the orchestrator.
type RemoteSlicer interface {
	Slice(ctx context.Context, src Asset, dst string, start, end time.Duration) error
}

// unavailableRemoteSlicer is the default RemoteSlicer.
type unavailableRemoteSlicer struct{}

func (unavailableRemoteSlicer) Slice(context.Context, Asset, string, time.Duration, time.Duration) error {
	return ErrRemoteSliceUnavailable
}

// Extractor carves time-bounded chunks out of a source recording, trying an
// ordered ladder of strategies and falling back to the unmodified source when
// all of them fail. Extract never returns an error: the pipeline always gets
// some asset to make forward progress with, and the caller's size gate
// decides whether a passthrough chunk is usable.
type Extractor struct {
	strategies []ExtractStrategy
	tempDir    tempDirCreator
	files      fileRemover
	statter    fileStatter
	log        zerolog.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithStrategies replaces the default strategy ladder.
func WithStrategies(s ...ExtractStrategy) ExtractorOption {
	return func(e *Extractor) {
		e.strategies = s
	}
}

// WithRemoteSlicer appends a remote slicing strategy to the ladder.
func WithRemoteSlicer(rs RemoteSlicer) ExtractorOption {
	return func(e *Extractor) {
		e.strategies = append(e.strategies, &remoteStrategy{slicer: rs})
	}
}

// WithExtractorTempDir sets the temp directory creator (for testing).
func WithExtractorTempDir(t tempDirCreator) ExtractorOption {
	return func(e *Extractor) {
		e.tempDir = t
	}
}

// WithExtractorFileRemover sets the file remover (for testing).
func WithExtractorFileRemover(f fileRemover) ExtractorOption {
	return func(e *Extractor) {
		e.files = f
	}
}

// WithExtractorStatter sets the file statter (for testing).
func WithExtractorStatter(s fileStatter) ExtractorOption {
	return func(e *Extractor) {
		e.statter = s
	}
}

// WithExtractorLogger sets the logger for strategy-fallback warnings.
func WithExtractorLogger(log zerolog.Logger) ExtractorOption {
	return func(e *Extractor) {
		e.log = log
	}
}

// NewExtractor creates an Extractor with the default strategy ladder:
//
//  1. codec-level slice (accurate -ss/-to cut, voice-quality re-encode)
//  2. speech-preset slice (16kHz mono, retried when the first encode fails)
//  3. capture-replay (plays the source in real time while re-recording;
//     approximate timing, genuine wall-clock wait)
//  4. remote slicer, when configured via WithRemoteSlicer
//
// followed by the implicit passthrough fallback.
func NewExtractor(ffmpegPath string, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		strategies: []ExtractStrategy{
			&sliceStrategy{ffmpegPath: ffmpegPath, cmd: osCommandRunner{}},
			&speechPresetStrategy{ffmpegPath: ffmpegPath, cmd: osCommandRunner{}},
			&captureReplayStrategy{ffmpegPath: ffmpegPath, cmd: osCommandRunner{}},
			&remoteStrategy{slicer: unavailableRemoteSlicer{}},
		},
		tempDir: osTempDirCreator{},
		files:   osFileRemover{},
		statter: osFileStatter{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract produces a chunk asset for [start, end) of src. The range is
// clamped to the source's known duration; an unusable range yields a
// passthrough chunk. Temporary files from failed strategy attempts are
// deleted before the next strategy runs.
func (e *Extractor) Extract(ctx context.Context, src Asset, index int, start, end time.Duration) Chunk {
	chunk := Chunk{Index: index, Start: start, End: end}

	if src.Duration > 0 {
		if start >= src.Duration {
			e.log.Warn().Stringer("start", start).Stringer("duration", src.Duration).
				Int("chunk", index).Msg("chunk start beyond source end, using source asset")
			chunk.Asset = src
			chunk.Passthrough = true
			return chunk
		}
		if end > src.Duration {
			end = src.Duration
			chunk.End = end
		}
	}
	if end <= start {
		e.log.Warn().Int("chunk", index).Msg("empty chunk range, using source asset")
		chunk.Asset = src
		chunk.Passthrough = true
		return chunk
	}

	dir, err := e.tempDir.MkdirTemp("", tempDirPattern)
	if err != nil {
		e.log.Warn().Err(err).Int("chunk", index).Msg("cannot create chunk temp dir, using source asset")
		chunk.Asset = src
		chunk.Passthrough = true
		return chunk
	}

	dst := filepath.Join(dir, fmt.Sprintf("chunk_%03d.ogg", index))
	for _, strategy := range e.strategies {
		if err := strategy.TryExtract(ctx, src, dst, start, end); err != nil {
			e.log.Debug().Err(err).Str("strategy", strategy.Name()).
				Int("chunk", index).Msg("extraction strategy failed")
			// Partial output from a failed attempt must not leak into the
			// next strategy or survive the call.
			_ = e.files.Remove(dst)
			continue
		}

		info, err := e.statter.Stat(dst)
		if err != nil || info.Size() == 0 {
			e.log.Debug().Str("strategy", strategy.Name()).Int("chunk", index).
				Msg("extraction produced no output")
			_ = e.files.Remove(dst)
			continue
		}

		chunk.Asset = Asset{Path: dst, Size: info.Size(), Duration: end - start}
		return chunk
	}

	_ = e.files.RemoveAll(dir)
	e.log.Warn().Int("chunk", index).Msg("all extraction strategies failed, using source asset")
	chunk.Asset = src
	chunk.Passthrough = true
	return chunk
}

// Cleanup deletes a chunk's temporary asset. Passthrough chunks reference the
// caller-owned source and are left alone. Call this immediately after the
// chunk's transcription attempt so peak disk usage stays at one chunk.
func (e *Extractor) Cleanup(c Chunk) error {
	if c.Passthrough || c.Asset.Path == "" {
		return nil
	}

	dir := filepath.Dir(c.Asset.Path)
	// Only remove directories the extractor created.
	if !strings.Contains(filepath.Base(dir), "voicenote-chunk-") {
		return e.files.Remove(c.Asset.Path)
	}
	return e.files.RemoveAll(dir)
}

// --- Strategy implementations ---

// voiceEncodingArgs re-encodes to OGG Vorbis at a quality suited to speech.
// Re-encoding (rather than stream copy) produces valid output even from
// truncated or oddly-muxed sources.
func voiceEncodingArgs() []string {
	return []string{"-c:a", "libvorbis", "-q:a", "3"}
}

// speechPresetArgs matches the 16kHz mono preset used for voice recordings.
func speechPresetArgs() []string {
	return []string{"-c:a", "libvorbis", "-ar", "16000", "-ac", "1", "-q:a", "2"}
}

// runSlice executes an FFmpeg seek-based extraction with the given encoder args.
func runSlice(ctx context.Context, cmd commandRunner, ffmpegPath string, src Asset, dst string, start, end time.Duration, encArgs []string, realtime bool) error {
	if ffmpegPath == "" {
		return fmt.Errorf("%w: ffmpeg not available", ErrExtraction)
	}

	args := []string{"-y"}
	if realtime {
		// -re reads the input at its native frame rate: the process takes
		// the chunk's wall-clock duration to complete, mirroring the
		// play-while-recording capture this strategy approximates.
		args = append(args, "-re")
	}
	args = append(args,
		"-ss", formatFFmpegTime(start),
		"-i", src.Path,
		"-t", formatFFmpegTime(end-start),
	)
	args = append(args, encArgs...)
	args = append(args, dst)

	output, err := cmd.CombinedOutput(ctx, ffmpegPath, args)
	if err != nil {
		return fmt.Errorf("%w: %v\noutput: %s", ErrExtraction, err, string(output))
	}
	return nil
}

// sliceStrategy performs an accurate codec-level cut. Preferred because it is
// fast and sample-positioned, unlike the capture-replay fallback.
type sliceStrategy struct {
	ffmpegPath string
	cmd        commandRunner
}

func (s *sliceStrategy) Name() string { return "slice" }

func (s *sliceStrategy) TryExtract(ctx context.Context, src Asset, dst string, start, end time.Duration) error {
	return runSlice(ctx, s.cmd, s.ffmpegPath, src, dst, start, end, voiceEncodingArgs(), false)
}

// speechPresetStrategy retries the slice with the low-bitrate speech preset.
// Used when the first encode fails (e.g. the source codec rejects the
// default quality settings).
type speechPresetStrategy struct {
	ffmpegPath string
	cmd        commandRunner
}

func (s *speechPresetStrategy) Name() string { return "speech-preset" }

func (s *speechPresetStrategy) TryExtract(ctx context.Context, src Asset, dst string, start, end time.Duration) error {
	return runSlice(ctx, s.cmd, s.ffmpegPath, src, dst, start, end, speechPresetArgs(), false)
}

// captureReplayStrategy replays the source segment in real time while
// re-recording it. This is an approximation of on-device playback capture:
// it blocks for the chunk's full wall-clock duration and may introduce minor
// timing drift at the edges. Known limitation, kept as a last resort for
// sources the seek-based strategies cannot decode.
type captureReplayStrategy struct {
	ffmpegPath string
	cmd        commandRunner
}

func (s *captureReplayStrategy) Name() string { return "capture-replay" }

func (s *captureReplayStrategy) TryExtract(ctx context.Context, src Asset, dst string, start, end time.Duration) error {
	return runSlice(ctx, s.cmd, s.ffmpegPath, src, dst, start, end, speechPresetArgs(), true)
}

// remoteStrategy adapts a RemoteSlicer into the strategy ladder.
type remoteStrategy struct {
	slicer RemoteSlicer
}

func (s *remoteStrategy) Name() string { return "remote" }

func (s *remoteStrategy) TryExtract(ctx context.Context, src Asset, dst string, start, end time.Duration) error {
	return s.slicer.Slice(ctx, src, dst, start, end)
}

// Compile-time interface implementation checks.
var (
	_ ExtractStrategy = (*sliceStrategy)(nil)
	_ ExtractStrategy = (*speechPresetStrategy)(nil)
	_ ExtractStrategy = (*captureReplayStrategy)(nil)
	_ ExtractStrategy = (*remoteStrategy)(nil)
	_ RemoteSlicer    = (unavailableRemoteSlicer{})
)
