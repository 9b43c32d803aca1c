// Package pipeline orchestrates voice-note processing: probe, optional
// chunking, transcription, language detection, summary, and sticky-note
// extraction. The top-level Process call never fails; every internal error
// is absorbed into a degraded result with placeholder content so callers
// need no error handling around it.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zufairy/spmind2-sub002/internal/audio"
	"github.com/zufairy/spmind2-sub002/internal/format"
	"github.com/zufairy/spmind2-sub002/internal/lang"
	"github.com/zufairy/spmind2-sub002/internal/notes"
	"github.com/zufairy/spmind2-sub002/internal/transcribe"
)

// Placeholder content substituted for fields whose stage failed. Callers can
// compare against these, but the Result status flags are the supported way
// to tell real content from degraded content.
const (
	PlaceholderTranscript = "Audio recording completed. AI processing encountered an error."
	PlaceholderSummary    = "Recording session saved. A summary is unavailable for this note."
)

// placeholderNote is the single sticky note substituted when extraction fails.
func placeholderNote() notes.StickyNote {
	return notes.StickyNote{
		Title:    "Voice note saved",
		Content:  "Review this recording manually",
		Type:     notes.TypeReminder,
		Color:    notes.ColorYellow,
		Priority: notes.PriorityMedium,
	}
}

// FieldStatus reports which Result fields hold real content (true) versus
// placeholder content (false).
type FieldStatus struct {
	Transcript bool
	Summary    bool
	Notes      bool
}

// Result is the pipeline's only output. Always complete: degraded fields
// carry the fixed placeholders above, never empty or partial AI output.
type Result struct {
	Transcript  string
	Summary     string
	StickyNotes []notes.StickyNote

	// Language is the detection run on the stitched transcript. Zero-valued
	// on a fully degraded result.
	Language lang.Detection

	// Degraded is true when any stage failed and a placeholder was
	// substituted. Fields says which.
	Degraded bool
	Fields   FieldStatus
}

// Prober reads the attributes of a source recording.
type Prober interface {
	Probe(ctx context.Context, path string) (audio.Asset, error)
}

// ChunkExtractor carves chunk assets out of the source. Extract never fails
// (it falls back to the source asset); Cleanup deletes a chunk's temp file.
type ChunkExtractor interface {
	Extract(ctx context.Context, src audio.Asset, index int, start, end time.Duration) audio.Chunk
	Cleanup(c audio.Chunk) error
}

// Summarizer produces the paragraph summary.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string, detected lang.Detection) (string, error)
}

// KeyPointExtractor produces the sticky-note study points.
type KeyPointExtractor interface {
	ExtractStickyNotes(ctx context.Context, transcript string, detected lang.Detection) ([]notes.StickyNote, error)
}

// Deps are the orchestrator's injected collaborators. Each caller constructs
// its own orchestrator with its own clients; there is no shared state
// between invocations beyond what the collaborators themselves hold.
type Deps struct {
	Prober      Prober
	Extractor   ChunkExtractor
	Transcriber transcribe.Client
	Summarizer  Summarizer
	KeyPoints   KeyPointExtractor
}

// Orchestrator sequences the pipeline stages for one recording at a time.
// A single invocation is strictly sequential: chunks are extracted,
// transcribed, and cleaned up one by one in index order, because the
// capture-replay extraction strategy monopolizes audio playback and cannot
// run concurrently with itself. Distinct recordings may be processed by
// concurrent invocations; the orchestrator holds no cross-call state.
type Orchestrator struct {
	deps Deps
	log  zerolog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger for stage transitions and degradations.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.log = log
	}
}

// New creates an Orchestrator with the given collaborators.
func New(deps Deps, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		deps: deps,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Process runs the full pipeline for the recording at path and always
// returns a usable Result, degraded where stages failed. languageHint is an
// explicit transcription hint ("ms", "en", or empty for auto-detection);
// onProgress may be nil.
//
// Cancellation is honored between stages and between chunks, never
// mid-chunk: the capture-replay extraction strategy is hardware-bound and
// not safely interruptible. Temporary chunk assets are deleted immediately
// after each chunk's transcription attempt, on every path.
func (o *Orchestrator) Process(ctx context.Context, path, languageHint string, onProgress ProgressFunc) Result {
	report := func(p Progress) {
		if onProgress != nil {
			onProgress(p)
		}
	}

	report(Progress{Stage: StageDeciding, Message: "analyzing recording", Percent: pctDeciding})

	asset, err := o.deps.Prober.Probe(ctx, path)
	if err != nil {
		// Fail open: an unprobeable recording goes down the direct path.
		o.log.Warn().Err(err).Str("path", path).Msg("probe failed, using direct processing")
		asset = audio.Asset{Path: path}
	}

	var texts []string
	if audio.ShouldChunk(asset) {
		texts = o.transcribeChunked(ctx, asset, languageHint, report)
	} else {
		texts = o.transcribeDirect(ctx, asset, languageHint, report)
	}

	if len(texts) == 0 {
		o.log.Error().Str("path", path).Msg("no transcript produced, returning degraded result")
		report(Progress{Stage: StageDegraded, Message: "processing failed", Percent: pctComplete})
		return Result{
			Transcript:  PlaceholderTranscript,
			Summary:     PlaceholderSummary,
			StickyNotes: []notes.StickyNote{placeholderNote()},
			Degraded:    true,
		}
	}

	transcript := transcribe.Stitch(texts)
	detected := lang.Detect(transcript)
	o.log.Info().Str("language", string(detected.Label)).
		Float64("score", detected.Score).Msg("transcript ready")

	result := Result{
		Transcript: transcript,
		Language:   detected,
		Fields:     FieldStatus{Transcript: true},
	}

	o.generate(ctx, transcript, detected, &result, report)

	stage := StageComplete
	if result.Degraded {
		stage = StageDegraded
	}
	report(Progress{Stage: stage, Message: "processing complete", Percent: pctComplete})
	return result
}

// transcribeChunked plans chunk boundaries and processes them strictly in
// index order. A failed chunk contributes nothing and the loop continues;
// chunk assets are deleted before the next chunk starts so peak disk usage
// stays at one chunk.
func (o *Orchestrator) transcribeChunked(ctx context.Context, asset audio.Asset, hint string, report ProgressFunc) []string {
	plan := audio.PlanChunks(asset.Duration, asset.Size)
	o.log.Info().Int("chunks", plan.TotalChunks).
		Stringer("chunk_duration", plan.ChunkDuration).
		Msg("chunking recording")
	report(Progress{
		Stage: StageChunking, Message: "chunking started",
		Percent: pctDeciding, TotalChunks: plan.TotalChunks,
	})

	var texts []string
	for _, b := range plan.Chunks {
		// Cancellation is checked between chunks only; extraction itself
		// is not safely interruptible.
		if ctx.Err() != nil {
			o.log.Warn().Err(ctx.Err()).Int("chunk", b.Index).Msg("cancelled between chunks")
			break
		}

		chunk := o.deps.Extractor.Extract(ctx, asset, b.Index, b.Start, b.End)

		// Hard gate: oversized chunks are discarded, never uploaded.
		if chunk.Asset.Size > audio.MaxChunkUploadSize {
			o.log.Warn().Int("chunk", b.Index).Str("size", format.Size(chunk.Asset.Size)).
				Err(audio.ErrChunkTooLarge).Msg("skipping oversized chunk")
			o.cleanupChunk(chunk)
			continue
		}

		text, err := o.deps.Transcriber.Transcribe(ctx, chunk.Asset, hint)
		o.cleanupChunk(chunk)
		if err != nil {
			o.log.Warn().Err(err).Int("chunk", b.Index).Msg("chunk transcription failed, continuing")
			continue
		}
		if strings.TrimSpace(text) != "" {
			texts = append(texts, text)
		}

		report(Progress{
			Stage:        StageTranscribing,
			Message:      "transcribing",
			Percent:      pctTranscribe + transcribeSpan*(b.Index+1)/plan.TotalChunks,
			CurrentChunk: b.Index + 1,
			TotalChunks:  plan.TotalChunks,
		})
	}

	if len(texts) == 0 {
		o.log.Error().Err(transcribe.ErrNoChunksTranscribed).Msg("all chunks failed")
	}
	return texts
}

// transcribeDirect handles the single-call path for small recordings.
// Any failure here is fatal to the transcript: there is only one chunk.
func (o *Orchestrator) transcribeDirect(ctx context.Context, asset audio.Asset, hint string, report ProgressFunc) []string {
	report(Progress{Stage: StageTranscribing, Message: "transcribing", Percent: pctTranscribe})

	text, err := o.deps.Transcriber.Transcribe(ctx, asset, hint)
	if err != nil {
		o.log.Error().Err(err).Msg("direct transcription failed")
		return nil
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return []string{text}
}

// generate runs the summary and extraction stages. Either failing degrades
// its own field only; an already-obtained transcript is never discarded.
func (o *Orchestrator) generate(ctx context.Context, transcript string, detected lang.Detection, result *Result, report ProgressFunc) {
	report(Progress{Stage: StageSummarizing, Message: "summarizing", Percent: pctSummarize})

	if ctx.Err() != nil {
		o.log.Warn().Err(ctx.Err()).Msg("cancelled before generation")
		result.Summary = PlaceholderSummary
		result.StickyNotes = []notes.StickyNote{placeholderNote()}
		result.Degraded = true
		return
	}

	summary, err := o.deps.Summarizer.Summarize(ctx, transcript, detected)
	if err != nil || strings.TrimSpace(summary) == "" {
		o.log.Warn().Err(err).Msg("summary failed, substituting placeholder")
		result.Summary = PlaceholderSummary
		result.Degraded = true
	} else {
		result.Summary = summary
		result.Fields.Summary = true
	}

	report(Progress{Stage: StageExtracting, Message: "generating notes", Percent: pctExtract})

	if ctx.Err() != nil {
		o.log.Warn().Err(ctx.Err()).Msg("cancelled before extraction")
		result.StickyNotes = []notes.StickyNote{placeholderNote()}
		result.Degraded = true
		return
	}

	stickyNotes, err := o.deps.KeyPoints.ExtractStickyNotes(ctx, transcript, detected)
	if err != nil {
		o.log.Warn().Err(err).Msg("extraction failed, substituting placeholder")
		result.StickyNotes = []notes.StickyNote{placeholderNote()}
		result.Degraded = true
	} else {
		// An empty array is a valid outcome: no qualifying content found.
		result.StickyNotes = stickyNotes
		result.Fields.Notes = true
	}
}

// cleanupChunk deletes a chunk's temporary asset, logging (not failing) on
// error.
func (o *Orchestrator) cleanupChunk(c audio.Chunk) {
	if err := o.deps.Extractor.Cleanup(c); err != nil {
		o.log.Warn().Err(err).Int("chunk", c.Index).Msg("chunk cleanup failed")
	}
}
