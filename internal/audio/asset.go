package audio

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Asset is a handle to a playable audio file plus its probed attributes.
// Source assets are owned by the caller; chunk assets are temporary files
// owned by the pipeline and deleted after their transcription attempt.
type Asset struct {
	Path     string
	Size     int64         // Bytes; 0 when unknown.
	Duration time.Duration // 0 when the probe could not determine it.
}

// Chunking decision thresholds.
const (
	// maxDirectSize is the upload size above which a recording is chunked.
	// The transcription endpoint caps payloads at ~25MB; 20MB leaves
	// headroom for container and VBR overhead.
	maxDirectSize = 20 * 1024 * 1024

	// maxDirectDuration is the recording length above which chunking kicks in
	// even when the file is small (8 minutes).
	maxDirectDuration = 480 * time.Second

	// MaxChunkUploadSize is the hard per-chunk cap enforced before any chunk
	// is sent to transcription. Oversized chunks are discarded, never sent.
	MaxChunkUploadSize = 25 * 1024 * 1024
)

// Prober reads size and duration attributes of audio files.
// Duration probing shells out to FFmpeg for metadata only; the subprocess
// exits on every path, so no playback resource outlives the probe.
type Prober struct {
	ffmpegPath string
	cmd        commandRunner
	statter    fileStatter
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithProberCommandRunner sets the command runner (for testing).
func WithProberCommandRunner(r commandRunner) ProberOption {
	return func(p *Prober) {
		p.cmd = r
	}
}

// WithProberStatter sets the file statter (for testing).
func WithProberStatter(s fileStatter) ProberOption {
	return func(p *Prober) {
		p.statter = s
	}
}

// NewProber creates a Prober. ffmpegPath may be empty; duration probing then
// reports 0 and decisions fall back to size alone.
func NewProber(ffmpegPath string, opts ...ProberOption) *Prober {
	p := &Prober{
		ffmpegPath: ffmpegPath,
		cmd:        osCommandRunner{},
		statter:    osFileStatter{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe reads the size and duration of the audio file at path.
// A stat failure returns ErrProbe. A duration-probe failure is not an error:
// the returned Asset carries Duration 0 and callers decide on size alone.
func (p *Prober) Probe(ctx context.Context, path string) (Asset, error) {
	info, err := p.statter.Stat(path)
	if err != nil {
		return Asset{Path: path}, fmt.Errorf("%w: %v", ErrProbe, err)
	}

	asset := Asset{Path: path, Size: info.Size()}
	if d, err := p.probeDuration(ctx, path); err == nil {
		asset.Duration = d
	}
	return asset, nil
}

// ShouldChunk reports whether the asset needs chunked processing.
// Unknown duration (0) decides on size alone: fail open to direct processing.
func ShouldChunk(a Asset) bool {
	return a.Size > maxDirectSize || a.Duration > maxDirectDuration
}

// probeDuration returns the duration of an audio file using FFmpeg.
func (p *Prober) probeDuration(ctx context.Context, path string) (time.Duration, error) {
	if p.ffmpegPath == "" {
		return 0, fmt.Errorf("%w: ffmpeg not available", ErrProbe)
	}

	// The -i flag with a null sink prints file info including duration.
	args := []string{
		"-i", path,
		"-f", "null", "-",
	}
	output, err := p.cmd.CombinedOutput(ctx, p.ffmpegPath, args)
	if err != nil {
		// FFmpeg returns non-zero even when it successfully reads file info,
		// so we try to parse the output anyway.
		if len(output) == 0 {
			return 0, err
		}
	}

	return parseDurationFromFFmpegOutput(string(output))
}

// parseDurationFromFFmpegOutput extracts duration from FFmpeg stderr.
// Looks for: "Duration: HH:MM:SS.ms" or "time=HH:MM:SS.ms"
func parseDurationFromFFmpegOutput(output string) (time.Duration, error) {
	// Pattern: Duration: 00:05:23.45
	durationRe := regexp.MustCompile(`Duration:\s*(\d+):(\d+):(\d+)\.(\d+)`)
	if matches := durationRe.FindStringSubmatch(output); matches != nil {
		return parseTimeComponents(matches[1], matches[2], matches[3], matches[4])
	}

	// Fallback pattern: time=00:05:23.45 (from progress output)
	timeRe := regexp.MustCompile(`time=(\d+):(\d+):(\d+)\.(\d+)`)
	// Find all matches and use the last one (final time).
	allMatches := timeRe.FindAllStringSubmatch(output, -1)
	if len(allMatches) > 0 {
		matches := allMatches[len(allMatches)-1]
		return parseTimeComponents(matches[1], matches[2], matches[3], matches[4])
	}

	return 0, fmt.Errorf("could not parse duration from ffmpeg output")
}

// parseTimeComponents converts HH:MM:SS.ms strings to Duration.
func parseTimeComponents(hours, minutes, seconds, fractional string) (time.Duration, error) {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)

	// Normalize fractional part to milliseconds.
	// Input may be 1-6+ digits (e.g., ".4", ".45", ".456", ".456789").
	frac, _ := strconv.Atoi(fractional)
	ms := frac
	switch n := len(fractional); {
	case n == 1:
		ms = frac * 100
	case n == 2:
		ms = frac * 10
	case n == 3:
		// Already milliseconds.
	case n > 3:
		// Truncate excess precision by dividing.
		for i := n; i > 3; i-- {
			ms /= 10
		}
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}

// formatFFmpegTime formats a duration for FFmpeg -ss/-to arguments.
func formatFFmpegTime(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := d.Seconds() - float64(h*3600+m*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", h, m, s)
}
