package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/zufairy/spmind2-sub002/internal/format"
)

// Chunk planning parameters.
const (
	// overlapDuration is how much consecutive chunks share, so words spoken
	// exactly at a cut boundary land in at least one chunk.
	overlapDuration = 15 * time.Second

	// defaultChunkDuration is used when the source bitrate is unknown.
	defaultChunkDuration = 180 * time.Second

	// minChunkDuration and maxChunkDuration clamp the bitrate-derived chunk
	// length: high-bitrate recordings get shorter chunks to stay under the
	// upload cap, low-bitrate ones are not over-fragmented.
	minChunkDuration = 60 * time.Second
	maxChunkDuration = 300 * time.Second

	// chunkSizeSafety scales the size-derived chunk duration so each chunk
	// lands comfortably under MaxChunkUploadSize.
	chunkSizeSafety = 0.8
)

// Bounds is one planned chunk's time range within the source recording.
type Bounds struct {
	Index int
	Start time.Duration
	End   time.Duration
}

// String returns a human-readable representation for logging.
func (b Bounds) String() string {
	return fmt.Sprintf("chunk %d: %s-%s", b.Index, format.Duration(b.Start), format.Duration(b.End))
}

// Plan describes how a recording is split for chunked transcription.
// Consecutive chunks overlap by Overlap; the last chunk is clamped to the
// total duration and may be shorter than ChunkDuration.
type Plan struct {
	ChunkDuration time.Duration
	Overlap       time.Duration
	TotalChunks   int
	Chunks        []Bounds
}

// PlanChunks computes chunk boundaries for a recording of totalDuration.
// When sizeBytes is known (> 0), the chunk duration is derived from the
// estimated bytes-per-second rate so each chunk stays under the upload cap;
// otherwise the default chunk duration applies. Always yields at least one
// chunk covering the full range.
func PlanChunks(totalDuration time.Duration, sizeBytes int64) Plan {
	chunkDur := defaultChunkDuration
	if sizeBytes > 0 && totalDuration > 0 {
		bytesPerSecond := float64(sizeBytes) / totalDuration.Seconds()
		target := float64(MaxChunkUploadSize) / bytesPerSecond * chunkSizeSafety
		chunkDur = time.Duration(target * float64(time.Second))
		chunkDur = min(max(chunkDur, minChunkDuration), maxChunkDuration)
	}

	plan := Plan{
		ChunkDuration: chunkDur,
		Overlap:       overlapDuration,
	}

	step := chunkDur - overlapDuration
	for i := 0; ; i++ {
		start := time.Duration(i) * step
		if start >= totalDuration {
			break
		}
		end := min(start+chunkDur, totalDuration)
		plan.Chunks = append(plan.Chunks, Bounds{Index: i, Start: start, End: end})
		if end >= totalDuration {
			break
		}
	}

	// Degenerate input (zero or negative duration) still yields one chunk.
	if len(plan.Chunks) == 0 {
		plan.Chunks = []Bounds{{Index: 0, Start: 0, End: totalDuration}}
	}

	plan.TotalChunks = len(plan.Chunks)
	return plan
}

// ExpectedChunkCount returns ceil(totalDuration / (chunkDuration - overlap)),
// the closed-form count PlanChunks produces for valid inputs.
func ExpectedChunkCount(totalDuration, chunkDuration, overlap time.Duration) int {
	step := chunkDuration - overlap
	if step <= 0 || totalDuration <= 0 {
		return 1
	}
	return int(math.Ceil(totalDuration.Seconds() / step.Seconds()))
}
