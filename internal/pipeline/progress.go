package pipeline

// Stage names the orchestrator's states, reported through the progress
// callback and logged at each transition.
type Stage string

const (
	StageDeciding     Stage = "deciding"
	StageChunking     Stage = "chunking"
	StageTranscribing Stage = "transcribing"
	StageSummarizing  Stage = "summarizing"
	StageExtracting   Stage = "extracting"
	StageComplete     Stage = "complete"
	StageDegraded     Stage = "degraded"
)

// Progress is one advisory milestone report. It never gates correctness;
// callers may ignore it entirely.
type Progress struct {
	Stage   Stage
	Message string
	Percent int

	// Chunk counters, populated only while transcribing a chunked recording.
	CurrentChunk int
	TotalChunks  int
}

// ProgressFunc receives milestone reports. Fire-and-forget: the return value
// of the callback is never consumed and a nil func is valid.
type ProgressFunc func(Progress)

// Fixed progress milestones.
const (
	pctDeciding    = 10
	pctTranscribe  = 20
	pctSummarize   = 70
	pctExtract     = 90
	pctComplete    = 100
	transcribeSpan = pctSummarize - pctTranscribe
)
