package audio

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// ParseDurationFromFFmpegOutput exports parseDurationFromFFmpegOutput for testing.
var ParseDurationFromFFmpegOutput = parseDurationFromFFmpegOutput

// ParseTimeComponents exports parseTimeComponents for testing.
var ParseTimeComponents = parseTimeComponents

// FormatFFmpegTime exports formatFFmpegTime for testing.
var FormatFFmpegTime = formatFFmpegTime

// VoiceEncodingArgs exports voiceEncodingArgs for testing.
var VoiceEncodingArgs = voiceEncodingArgs

// SpeechPresetArgs exports speechPresetArgs for testing.
var SpeechPresetArgs = speechPresetArgs

// Decision and planning constants, exported for boundary tests.
const (
	MaxDirectSize        = maxDirectSize
	MaxDirectDuration    = maxDirectDuration
	OverlapDuration      = overlapDuration
	DefaultChunkDuration = defaultChunkDuration
	MinChunkDuration     = minChunkDuration
	MaxChunkDuration     = maxChunkDuration
)

// --- Dependency injection exports ---

// CommandRunner exports commandRunner interface for testing.
type CommandRunner = commandRunner

// TempDirCreator exports tempDirCreator interface for testing.
type TempDirCreator = tempDirCreator

// FileStatter exports fileStatter interface for testing.
type FileStatter = fileStatter

// FileRemover exports fileRemover interface for testing.
type FileRemover = fileRemover
