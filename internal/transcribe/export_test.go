package transcribe

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// InstructionFor exports instructionFor for testing.
var InstructionFor = instructionFor

// UploadTimeout exports uploadTimeout for testing.
var UploadTimeout = uploadTimeout

// ClassifyError exports classifyError for testing.
var ClassifyError = classifyError

// IsRetryableError exports isRetryableError for testing.
var IsRetryableError = isRetryableError

// Transcription instructions, exported for request assertions.
const (
	InstructionMalay   = instructionMalay
	InstructionEnglish = instructionEnglish
)
