package audio

import "errors"

// ErrProbe indicates the size or duration of a source asset could not be read.
// Non-fatal: callers fail open to direct (non-chunked) processing.
var ErrProbe = errors.New("cannot probe audio asset")

// ErrExtraction indicates a chunk-extraction strategy failed.
var ErrExtraction = errors.New("chunk extraction failed")

// ErrChunkTooLarge indicates a chunk exceeds the transcription upload limit (25MB).
var ErrChunkTooLarge = errors.New("chunk exceeds 25MB transcription limit")

// ErrRemoteSliceUnavailable indicates no remote slicing service is configured.
var ErrRemoteSliceUnavailable = errors.New("remote slicing unavailable")
