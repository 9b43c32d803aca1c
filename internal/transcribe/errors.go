package transcribe

import "errors"

// ErrInvalidAsset indicates the asset handle is empty or unusable; the client
// rejects it before any network call.
var ErrInvalidAsset = errors.New("invalid audio asset")

// ErrNoChunksTranscribed indicates every chunk of a recording failed
// transcription. Fatal to the transcript stage.
var ErrNoChunksTranscribed = errors.New("no chunks transcribed")
