package notes

import "errors"

// ErrGeneration indicates the summary or extraction call failed or returned
// output that could not be used. Fatal to that field only; the caller keeps
// whatever succeeded before it.
var ErrGeneration = errors.New("note generation failed")
