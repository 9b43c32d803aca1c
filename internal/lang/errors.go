package lang

import "errors"

// ErrInvalid indicates an unsupported language hint code.
var ErrInvalid = errors.New("invalid language hint")
