// Package apierr provides shared error sentinels and retry infrastructure
// for the remote speech-to-text and chat-completion clients. Provider-specific
// error types are classified into these sentinels at the client boundary.
//
// Clients map HTTP status codes to these errors using fmt.Errorf("%s: %w", msg, sentinel).
// Callers check with errors.Is(err, apierr.ErrRateLimit) etc.
package apierr

import "errors"

// Sentinel errors for API interaction failures.
var (
	// ErrRateLimit indicates the API rate limit was exceeded (temporary, retryable).
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the API quota was exceeded (billing issue, not retryable).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a request timed out before the endpoint answered.
	// Kept distinct from ErrBadRequest so callers can tell "endpoint rejected us"
	// apart from "endpoint never answered".
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates API authentication failed (invalid key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrBadRequest indicates a client error (4xx) that is not otherwise classified.
	ErrBadRequest = errors.New("bad request")

	// ErrUnparseable indicates the endpoint answered successfully but the body
	// could not be decoded into the expected shape.
	ErrUnparseable = errors.New("unparseable response")
)
