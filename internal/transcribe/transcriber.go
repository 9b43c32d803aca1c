// Package transcribe sends audio assets to the remote speech-to-text
// endpoint and stitches per-chunk transcripts back together.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/zufairy/spmind2-sub002/internal/apierr"
	"github.com/zufairy/spmind2-sub002/internal/audio"
	"github.com/zufairy/spmind2-sub002/internal/lang"
)

// transcriptionModel is the speech-to-text model used for all requests.
const transcriptionModel = openai.Whisper1

// Language-preserving transcription instructions. Mixed Malay/English speech
// is the norm for these recordings, so both hints tell the endpoint to keep
// code-switched content as spoken rather than normalizing it away.
const (
	instructionMalay   = "Transcribe accurately in Malay, preserving any mixed-language content as spoken."
	instructionEnglish = "Transcribe accurately in English, preserving any mixed-language content as spoken."
)

// Upload timeout: base plus one second per 100KB of payload, capped so a
// stuck upload cannot hold a pipeline stage indefinitely.
const (
	uploadBaseTimeout = 60 * time.Second
	uploadBytesPerSec = 100 * 1024
	uploadMaxTimeout  = 5 * time.Minute
)

// Retry configuration for transient transcription failures.
const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 1 * time.Second
	defaultMaxDelay   = 30 * time.Second
)

// Client transcribes one audio asset per call.
type Client interface {
	// Transcribe converts an audio asset to text. languageHint is one of the
	// lang hint codes or empty for auto-detection.
	Transcribe(ctx context.Context, asset audio.Asset, languageHint string) (string, error)
}

// audioTranscriber is the seam to the remote speech-to-text API.
// *openai.Client implements this implicitly; tests inject mocks.
type audioTranscriber interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Client           = (*OpenAIClient)(nil)
	_ audioTranscriber = (*openai.Client)(nil)
)

// OpenAIClient transcribes audio through OpenAI's transcription API with
// automatic retries for transient errors.
type OpenAIClient struct {
	client     audioTranscriber
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// ClientOption configures an OpenAIClient.
type ClientOption func(*OpenAIClient)

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *OpenAIClient) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithRetryDelays sets the base and max delays for exponential backoff.
func WithRetryDelays(base, max time.Duration) ClientOption {
	return func(c *OpenAIClient) {
		if base > 0 {
			c.baseDelay = base
		}
		if max > 0 {
			c.maxDelay = max
		}
	}
}

// NewOpenAIClient creates an OpenAIClient around the given API client.
// The client is injected to enable testing with mocks.
func NewOpenAIClient(client audioTranscriber, opts ...ClientOption) *OpenAIClient {
	c := &OpenAIClient{
		client:     client,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		maxDelay:   defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transcribe sends the asset to the speech-to-text endpoint and returns the
// raw transcript text, with no post-processing. Empty or unknown asset
// handles are rejected before any network call. The request carries a
// size-proportional timeout; exceeding it surfaces as apierr.ErrTimeout.
func (c *OpenAIClient) Transcribe(ctx context.Context, asset audio.Asset, languageHint string) (string, error) {
	if asset.Path == "" || asset.Path == "unknown" {
		return "", fmt.Errorf("%w: no file path", ErrInvalidAsset)
	}

	hint := lang.Normalize(languageHint)
	req := openai.AudioRequest{
		Model:    transcriptionModel,
		FilePath: asset.Path,
		Format:   openai.AudioResponseFormatJSON,
		Prompt:   instructionFor(hint),
		Language: hint,
	}

	cfg := apierr.RetryConfig{
		MaxRetries: c.maxRetries,
		BaseDelay:  c.baseDelay,
		MaxDelay:   c.maxDelay,
	}

	return apierr.RetryWithBackoff(ctx, cfg, func() (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, uploadTimeout(asset.Size))
		defer cancel()

		resp, err := c.client.CreateTranscription(callCtx, req)
		if err != nil {
			return "", classifyError(err)
		}
		return resp.Text, nil
	}, isRetryableError)
}

// instructionFor picks the language-preserving instruction for a hint.
// Anything other than an explicit Malay hint gets the English instruction.
func instructionFor(hint string) string {
	if hint == lang.HintMalay {
		return instructionMalay
	}
	return instructionEnglish
}

// uploadTimeout scales the request deadline with the payload size.
func uploadTimeout(sizeBytes int64) time.Duration {
	timeout := uploadBaseTimeout
	if sizeBytes > 0 {
		timeout += time.Duration(sizeBytes/uploadBytesPerSec) * time.Second
	}
	return min(timeout, uploadMaxTimeout)
}

// classifyError maps speech-to-text API errors to apierr sentinels.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			// Quota exhaustion is a billing problem, not a transient limit.
			if strings.Contains(apiErr.Message, "quota") ||
				strings.Contains(apiErr.Message, "billing") {
				return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
			}
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrRateLimit)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrAuthFailed)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrTimeout)
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrTimeout) // Retryable server error
		case http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrBadRequest)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}

	return err
}

// isRetryableError determines if an error is transient and should be retried.
func isRetryableError(err error) bool {
	if errors.Is(err, apierr.ErrRateLimit) {
		return true
	}
	if errors.Is(err, apierr.ErrTimeout) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return false
}
