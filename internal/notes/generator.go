package notes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/zufairy/spmind2-sub002/internal/apierr"
	"github.com/zufairy/spmind2-sub002/internal/lang"
)

// Chat-completion configuration shared by both generators. A fast/cheap
// model tier with low temperature and bounded output keeps the calls
// deterministic and on-language.
const (
	generationModel = openai.GPT4oMini

	summaryTemperature    = 0.3
	extractionTemperature = 0.2

	summaryMaxTokens    = 300
	extractionMaxTokens = 600

	generationTimeout = 30 * time.Second

	// Fewer retries than transcription: these calls are cheap to re-issue
	// but sit at the end of the pipeline where latency is user-visible.
	defaultGenMaxRetries = 2
	defaultGenBaseDelay  = 1 * time.Second
	defaultGenMaxDelay   = 15 * time.Second
)

// chatCompleter is the seam to the remote chat-completion API.
// *openai.Client implements this implicitly; tests inject mocks.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance check.
var _ chatCompleter = (*openai.Client)(nil)

// Generator issues the two chat-completion call shapes: a paragraph summary
// and a JSON sticky-note extraction. Both instruct the model to answer in
// the transcript's own language, naming the detected language explicitly so
// the model never re-detects it.
type Generator struct {
	client     chatCompleter
	model      string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	timeout    time.Duration
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithModel overrides the chat-completion model.
func WithModel(model string) GeneratorOption {
	return func(g *Generator) {
		g.model = model
	}
}

// WithGenMaxRetries sets the maximum number of retry attempts.
func WithGenMaxRetries(n int) GeneratorOption {
	return func(g *Generator) {
		if n >= 0 {
			g.maxRetries = n
		}
	}
}

// WithGenRetryDelays sets the base and max delays for exponential backoff.
func WithGenRetryDelays(base, max time.Duration) GeneratorOption {
	return func(g *Generator) {
		if base > 0 {
			g.baseDelay = base
		}
		if max > 0 {
			g.maxDelay = max
		}
	}
}

// WithTimeout sets the per-call deadline.
func WithTimeout(d time.Duration) GeneratorOption {
	return func(g *Generator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// NewGenerator creates a Generator around the given chat client.
func NewGenerator(client chatCompleter, opts ...GeneratorOption) *Generator {
	g := &Generator{
		client:     client,
		model:      generationModel,
		maxRetries: defaultGenMaxRetries,
		baseDelay:  defaultGenBaseDelay,
		maxDelay:   defaultGenMaxDelay,
		timeout:    generationTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// summaryPrompt builds the system prompt for the paragraph summary.
func summaryPrompt(detected lang.Detection) string {
	return fmt.Sprintf(`You summarize a student's voice note. The note is in %s.

Rules:
- Respond in the EXACT same language as the transcript. Never translate.
- Write one short paragraph, at most 5 sentences.
- Plain text only: no markdown, bullets, headings, or formatting symbols.
- Summarize only what the student actually said. Do not invent content.`,
		lang.DisplayName(detected.Label))
}

// Summarize asks the chat endpoint for a short same-language paragraph
// summary of the transcript. The completion text is returned verbatim;
// language compliance is not re-validated after the fact.
func (g *Generator) Summarize(ctx context.Context, transcript string, detected lang.Detection) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		MaxTokens:   summaryMaxTokens,
		Temperature: summaryTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summaryPrompt(detected)},
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
	}

	text, err := g.complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("summary: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// complete executes one chat-completion call with timeout and retry.
func (g *Generator) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	cfg := apierr.RetryConfig{
		MaxRetries: g.maxRetries,
		BaseDelay:  g.baseDelay,
		MaxDelay:   g.maxDelay,
	}

	return apierr.RetryWithBackoff(ctx, cfg, func() (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()

		resp, err := g.client.CreateChatCompletion(callCtx, req)
		if err != nil {
			return "", classifyGenerationError(err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("%w: empty completion", ErrGeneration)
		}
		return resp.Choices[0].Message.Content, nil
	}, isRetryableGenerationError)
}

// classifyGenerationError maps chat API errors to apierr sentinels.
func classifyGenerationError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
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

// isRetryableGenerationError determines if an error is transient.
func isRetryableGenerationError(err error) bool {
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
