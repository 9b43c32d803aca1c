package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/zufairy/spmind2-sub002/internal/apierr"
	"github.com/zufairy/spmind2-sub002/internal/lang"
)

// extractionPrompt builds the system prompt for sticky-note extraction.
// The model must answer with a bare JSON array; an empty array is the
// expected answer when nothing in the note qualifies.
func extractionPrompt(detected lang.Detection) string {
	return fmt.Sprintf(`You extract study points from a student's voice note. The note is in %s.

Respond with ONLY a JSON array, no other text. Each element:
{"title": "...", "content": "...", "type": "...", "color": "...", "priority": "..."}

Rules:
- type is one of: exam, deadline, formula, definition, important, reminder, task, focus, todo, tip
- color is one of: yellow, pink, blue, green, orange, purple
- priority is one of: high, medium, low
- content must be at most 15 words
- Write title and content in the EXACT same language as the transcript. Never translate.
- Only extract points the student actually stated.
- If there is no qualifying educational content, respond with []`,
		lang.DisplayName(detected.Label))
}

// ExtractStickyNotes asks the chat endpoint for structured study points.
// The response must parse as a JSON array; a parse failure is an error
// (wrapping apierr.ErrUnparseable), never coerced into an empty result.
// Parsed notes are sanitized and notes whose content exceeds the word cap
// are dropped. An empty result is a valid, non-error outcome.
func (g *Generator) ExtractStickyNotes(ctx context.Context, transcript string, detected lang.Detection) ([]StickyNote, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		MaxTokens:   extractionMaxTokens,
		Temperature: extractionTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractionPrompt(detected)},
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
	}

	text, err := g.complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("extraction: %w", err)
	}

	parsed, err := parseNotes(text)
	if err != nil {
		return nil, fmt.Errorf("extraction: %w: %w", ErrGeneration, err)
	}

	result := make([]StickyNote, 0, len(parsed))
	for _, n := range parsed {
		n = sanitize(n)
		if withinWordLimit(n) {
			result = append(result, n)
		}
	}
	return result, nil
}

// parseNotes decodes the model's completion into sticky notes.
// Models occasionally wrap the array in a markdown code fence despite the
// prompt; the fence is stripped before decoding. Anything that still fails
// to decode as a JSON array is unparseable.
func parseNotes(text string) ([]StickyNote, error) {
	text = stripCodeFence(strings.TrimSpace(text))

	var parsed []StickyNote
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrUnparseable, err)
	}
	return parsed, nil
}

// stripCodeFence removes a surrounding markdown code fence, if present.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
