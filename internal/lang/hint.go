package lang

import (
	"fmt"
	"strings"
)

// Transcription language hints. Empty means auto-detect by the endpoint.
const (
	HintMalay   = "ms"
	HintEnglish = "en"
)

// Normalize lowercases and trims a hint code. "MS" and " ms " become "ms".
func Normalize(hint string) string {
	return strings.ToLower(strings.TrimSpace(hint))
}

// ValidateHint checks that a transcription hint is one of the supported
// codes or empty (auto-detect).
func ValidateHint(hint string) error {
	switch Normalize(hint) {
	case "", HintMalay, HintEnglish:
		return nil
	}
	return fmt.Errorf("invalid language hint %q (use %q or %q): %w",
		hint, HintMalay, HintEnglish, ErrInvalid)
}

// HintFor maps a detection back to a transcription hint, used when a
// follow-up transcription should stick to the detected language.
func HintFor(d Detection) string {
	if d.Label == Malay {
		return HintMalay
	}
	return HintEnglish
}

// DisplayName names the detected language for use inside generation prompts.
func DisplayName(l Label) string {
	switch l {
	case Malay:
		return "Malay (Bahasa Melayu)"
	case Mixed:
		return "mixed Malay and English"
	default:
		return "English"
	}
}
