package notes

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// Sanitize exports sanitize for testing.
var Sanitize = sanitize

// WithinWordLimit exports withinWordLimit for testing.
var WithinWordLimit = withinWordLimit

// ParseNotes exports parseNotes for testing.
var ParseNotes = parseNotes

// StripCodeFence exports stripCodeFence for testing.
var StripCodeFence = stripCodeFence

// SummaryPrompt exports summaryPrompt for testing.
var SummaryPrompt = summaryPrompt

// ExtractionPrompt exports extractionPrompt for testing.
var ExtractionPrompt = extractionPrompt
