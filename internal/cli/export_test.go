package cli

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// RenderMarkdown exports renderMarkdown for testing.
var RenderMarkdown = renderMarkdown

// WriteFileAtomic exports writeFileAtomic for testing.
var WriteFileAtomic = writeFileAtomic

// WarnNonMarkdownExtension exports warnNonMarkdownExtension for testing.
var WarnNonMarkdownExtension = warnNonMarkdownExtension

// DeriveOutputPath exports deriveOutputPath for testing.
var DeriveOutputPath = deriveOutputPath

// ClampParallel exports clampParallel for testing.
var ClampParallel = clampParallel

// SupportedFormatsList exports supportedFormatsList for testing.
var SupportedFormatsList = supportedFormatsList
