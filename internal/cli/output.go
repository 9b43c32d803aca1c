package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zufairy/spmind2-sub002/internal/lang"
	"github.com/zufairy/spmind2-sub002/internal/pipeline"
)

// warnNonMarkdownExtension writes a warning to w if path has an extension
// that is not .md. This alerts users that the output will be Markdown
// regardless of the file extension they specified.
func warnNonMarkdownExtension(w io.Writer, path string) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" && ext != ".md" {
		_, _ = fmt.Fprintf(w, "Warning: output is Markdown regardless of %s extension\n", ext)
	}
}

// renderMarkdown formats a pipeline result as a Markdown note document.
// Degraded fields are rendered like any other: the placeholders are already
// user-facing text, but a degraded result gets a notice up top.
func renderMarkdown(inputPath string, r pipeline.Result) string {
	var b strings.Builder

	title := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	fmt.Fprintf(&b, "# %s\n\n", title)

	if r.Degraded {
		b.WriteString("> Some AI processing steps failed for this recording; placeholder content is shown where needed.\n\n")
	}

	if r.Fields.Transcript {
		fmt.Fprintf(&b, "Language: %s\n\n", lang.DisplayName(r.Language.Label))
	}

	b.WriteString("## Summary\n\n")
	b.WriteString(r.Summary)
	b.WriteString("\n\n")

	if len(r.StickyNotes) > 0 {
		b.WriteString("## Study Points\n\n")
		for _, n := range r.StickyNotes {
			fmt.Fprintf(&b, "- **%s** (%s, %s priority): %s\n", n.Title, n.Type, n.Priority, n.Content)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Transcript\n\n")
	b.WriteString(r.Transcript)
	b.WriteString("\n")

	return b.String()
}

// writeFileAtomic writes content to path atomically.
// It fails if the file already exists (O_EXCL), preventing accidental overwrites.
// On write failure, the partial file is removed.
func writeFileAtomic(path, content string) error {
	// #nosec G302 G304 -- user-specified output file with standard permissions
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("output file already exists: %s: %w", path, ErrOutputExists)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	writeErr := func() error {
		defer func() { _ = f.Close() }()
		if _, err := f.WriteString(content); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}()

	if writeErr != nil {
		_ = os.Remove(path)
		return writeErr
	}

	return nil
}
