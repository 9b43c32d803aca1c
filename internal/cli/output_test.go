package cli_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zufairy/spmind2-sub002/internal/cli"
	"github.com/zufairy/spmind2-sub002/internal/lang"
	"github.com/zufairy/spmind2-sub002/internal/notes"
	"github.com/zufairy/spmind2-sub002/internal/pipeline"
)

// ---------------------------------------------------------------------------
// renderMarkdown - Note document structure
// ---------------------------------------------------------------------------

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	t.Run("healthy result", func(t *testing.T) {
		t.Parallel()
		got := cli.RenderMarkdown("/rec/sejarah-bab3.m4a", goodResult())

		for _, want := range []string{
			"# sejarah-bab3",
			"Language: Malay (Bahasa Melayu)",
			"## Summary",
			"Nota ulangkaji matematik.",
			"## Study Points",
			"**Ujian** (exam, high priority): Bab 3",
			"## Transcript",
			"saya belajar matematik",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("rendered note missing %q:\n%s", want, got)
			}
		}
		if strings.Contains(got, "placeholder") {
			t.Errorf("healthy result carries a degradation notice:\n%s", got)
		}
	})

	t.Run("degraded result gets a notice", func(t *testing.T) {
		t.Parallel()
		r := pipeline.Result{
			Transcript:  pipeline.PlaceholderTranscript,
			Summary:     pipeline.PlaceholderSummary,
			StickyNotes: []notes.StickyNote{},
			Degraded:    true,
		}
		got := cli.RenderMarkdown("note.m4a", r)

		if !strings.Contains(got, "placeholder content") {
			t.Errorf("degraded note missing notice:\n%s", got)
		}
		// No language line when the transcript is a placeholder.
		if strings.Contains(got, "Language:") {
			t.Errorf("degraded note claims a detected language:\n%s", got)
		}
		if strings.Contains(got, "## Study Points") {
			t.Errorf("empty sticky notes rendered a section:\n%s", got)
		}
	})
}

// ---------------------------------------------------------------------------
// writeFileAtomic - Overwrite protection
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	t.Run("writes new file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "note.md")

		if err := cli.WriteFileAtomic(path, "content"); err != nil {
			t.Fatalf("WriteFileAtomic() error: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil || string(data) != "content" {
			t.Errorf("read back %q, %v", data, err)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "note.md")
		if err := os.WriteFile(path, []byte("original"), 0600); err != nil {
			t.Fatal(err)
		}

		err := cli.WriteFileAtomic(path, "replacement")
		if !errors.Is(err, cli.ErrOutputExists) {
			t.Fatalf("error = %v, want ErrOutputExists", err)
		}
		data, _ := os.ReadFile(path)
		if string(data) != "original" {
			t.Error("existing file was modified")
		}
	})
}

// ---------------------------------------------------------------------------
// Small helpers
// ---------------------------------------------------------------------------

func TestWarnNonMarkdownExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		wantWarn bool
	}{
		{name: "markdown extension", path: "notes.md"},
		{name: "no extension", path: "notes"},
		{name: "text extension", path: "notes.txt", wantWarn: true},
		{name: "uppercase markdown", path: "NOTES.MD"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			cli.WarnNonMarkdownExtension(&buf, tt.path)
			if got := buf.Len() > 0; got != tt.wantWarn {
				t.Errorf("warning written = %v, want %v (output %q)", got, tt.wantWarn, buf.String())
			}
		})
	}
}

func TestDeriveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "session.ogg", want: "session.md"},
		{in: "bab3.m4a", want: "bab3.md"},
		{in: "noext", want: "noext.md"},
	}

	for _, tt := range tests {
		tt := tt
		if got := cli.DeriveOutputPath(tt.in); got != tt.want {
			t.Errorf("DeriveOutputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClampParallel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want int
	}{
		{in: -1, want: 1},
		{in: 0, want: 1},
		{in: 1, want: 1},
		{in: 3, want: 3},
		{in: cli.MaxRecommendedParallel, want: cli.MaxRecommendedParallel},
		{in: 100, want: cli.MaxRecommendedParallel},
	}

	for _, tt := range tests {
		tt := tt
		if got := cli.ClampParallel(tt.in); got != tt.want {
			t.Errorf("ClampParallel(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSupportedFormatsList(t *testing.T) {
	t.Parallel()

	got := cli.SupportedFormatsList()
	if got != "flac, m4a, mp3, mp4, mpeg, mpga, ogg, wav, webm" {
		t.Errorf("SupportedFormatsList() = %q", got)
	}
}

// Language detection feeding the rendered header is exercised end to end in
// process tests; this pins the display name used there.
func TestRenderMarkdown_MixedLanguageHeader(t *testing.T) {
	t.Parallel()

	r := goodResult()
	r.Language = lang.Detection{Label: lang.Mixed, Score: 20}
	got := cli.RenderMarkdown("note.m4a", r)
	if !strings.Contains(got, "Language: mixed Malay and English") {
		t.Errorf("rendered note missing mixed-language header:\n%s", got)
	}
}
