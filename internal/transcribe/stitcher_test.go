package transcribe_test

import (
	"testing"

	"github.com/zufairy/spmind2-sub002/internal/transcribe"
)

// ---------------------------------------------------------------------------
// Stitch - Per-chunk transcript joining
// ---------------------------------------------------------------------------

func TestStitch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		texts []string
		want  string
	}{
		{
			name:  "no transcripts",
			texts: nil,
			want:  "",
		},
		{
			name:  "single transcript unchanged",
			texts: []string{"  Hari ini saya belajar.  "},
			want:  "  Hari ini saya belajar.  ",
		},
		{
			name:  "two transcripts joined with one space",
			texts: []string{"First chunk text.", "Second chunk text."},
			want:  "First chunk text. Second chunk text.",
		},
		{
			name:  "whitespace runs collapsed",
			texts: []string{"First  chunk\ntext. ", "  Second\t\tchunk."},
			want:  "First chunk text. Second chunk.",
		},
		{
			name:  "empty chunks do not stack spaces",
			texts: []string{"Start.", "", "End."},
			want:  "Start. End.",
		},
		{
			name: "boundary words may repeat",
			// Overlapping chunks keep boundary words in both; the stitcher
			// joins them as-is without de-duplication.
			texts: []string{"the formula is a squared", "a squared plus b squared"},
			want:  "the formula is a squared a squared plus b squared",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := transcribe.Stitch(tt.texts)
			if got != tt.want {
				t.Errorf("Stitch(%q) = %q, want %q", tt.texts, got, tt.want)
			}
		})
	}
}
