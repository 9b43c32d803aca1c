package audio_test

// Notes:
// - Tests focus on pure functions (parsing, decision thresholds)
// - Probing that would shell out to FFmpeg is tested via interface mocks
// - Internal functions exposed via export_test.go for black-box testing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zufairy/spmind2-sub002/internal/audio"
)

// ---------------------------------------------------------------------------
// ShouldChunk - Chunking decision thresholds
// ---------------------------------------------------------------------------

func TestShouldChunk(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		asset audio.Asset
		want  bool
	}{
		{
			name:  "small short recording",
			asset: audio.Asset{Size: 2 * 1024 * 1024, Duration: 3 * time.Minute},
			want:  false,
		},
		{
			name:  "size exactly at threshold",
			asset: audio.Asset{Size: audio.MaxDirectSize, Duration: time.Minute},
			want:  false,
		},
		{
			name:  "size one byte over threshold",
			asset: audio.Asset{Size: audio.MaxDirectSize + 1, Duration: time.Minute},
			want:  true,
		},
		{
			name:  "duration exactly at threshold",
			asset: audio.Asset{Size: 1024, Duration: audio.MaxDirectDuration},
			want:  false,
		},
		{
			name:  "duration just over threshold",
			asset: audio.Asset{Size: 1024, Duration: audio.MaxDirectDuration + time.Second},
			want:  true,
		},
		{
			name:  "long but tiny file still chunks",
			asset: audio.Asset{Size: 500 * 1024, Duration: 10 * time.Minute},
			want:  true,
		},
		{
			name:  "unknown duration decides on size alone",
			asset: audio.Asset{Size: 30 * 1024 * 1024, Duration: 0},
			want:  true,
		},
		{
			name:  "unknown duration and small size stays direct",
			asset: audio.Asset{Size: 1024, Duration: 0},
			want:  false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := audio.ShouldChunk(tt.asset)
			if got != tt.want {
				t.Errorf("ShouldChunk(%+v) = %v, want %v", tt.asset, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Prober.Probe - Attribute probing with mocked dependencies
// ---------------------------------------------------------------------------

func TestProber_Probe(t *testing.T) {
	t.Parallel()

	t.Run("stat failure returns ErrProbe", func(t *testing.T) {
		t.Parallel()
		p := audio.NewProber("ffmpeg",
			audio.WithProberStatter(mockStatter{err: errors.New("no such file")}),
		)

		_, err := p.Probe(context.Background(), "missing.m4a")
		if !errors.Is(err, audio.ErrProbe) {
			t.Errorf("Probe() error = %v, want ErrProbe", err)
		}
	})

	t.Run("duration parsed from ffmpeg output", func(t *testing.T) {
		t.Parallel()
		runner := &mockRunner{output: []byte("Input #0\n  Duration: 00:05:30.00, start: 0.0\n")}
		p := audio.NewProber("ffmpeg",
			audio.WithProberStatter(mockStatter{size: 4096}),
			audio.WithProberCommandRunner(runner),
		)

		asset, err := p.Probe(context.Background(), "note.m4a")
		if err != nil {
			t.Fatalf("Probe() unexpected error: %v", err)
		}
		if asset.Size != 4096 {
			t.Errorf("Size = %d, want 4096", asset.Size)
		}
		if asset.Duration != 5*time.Minute+30*time.Second {
			t.Errorf("Duration = %v, want 5m30s", asset.Duration)
		}
	})

	t.Run("duration probe failure is not an error", func(t *testing.T) {
		t.Parallel()
		runner := &mockRunner{err: errors.New("exec failed")}
		p := audio.NewProber("ffmpeg",
			audio.WithProberStatter(mockStatter{size: 4096}),
			audio.WithProberCommandRunner(runner),
		)

		asset, err := p.Probe(context.Background(), "note.m4a")
		if err != nil {
			t.Fatalf("Probe() unexpected error: %v", err)
		}
		if asset.Duration != 0 {
			t.Errorf("Duration = %v, want 0", asset.Duration)
		}
	})

	t.Run("empty ffmpeg path skips duration probe", func(t *testing.T) {
		t.Parallel()
		p := audio.NewProber("",
			audio.WithProberStatter(mockStatter{size: 2048}),
		)

		asset, err := p.Probe(context.Background(), "note.m4a")
		if err != nil {
			t.Fatalf("Probe() unexpected error: %v", err)
		}
		if asset.Size != 2048 || asset.Duration != 0 {
			t.Errorf("asset = %+v, want size 2048 and duration 0", asset)
		}
	})
}

// ---------------------------------------------------------------------------
// parseDurationFromFFmpegOutput - FFmpeg stderr parsing
// ---------------------------------------------------------------------------

func TestParseDurationFromFFmpegOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		output  string
		want    time.Duration
		wantErr bool
	}{
		{
			name:   "duration line",
			output: "  Duration: 00:05:23.45, start: 0.000000, bitrate: 64 kb/s",
			want:   5*time.Minute + 23*time.Second + 450*time.Millisecond,
		},
		{
			name:   "duration with hours",
			output: "Duration: 01:30:00.00",
			want:   time.Hour + 30*time.Minute,
		},
		{
			name:   "time fallback uses last match",
			output: "time=00:00:10.00 bitrate=N/A\ntime=00:01:00.50 bitrate=N/A",
			want:   time.Minute + 500*time.Millisecond,
		},
		{
			name:    "no duration in output",
			output:  "ffmpeg version 6.0",
			wantErr: true,
		},
		{
			name:    "empty output",
			output:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := audio.ParseDurationFromFFmpegOutput(tt.output)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("duration = %v, want %v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// parseTimeComponents - Fractional second normalization
// ---------------------------------------------------------------------------

func TestParseTimeComponents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		h, m, s, f string
		want       time.Duration
	}{
		{name: "one fractional digit", h: "0", m: "0", s: "1", f: "5", want: 1500 * time.Millisecond},
		{name: "two fractional digits", h: "0", m: "0", s: "1", f: "45", want: 1450 * time.Millisecond},
		{name: "three fractional digits", h: "0", m: "0", s: "1", f: "456", want: 1456 * time.Millisecond},
		{name: "excess precision truncated", h: "0", m: "0", s: "1", f: "456789", want: 1456 * time.Millisecond},
		{name: "full timestamp", h: "2", m: "15", s: "30", f: "00", want: 2*time.Hour + 15*time.Minute + 30*time.Second},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := audio.ParseTimeComponents(tt.h, tt.m, tt.s, tt.f)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("duration = %v, want %v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// formatFFmpegTime - Seek argument formatting
// ---------------------------------------------------------------------------

func TestFormatFFmpegTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{name: "zero", d: 0, want: "00:00:00.000"},
		{name: "ninety seconds", d: 90 * time.Second, want: "00:01:30.000"},
		{name: "with milliseconds", d: 90*time.Second + 250*time.Millisecond, want: "00:01:30.250"},
		{name: "over an hour", d: time.Hour + 5*time.Minute + 3*time.Second, want: "01:05:03.000"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := audio.FormatFFmpegTime(tt.d)
			if got != tt.want {
				t.Errorf("FormatFFmpegTime(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}
