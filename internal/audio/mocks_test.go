package audio_test

// Shared test doubles for the audio package's OS-dependency interfaces.

import (
	"context"
	"io/fs"
	"os"
	"time"

	"github.com/zufairy/spmind2-sub002/internal/audio"
)

// fakeFileInfo implements os.FileInfo with a fixed size.
type fakeFileInfo struct {
	name string
	size int64
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return f.size }
func (f fakeFileInfo) Mode() fs.FileMode  { return 0644 }
func (f fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (f fakeFileInfo) IsDir() bool        { return false }
func (f fakeFileInfo) Sys() any           { return nil }

// mockStatter returns a fixed size or error for every path.
type mockStatter struct {
	size int64
	err  error
}

func (m mockStatter) Stat(name string) (os.FileInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	return fakeFileInfo{name: name, size: m.size}, nil
}

// mockRunner returns canned output for every command invocation and records
// the arguments it was called with.
type mockRunner struct {
	output []byte
	err    error
	calls  [][]string
}

func (m *mockRunner) CombinedOutput(_ context.Context, _ string, args []string) ([]byte, error) {
	m.calls = append(m.calls, args)
	return m.output, m.err
}

// Compile-time interface compliance.
var (
	_ audio.FileStatter   = (*mockStatter)(nil)
	_ audio.CommandRunner = (*mockRunner)(nil)
)
