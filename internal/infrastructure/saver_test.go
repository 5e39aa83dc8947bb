package infrastructure

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileSaver_Save(t *testing.T) {
	dir := t.TempDir()
	saver := NewFileSaver(dir, zap.NewNop())

	path, written, err := saver.Save("my track.mp3", strings.NewReader("audio bytes"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "my track.mp3"), path)
	assert.Equal(t, int64(len("audio bytes")), written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "audio bytes", string(data))
}

func TestFileSaver_CreatesOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	saver := NewFileSaver(dir, zap.NewNop())

	_, _, err := saver.Save("track.mp3", strings.NewReader("x"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "track.mp3"))
	assert.NoError(t, err)
}

// A failed copy must never leave a partial file behind, and the temporary
// handle must be released exactly once.
func TestFileSaver_NoPartialFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	saver := NewFileSaver(dir, zap.NewNop())

	failing := io.MultiReader(strings.NewReader("partial "), failingReader{})
	_, _, err := saver.Save("track.mp3", failing)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no partial or temporary files may remain")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("stream interrupted")
}
