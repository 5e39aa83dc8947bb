package infrastructure

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FileSaver materializes a payload stream as a file in the output directory.
// The payload is written to a temporary file first and renamed into place
// only when the copy completed, so a failed transfer never leaves a partial
// file behind. The temporary handle is released exactly once via defer,
// whatever the outcome.
type FileSaver struct {
	dir    string
	logger *zap.Logger
}

// NewFileSaver creates a saver rooted at dir.
func NewFileSaver(dir string, logger *zap.Logger) *FileSaver {
	return &FileSaver{dir: dir, logger: logger}
}

// Save streams r into dir under filename and returns the final path and the
// number of bytes written.
func (s *FileSaver) Save(filename string, r io.Reader) (string, int64, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".trackpull-*")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temporary file: %w", err)
	}

	renamed := false
	defer func() {
		tmp.Close()
		if !renamed {
			os.Remove(tmp.Name())
		}
	}()

	written, err := io.Copy(tmp, r)
	if err != nil {
		return "", written, err
	}
	if err := tmp.Sync(); err != nil {
		return "", written, fmt.Errorf("failed to flush file: %w", err)
	}

	finalPath := filepath.Join(s.dir, filename)
	if err := os.Rename(tmp.Name(), finalPath); err != nil {
		return "", written, fmt.Errorf("failed to move file into place: %w", err)
	}
	renamed = true

	s.logger.Debug("File saved",
		zap.String("path", finalPath),
		zap.Int64("bytes", written))

	return finalPath, written, nil
}
