// Package storage delivers rendered schedule documents to their destination.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Sink stores one document under a slash-separated name and returns its location
type Sink interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// ObjectName returns "<class>/<class>_uke<WW>_<YYYY><ext>"
func ObjectName(class string, year, week int, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s/%s_uke%02d_%d%s", class, class, week, year, ext)
}

// FileSink writes documents below a local directory
type FileSink struct {
	dir    string
	logger *zap.Logger
}

// NewFileSink creates a sink rooted at dir
func NewFileSink(dir string, logger *zap.Logger) *FileSink {
	return &FileSink{dir: dir, logger: logger}
}

// Dir returns the output directory
func (s *FileSink) Dir() string {
	return s.dir
}

// Put writes data to dir/name, replacing an existing file. The document is
// written to a temporary file first so a failed write leaves no partial file.
func (s *FileSink) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move %s into place: %w", name, err)
	}

	s.logger.Debug("Document written",
		zap.String("path", path),
		zap.String("content_type", contentType),
		zap.Int("bytes", len(data)))

	return path, nil
}
