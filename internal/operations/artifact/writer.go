package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// ResolveTarget returns the file an artifact is written to. When path is an
// existing directory the artifact keeps its server-reported name inside it.
func ResolveTarget(path, name string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("output path is required")
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		base := filepath.Base(name)
		if base == "." || base == ".." || base == string(filepath.Separator) || strings.TrimSpace(base) == "" {
			return "", fmt.Errorf("invalid artifact name %q", name)
		}
		return filepath.Join(path, base), nil
	case err == nil:
		return path, nil
	case os.IsNotExist(err):
		return path, nil
	default:
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
}

// FileWriter writes a download to a temporary file next to its destination
// and moves it into place on Commit. The destination is never left half
// written. The SHA-256 of the content is computed as chunks arrive.
type FileWriter struct {
	dest    string
	tmp     *os.File
	hash    hash.Hash
	written int64
	logger  *logrus.Entry
}

// NewFileWriter creates the temporary file for dest
func NewFileWriter(logger *logrus.Entry, dest string) (*FileWriter, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	logger.WithField("temp", tmp.Name()).Debug("Created temporary download file")
	return &FileWriter{dest: dest, tmp: tmp, hash: sha256.New(), logger: logger}, nil
}

// Write appends a chunk to the temporary file. It has the signature of a
// papermc.ChunkSink.
func (w *FileWriter) Write(chunk []byte) error {
	n, err := w.tmp.Write(chunk)
	w.hash.Write(chunk[:n])
	w.written += int64(n)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", w.tmp.Name(), err)
	}
	return nil
}

// Written returns the number of bytes written so far
func (w *FileWriter) Written() int64 {
	return w.written
}

// Checksum returns the hex SHA-256 of everything written so far
func (w *FileWriter) Checksum() string {
	return hex.EncodeToString(w.hash.Sum(nil))
}

// Commit flushes the temporary file, compares its checksum with
// expectedSHA256 when one is given and moves it to the destination. The
// temporary file is removed on failure.
func (w *FileWriter) Commit(expectedSHA256 string) (err error) {
	defer func() {
		if err != nil {
			w.Abort()
		}
	}()

	if err := w.tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := w.tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	if expectedSHA256 != "" {
		actual := w.Checksum()
		if !strings.EqualFold(actual, expectedSHA256) {
			w.logger.WithFields(logrus.Fields{
				"expected": expectedSHA256,
				"actual":   actual,
			}).Debug("Checksum mismatch")
			return fmt.Errorf("checksum mismatch: expected %s, got %s", expectedSHA256, actual)
		}
	}

	if err := w.place(); err != nil {
		return fmt.Errorf("failed to move artifact to destination: %w", err)
	}

	w.logger.WithFields(logrus.Fields{
		"dest":  w.dest,
		"bytes": w.written,
	}).Debug("Artifact written")
	return nil
}

// Abort closes and removes the temporary file. Safe to call more than once.
func (w *FileWriter) Abort() {
	_ = w.tmp.Close()
	if err := os.Remove(w.tmp.Name()); err != nil && !os.IsNotExist(err) {
		w.logger.WithError(err).Warn("Failed to remove temporary file")
	}
}

// place renames the temporary file onto the destination. The temporary file
// shares the destination directory, so the rename stays on one filesystem.
func (w *FileWriter) place() error {
	return os.Rename(w.tmp.Name(), w.dest)
}
