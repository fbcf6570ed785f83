// Package artifact writes dataset files to an output directory.
package artifact

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	codesplit "github.com/jamesainslie/go-codesplit"
)

// Artifact file names.
const (
	TrainText    = "train.txt"
	DevText      = "dev.txt"
	DevPairs     = "dev.json"
	HumanEval    = "test-humaneval.json"
	ManifestName = "manifest.json"
)

// ErrInvalidName indicates an artifact name that is not a plain file name.
var ErrInvalidName = errors.New("artifact: invalid name")

// Writer writes artifacts into one directory. Every file is written to a
// temporary sibling and renamed into place, so readers never observe a
// partial artifact.
type Writer struct {
	dir     string
	perm    os.FileMode
	bufSize int
}

// NewWriter creates dir if needed and returns a Writer for it.
func NewWriter(dir string) (*Writer, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: empty output directory", ErrInvalidName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Writer{dir: dir, perm: 0o644, bufSize: 64 * 1024}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Path returns the destination path of the named artifact.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// WriteLines writes one string per line.
func (w *Writer) WriteLines(name string, lines []string) error {
	return w.write(name, func(bw *bufio.Writer) error {
		for _, line := range lines {
			if _, err := bw.WriteString(line); err != nil {
				return err
			}
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
		return nil
	})
}

// WritePairs writes one {"input": ..., "gt": ...} object per line. Marker
// tokens are written literally, not HTML-escaped.
func (w *Writer) WritePairs(name string, pairs []codesplit.Pair) error {
	return w.write(name, func(bw *bufio.Writer) error {
		return EncodePairs(bw, pairs)
	})
}

// EncodePairs writes pairs to out as JSON Lines.
func EncodePairs(out io.Writer, pairs []codesplit.Pair) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	for _, p := range pairs {
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encoding pair: %w", err)
		}
	}
	return nil
}

// write streams content into a temporary file and renames it over name.
func (w *Writer) write(name string, fill func(*bufio.Writer) error) error {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	dest := w.Path(name)

	tmp, err := os.CreateTemp(w.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, w.perm)

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", name, err)
	}

	bw := bufio.NewWriterSize(tmp, w.bufSize)
	if err := fill(bw); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}
