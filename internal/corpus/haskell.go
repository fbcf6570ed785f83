package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HaskellExt is the extension of files read by LoadHaskellDir.
const HaskellExt = ".hs"

// File is a source file loaded from disk.
type File struct {
	Name    string // base name without extension
	Content string
}

// LoadHaskellDir loads every .hs file directly inside dir, in name order.
func LoadHaskellDir(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read dir: %w", ErrCorpus, err)
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) != HaskellExt {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("%w: loading %s: %w", ErrCorpus, entry.Name(), err)
		}
		files = append(files, File{
			Name:    strings.TrimSuffix(entry.Name(), HaskellExt),
			Content: string(data),
		})
	}

	return files, nil
}
