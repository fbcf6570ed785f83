//go:build ignore

// Pack a directory tree of Haskell sources into a JSONL corpus.
// Each line holds one file as {"repo_name", "path", "full_code", "full_size", "loc"}.
// Usage: go run ./scripts/pack-haskell.go <src-dir> <out.jsonl>
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Record matches the fields read by the prepare command.
type Record struct {
	Repo     string `json:"repo_name"`
	Path     string `json:"path"`
	FullCode string `json:"full_code"`
	Size     int    `json:"full_size"`
	Lines    int    `json:"loc"`
}

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: go run ./scripts/pack-haskell.go <src-dir> <out.jsonl>")
		os.Exit(2)
	}
	srcDir, outFile := os.Args[1], os.Args[2]

	n, err := pack(srcDir, outFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Packed %d files into %s\n", n, outFile)
}

func pack(srcDir, outFile string) (int, error) {
	file, err := os.Create(outFile)
	if err != nil {
		return 0, fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)

	repo := filepath.Base(filepath.Clean(srcDir))
	count := 0
	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".hs" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}

		code := string(data)
		count++
		return encoder.Encode(Record{
			Repo:     repo,
			Path:     filepath.ToSlash(rel),
			FullCode: code,
			Size:     len(data),
			Lines:    strings.Count(code, "\n"),
		})
	})
	if err != nil {
		return count, err
	}
	return count, w.Flush()
}
