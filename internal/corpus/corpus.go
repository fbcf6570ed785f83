// Package corpus loads code samples for dataset preparation.
package corpus

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// DefaultField is the JSON field holding the sample source code.
const DefaultField = "full_code"

// maxLineBytes bounds a single JSONL record.
const maxLineBytes = 64 << 20

var (
	// ErrCorpus indicates the corpus could not be read or parsed.
	ErrCorpus = errors.New("corpus: unreadable corpus")

	// ErrMissingField indicates a record without a usable code field.
	// Such records are skipped, not fatal.
	ErrMissingField = errors.New("corpus: missing code field")
)

// Meta holds optional quality metadata. Nil fields were absent in the source.
type Meta struct {
	Repo         string
	Path         string
	Size         *int
	Lines        *int
	HasComments  *bool
	HasSignature *bool
	ASTErrors    *int
}

// Sample is one validated source-code unit. Code is never empty.
type Sample struct {
	ID   string
	Code string
	Meta Meta
}

// Corpus is the result of loading a source.
type Corpus struct {
	Samples []Sample
	Skipped int // records without a usable code field
}

type record struct {
	Repo         string `json:"repo_name"`
	Path         string `json:"path"`
	Size         *int   `json:"full_size"`
	Lines        *int   `json:"loc"`
	HasComments  *bool  `json:"is_commented"`
	HasSignature *bool  `json:"is_signatured"`
	ASTErrors    *int   `json:"n_ast_errors"`
}

// ParseRecord validates one JSON object and converts it to a Sample. It
// returns ErrMissingField when field is absent, null or blank.
func ParseRecord(line []byte, field, id string) (Sample, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(line, &raw); err != nil {
		return Sample{}, fmt.Errorf("%w: %w", ErrCorpus, err)
	}

	var code *string
	if msg, ok := raw[field]; ok {
		if err := json.Unmarshal(msg, &code); err != nil {
			return Sample{}, fmt.Errorf("%w: field %q: %w", ErrCorpus, field, err)
		}
	}
	if code == nil || strings.TrimSpace(*code) == "" {
		return Sample{}, fmt.Errorf("%w: %s", ErrMissingField, field)
	}

	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return Sample{}, fmt.Errorf("%w: metadata: %w", ErrCorpus, err)
	}

	return Sample{
		ID:   id,
		Code: *code,
		Meta: Meta(rec),
	}, nil
}

// ReadJSONL reads one JSON object per line from r. Blank lines are ignored.
// Records without a usable code field are counted in Skipped.
func ReadJSONL(r io.Reader, name, field string) (*Corpus, error) {
	if field == "" {
		field = DefaultField
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	c := &Corpus{}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		id := fmt.Sprintf("%s:%d", name, lineNo)
		s, err := ParseRecord(line, field, id)
		if err != nil {
			if errors.Is(err, ErrMissingField) {
				c.Skipped++
				continue
			}
			return nil, fmt.Errorf("%s line %d: %w", name, lineNo, err)
		}
		c.Samples = append(c.Samples, s)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: scan %s: %w", ErrCorpus, name, err)
	}

	return c, nil
}

// LoadJSONL loads a JSON Lines corpus file.
func LoadJSONL(path, field string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorpus, err)
	}
	defer func() { _ = f.Close() }()

	return ReadJSONL(f, filepath.Base(path), field)
}

// Filter drops samples by quality metadata. Samples lacking a field pass
// the corresponding check.
type Filter struct {
	MaxASTErrors     *int
	RequireSignature bool
	MaxLines         *int
}

// Apply returns the samples accepted by f, in order.
func (f Filter) Apply(samples []Sample) []Sample {
	return lo.Filter(samples, func(s Sample, _ int) bool {
		return f.Accept(s)
	})
}

// Accept reports whether s passes the filter.
func (f Filter) Accept(s Sample) bool {
	if f.MaxASTErrors != nil && s.Meta.ASTErrors != nil && *s.Meta.ASTErrors > *f.MaxASTErrors {
		return false
	}
	if f.RequireSignature && s.Meta.HasSignature != nil && !*s.Meta.HasSignature {
		return false
	}
	if f.MaxLines != nil && s.Meta.Lines != nil && *s.Meta.Lines > *f.MaxLines {
		return false
	}
	return true
}

// Codes returns the code of each sample.
func Codes(samples []Sample) []string {
	return lo.Map(samples, func(s Sample, _ int) string {
		return s.Code
	})
}
