package artifact

import (
	"bufio"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	codesplit "github.com/jamesainslie/go-codesplit"
	"github.com/jamesainslie/go-codesplit/splitpoint"
)

// Manifest records how a dataset was produced, so it can be regenerated
// from the same corpus.
type Manifest struct {
	RunID       string
	CreatedAt   time.Time
	Corpus      string
	Seed        int64
	TestRatio   float64
	Dedup       bool
	Constraints splitpoint.Constraints
	Stats       codesplit.Stats
}

// NewManifest returns a manifest with a fresh run id and the current time.
func NewManifest(corpus string) Manifest {
	return Manifest{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Corpus:    corpus,
	}
}

// Struct converts m to a protobuf Struct.
func (m Manifest) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"run_id":     m.RunID,
		"created_at": m.CreatedAt.Format(time.RFC3339Nano),
		"corpus":     m.Corpus,
		"seed":       m.Seed,
		"test_ratio": m.TestRatio,
		"dedup":      m.Dedup,
		"constraints": map[string]any{
			"min_prefix_tokens":            m.Constraints.MinPrefixTokens,
			"min_prefix_line_tokens":       m.Constraints.MinPrefixLineTokens,
			"min_suffix_line_tokens":       m.Constraints.MinSuffixLineTokens,
			"exclude_comment_prefix_lines": m.Constraints.ExcludeCommentPrefixLines,
		},
		"stats": map[string]any{
			"samples":          m.Stats.Samples,
			"duplicates":       m.Stats.Duplicates,
			"train":            m.Stats.Train,
			"dev":              m.Stats.Dev,
			"pairs":            m.Stats.Pairs,
			"skipped_no_split": m.Stats.SkippedNoSplit,
		},
	})
}

// WriteManifest writes m as indented JSON to ManifestName.
func (w *Writer) WriteManifest(m Manifest) error {
	s, err := m.Struct()
	if err != nil {
		return fmt.Errorf("building manifest: %w", err)
	}
	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	return w.write(ManifestName, func(bw *bufio.Writer) error {
		if _, err := bw.Write(data); err != nil {
			return err
		}
		return bw.WriteByte('\n')
	})
}

// ReadManifest parses a manifest written by WriteManifest.
func ReadManifest(data []byte) (*structpb.Struct, error) {
	var s structpb.Struct
	if err := protojson.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &s, nil
}
