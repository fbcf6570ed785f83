package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/go-codesplit/splitpoint"
)

func TestParse(t *testing.T) {
	data := []byte(`
corpus: data/haskell.jsonl
seed: 7
test_ratio: 0.1
dedup: false
split:
  min_prefix_tokens: 3
  exclude_comment_prefix_lines: true
filter:
  max_ast_errors: 0
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "data/haskell.jsonl", cfg.Corpus)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int64(7), *cfg.Seed)
	require.NotNil(t, cfg.TestRatio)
	assert.InDelta(t, 0.1, *cfg.TestRatio, 1e-12)
	require.NotNil(t, cfg.Dedup)
	assert.False(t, *cfg.Dedup)
	require.NotNil(t, cfg.Filter.MaxASTErrors)
	assert.Equal(t, 0, *cfg.Filter.MaxASTErrors)

	c := cfg.Constraints(splitpoint.DefaultConstraints())
	assert.Equal(t, splitpoint.Constraints{
		MinPrefixTokens:           3,
		MinSuffixLineTokens:       1,
		ExcludeCommentPrefixLines: true,
	}, c)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Nil(t, cfg.Seed)
	assert.Equal(t, splitpoint.DefaultConstraints(), cfg.Constraints(splitpoint.DefaultConstraints()))
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte("sed: 42\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codesplit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("out: build\nworkers: 3\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "build", cfg.Out)
	assert.Equal(t, 3, cfg.Workers)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
