package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSONL(t *testing.T) {
	input := strings.Join([]string{
		`{"repo_name": "a/b", "path": "src/A.hs", "full_code": "f x = x\n", "n_ast_errors": 0, "is_signatured": true}`,
		``,
		`{"full_code": null}`,
		`{"full_code": "   "}`,
		`{"other": "no code"}`,
		`{"full_code": "g = 1", "loc": 1}`,
	}, "\n")

	c, err := ReadJSONL(strings.NewReader(input), "train.jsonl", "")
	require.NoError(t, err)

	require.Len(t, c.Samples, 2)
	assert.Equal(t, 3, c.Skipped)

	first := c.Samples[0]
	assert.Equal(t, "train.jsonl:1", first.ID)
	assert.Equal(t, "f x = x\n", first.Code)
	assert.Equal(t, "a/b", first.Meta.Repo)
	require.NotNil(t, first.Meta.ASTErrors)
	assert.Equal(t, 0, *first.Meta.ASTErrors)
	require.NotNil(t, first.Meta.HasSignature)
	assert.True(t, *first.Meta.HasSignature)
	assert.Nil(t, first.Meta.Lines)

	second := c.Samples[1]
	assert.Equal(t, "train.jsonl:6", second.ID)
	require.NotNil(t, second.Meta.Lines)
	assert.Equal(t, 1, *second.Meta.Lines)
}

func TestReadJSONL_CustomField(t *testing.T) {
	input := `{"content": "main = pure ()", "full_code": "ignored"}`

	c, err := ReadJSONL(strings.NewReader(input), "x", "content")
	require.NoError(t, err)
	require.Len(t, c.Samples, 1)
	assert.Equal(t, "main = pure ()", c.Samples[0].Code)
}

func TestReadJSONL_Malformed(t *testing.T) {
	input := "{\"full_code\": \"ok\"}\n{not json}\n"

	_, err := ReadJSONL(strings.NewReader(input), "bad.jsonl", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorpus)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadJSONL_WrongFieldType(t *testing.T) {
	_, err := ReadJSONL(strings.NewReader(`{"full_code": 12}`), "x", "")
	assert.ErrorIs(t, err, ErrCorpus)
}

func TestParseRecord_MissingField(t *testing.T) {
	_, err := ParseRecord([]byte(`{"path": "a.hs"}`), DefaultField, "1")
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestLoadJSONL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.jsonl")
	content := "{\"full_code\": \"a = 1\"}\n{\"full_code\": \"b = 2\"}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := LoadJSONL(path, DefaultField)
	require.NoError(t, err)
	assert.Equal(t, []string{"a = 1", "b = 2"}, Codes(c.Samples))
}

func TestLoadJSONL_NotFound(t *testing.T) {
	_, err := LoadJSONL(filepath.Join(t.TempDir(), "missing.jsonl"), DefaultField)
	assert.ErrorIs(t, err, ErrCorpus)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFilter(t *testing.T) {
	zero, two := 0, 2
	yes, no := true, false

	samples := []Sample{
		{ID: "clean", Code: "a", Meta: Meta{ASTErrors: &zero, HasSignature: &yes}},
		{ID: "broken", Code: "b", Meta: Meta{ASTErrors: &two, HasSignature: &yes}},
		{ID: "unsigned", Code: "c", Meta: Meta{ASTErrors: &zero, HasSignature: &no}},
		{ID: "unknown", Code: "d"},
	}

	f := Filter{MaxASTErrors: &zero, RequireSignature: true}
	got := f.Apply(samples)

	ids := make([]string, len(got))
	for i, s := range got {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"clean", "unknown"}, ids)

	assert.Len(t, Filter{}.Apply(samples), 4)
}

func TestLoadHaskellDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hs"), []byte("b = 2"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hs"), []byte("a = 1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Readme"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.hs"), 0o755))

	files, err := LoadHaskellDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a", files[0].Name)
	assert.Equal(t, "a = 1", files[0].Content)
	assert.Equal(t, "b", files[1].Name)
}

func TestLoadHaskellDir_Missing(t *testing.T) {
	_, err := LoadHaskellDir(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, ErrCorpus)
}
