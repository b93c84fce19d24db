package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoregate/scoregate/internal/apperr"
)

func writeDataset(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	body := `{"query":"capital of france","candidates":[{"id":"a","text":"Paris"},{"id":"b","text":"Lyon"}],"relevant":["a"]}

{"query":"largest ocean","candidates":[{"id":"x","text":"Pacific"}],"relevant":["x"]}
`
	rows, err := LoadFromFile(writeDataset(t, body))

	require.NoError(t, err)
	require.Len(t, rows, 2, "blank lines are skipped")
	assert.Equal(t, "capital of france", rows[0].Query)
	assert.Equal(t, []string{"a"}, rows[0].Relevant)
	assert.Equal(t, "Pacific", rows[1].Candidates[0].Text)
}

func TestLoadFromFile_MalformedLine(t *testing.T) {
	body := `{"query":"q","candidates":[{"id":"a","text":"t"}]}
{not json}
`
	_, err := LoadFromFile(writeDataset(t, body))

	var valErr *apperr.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadFromFile_MissingQuery(t *testing.T) {
	_, err := LoadFromFile(writeDataset(t, `{"candidates":[{"id":"a","text":"t"}]}`))

	var valErr *apperr.ValidationError
	require.True(t, errors.As(err, &valErr))
}

func TestLoadFromFile_Empty(t *testing.T) {
	_, err := LoadFromFile(writeDataset(t, "\n\n"))

	var cfgErr *apperr.ConfigError
	require.True(t, errors.As(err, &cfgErr))
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.jsonl"))

	var cfgErr *apperr.ConfigError
	require.True(t, errors.As(err, &cfgErr))
}
