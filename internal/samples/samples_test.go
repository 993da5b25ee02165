package samples

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/ctoolsd/internal/logging"
)

func TestLoad_EmbeddedCorpus(t *testing.T) {
	c, err := Load(context.Background(), "", nil)
	require.NoError(t, err)

	assert.Positive(t, c.Len(), "embedded corpus must not be empty")
	for _, s := range c.Samples() {
		assert.NotEmpty(t, s.Code)
		assert.NotEmpty(t, s.Assembly)
	}
	assert.True(t, json.Valid(c.JSON()))
}

func TestLoad_OverridePath(t *testing.T) {
	raw := `[{"code": "int x;", "assembly": "0: c3 ret"}]`
	path := filepath.Join(t.TempDir(), "samples.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	c, err := Load(context.Background(), path, nil)
	require.NoError(t, err)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, "int x;", c.Samples()[0].Code)
	assert.Equal(t, raw, string(c.JSON()))
}

func TestLoad_MissingOverride(t *testing.T) {
	tl := logging.NewTestLogger()
	path := filepath.Join(t.TempDir(), "absent.json")

	c, err := Load(context.Background(), path, tl.Logger)
	require.NoError(t, err, "a missing optional file must not block startup")

	assert.Zero(t, c.Len())
	assert.Equal(t, "[]", string(c.JSON()))
	tl.AssertLogged(t, zapcore.WarnLevel, "samples file not found")
}

func TestLoad_MalformedOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Load(context.Background(), path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing samples file")
}

func TestLoad_UnreadableOverride(t *testing.T) {
	_, err := Load(context.Background(), t.TempDir(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading samples file")
}

func TestCollection_SamplesIsCopy(t *testing.T) {
	c, err := Load(context.Background(), "", nil)
	require.NoError(t, err)

	got := c.Samples()
	require.NotEmpty(t, got)
	got[0].Code = "mutated"

	assert.NotEqual(t, "mutated", c.Samples()[0].Code)
}
