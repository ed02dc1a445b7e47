package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "key")
	require.NoError(t, os.WriteFile(file, []byte("  from-file\n"), 0o600))

	t.Setenv("ASKME_TEST_SECRET", " from-env ")

	tests := []struct {
		name string
		src  Source
		want string
	}{
		{name: "file wins", src: Source{File: file, Env: "ASKME_TEST_SECRET", Value: "inline"}, want: "from-file"},
		{name: "env over value", src: Source{Env: "ASKME_TEST_SECRET", Value: "inline"}, want: "from-env"},
		{name: "value fallback", src: Source{Env: "ASKME_TEST_UNSET", Value: " inline "}, want: "inline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, []byte("\n"), 0o600))

	_, err := Load(Source{Name: "gemini api key"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini api key is not configured")

	_, err = Load(Source{Name: "admin token", File: empty})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")

	_, err = Load(Source{File: filepath.Join(dir, "missing")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading secret")
}

func TestOptional(t *testing.T) {
	got, err := Optional(Source{Name: "admin token"})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Optional(Source{File: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)

	got, err = Optional(Source{Value: "token"})
	require.NoError(t, err)
	assert.Equal(t, "token", got)
}
