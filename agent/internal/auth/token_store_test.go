package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "agent.token")
	s, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, s.Token())

	require.NoError(t, s.Save("abc"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", again.Token())

	require.NoError(t, again.Clear())
	assert.Empty(t, again.Token())
	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
	require.NoError(t, again.Clear())
}
