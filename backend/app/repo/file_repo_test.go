package repo

import (
	"os"
	"path/filepath"
	"testing"

	"jkwi-ims/backend/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordsFiltersByPrefix(t *testing.T) {
	r := NewFileRepository(t.TempDir())
	require.NoError(t, r.Write("member_A.json", map[string]any{"member_id": "A"}))
	require.NoError(t, r.Write("user_1.json", map[string]any{"id": "1"}))
	require.NoError(t, os.WriteFile(filepath.Join(r.Dir(), "notes.txt"), []byte("x"), 0o644))

	recs, err := r.Records("member_", nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "A", recs[0].String("member_id"))

	all, err := r.Records("", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRecordsCorruptPolicy(t *testing.T) {
	r := NewFileRepository(t.TempDir())
	require.NoError(t, r.Write("application_1.json", map[string]any{"application_id": "1"}))
	require.NoError(t, os.WriteFile(filepath.Join(r.Dir(), "application_2.json"), []byte("{oops"), 0o644))

	_, err := r.Records("", nil)
	require.ErrorIs(t, err, ErrCorrupt)

	var skipped []string
	recs, err := r.Records("", func(name string, _ error) { skipped = append(skipped, name) })
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, []string{"application_2.json"}, skipped)
}

func TestUserRepository(t *testing.T) {
	users := NewUserRepository(NewFileRepository(t.TempDir()))
	require.NoError(t, users.Create(&models.User{ID: "abc", Username: "winner001"}))

	u, err := users.FindByUsername("winner001")
	require.NoError(t, err)
	assert.Equal(t, "abc", u.ID)

	_, err = users.FindByUsername("ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
