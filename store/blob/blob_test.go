package blob

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "jkwi_data")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "jkwi_data", []byte(`{"v":1}`)))
	got, err := s.Get(ctx, "jkwi_data")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(got))

	require.NoError(t, s.Put(ctx, "jkwi_data", []byte(`{"v":2}`)))
	got, err = s.Get(ctx, "jkwi_data")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(got))

	require.NoError(t, s.Delete(ctx, "jkwi_data"))
	_, err = s.Get(ctx, "jkwi_data")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx, "never_written"))
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	in := []byte("abc")
	require.NoError(t, m.Put(ctx, "k", in))
	in[0] = 'z'

	out, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))
}

func TestFile(t *testing.T) {
	s, err := NewFile(filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileKeysCannotEscapeDir(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFile(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(s.path("../../etc/passwd")))
}

func TestSQLite(t *testing.T) {
	s, err := OpenSQL("sqlite", filepath.Join(t.TempDir(), "jkwi.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)
}

func TestRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := DialRedis(context.Background(), mr.Addr(), "", 0, "jkwi:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)

	require.NoError(t, s.Put(context.Background(), "k", []byte("v")))
	assert.True(t, mr.Exists("jkwi:k"))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, closer, err := Open(context.Background(), Config{Driver: "etcd"})
	require.Error(t, err)
	require.NotNil(t, closer)
}

func TestOpenDefaultsToFile(t *testing.T) {
	s, closer, err := Open(context.Background(), Config{Path: t.TempDir()})
	require.NoError(t, err)
	defer closer.Close()
	_, ok := s.(*File)
	assert.True(t, ok)
}

func TestOpenFileErrorReturnsNilStore(t *testing.T) {
	s, closer, err := Open(context.Background(), Config{Driver: "file"})
	require.Error(t, err)
	require.NotNil(t, closer)
	assert.True(t, s == nil, "store must be a nil interface, got %#v", s)
}
