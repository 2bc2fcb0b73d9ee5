package tokenstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	_, found, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Save(ctx, "tok-1"))
	token, found, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "tok-1", token)

	require.NoError(t, s.Save(ctx, "tok-2"))
	token, _, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)

	require.NoError(t, s.Delete(ctx))
	_, found, err = s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Delete(ctx), "deleting an absent token is not an error")
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory(""))
}

func TestFile_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "admin_token")
	exerciseStore(t, NewFile(path, ""))
}

func TestFile_Sealed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin_token")
	s := NewFile(path, "console-secret")
	exerciseStore(t, s)

	require.NoError(t, s.Save(context.Background(), "plain-token"))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "plain-token"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFile_WrongKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin_token")
	require.NoError(t, NewFile(path, "one").Save(context.Background(), "tok"))

	_, found, err := NewFile(path, "two").Load(context.Background())
	assert.Error(t, err)
	assert.False(t, found)
}

func TestRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	db := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = db.Close() })

	s := NewRedis(db, "console:")
	exerciseStore(t, s)

	require.NoError(t, s.Save(context.Background(), "tok"))
	assert.True(t, mr.Exists("console:"+Key))
}
