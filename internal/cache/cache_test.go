package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Cache {
	t.Helper()
	fc, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rc, err := NewRedisCache("redis://"+mr.Addr(), 0)
	require.NoError(t, err)

	return map[string]Cache{"file": fc, "redis": rc}
}

func TestCache_Contract(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer c.Close()

			_, err := c.Get(ctx, "resume:jane")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, c.Set(ctx, "resume:jane", []byte(`{"a":1}`), 0))
			require.NoError(t, c.Set(ctx, "github:jane", []byte(`{"b":2}`), 0))

			got, err := c.Get(ctx, "resume:jane")
			require.NoError(t, err)
			assert.JSONEq(t, `{"a":1}`, string(got))

			require.NoError(t, c.Delete(ctx, "resume:jane"))
			_, err = c.Get(ctx, "resume:jane")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.NoError(t, c.Delete(ctx, "resume:jane"), "deleting a missing key is not an error")

			require.NoError(t, c.Clear(ctx))
			_, err = c.Get(ctx, "github:jane")
			assert.ErrorIs(t, err, ErrNotFound)

			for _, bad := range []string{"", "resume", "resume:", ":jane", "resume:../x", "a/b:c"} {
				assert.ErrorIs(t, c.Set(ctx, bad, nil, 0), ErrInvalidKey, bad)
			}
		})
	}
}

func TestFileCache_Layout(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, c, Key(KindResume, "/tmp/in/jane_doe.pdf"), map[string]string{"name": "Jane"}, 0))
	require.NoError(t, SetJSON(ctx, c, Key(KindGitHub, "jane_doe.pdf"), []int{1}, 0))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o644))

	assert.FileExists(t, filepath.Join(dir, "resumecache_jane_doe.json"))
	assert.FileExists(t, filepath.Join(dir, "githubcache_jane_doe.json"))

	var got map[string]string
	require.NoError(t, GetJSON(ctx, c, "resume:jane_doe", &got))
	assert.Equal(t, "Jane", got["name"])

	require.NoError(t, c.Clear(ctx))
	assert.NoFileExists(t, filepath.Join(dir, "resumecache_jane_doe.json"))
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))

	require.NoError(t, c.Close())
	_, err = c.Get(ctx, "resume:jane_doe")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestGetJSON_CorruptEntry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "resume:x", []byte("not json"), 0))

	var v map[string]any
	err = GetJSON(ctx, c, "resume:x", &v)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRedisCache_TTLAndNamespace(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(mr.Addr(), time.Hour)
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Set(ctx, "website:jane", []byte("x"), 0))
	require.NoError(t, c.Set(ctx, "document:jane", []byte("y"), time.Minute))
	require.NoError(t, mr.Set("other-app:key", "z"))

	assert.True(t, mr.Exists(keyPrefix+"website:jane"))
	assert.Equal(t, time.Hour, mr.TTL(keyPrefix+"website:jane"))

	mr.FastForward(2 * time.Minute)
	_, err = c.Get(ctx, "document:jane")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Clear(ctx))
	assert.False(t, mr.Exists(keyPrefix+"website:jane"))
	assert.True(t, mr.Exists("other-app:key"))
}

func TestNew(t *testing.T) {
	c, err := New(Options{Backend: BackendFile, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileCache{}, c)

	_, err = New(Options{Backend: BackendRedis})
	assert.Error(t, err)

	_, err = New(Options{Backend: "memcached"})
	assert.ErrorContains(t, err, "unknown cache backend")
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "jane_doe", BaseName("/a/b/jane_doe.pdf"))
	assert.Equal(t, "cv", BaseName("s3://bucket/resumes/cv.pdf"))
	assert.Equal(t, "plain", BaseName("plain"))
}
