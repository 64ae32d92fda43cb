package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tkphotos/internal/storage"
	filestorage "tkphotos/internal/storage/filestorage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFileStorage(t *testing.T) (*filestorage.LocalFileStorage, string) {
	t.Helper()

	tempDir := t.TempDir()

	fs, err := filestorage.NewLocalFileStorage(tempDir, "http://test.local/uploads/")
	require.NoError(t, err)

	return fs, tempDir
}

func TestLocalFileStorage_Put(t *testing.T) {
	fs, tempDir := setupFileStorage(t)
	ctx := context.Background()

	t.Run("successful put", func(t *testing.T) {
		obj, err := fs.Put(ctx, "12/IMG 1.jpg", strings.NewReader("jpeg bytes"), 10, "image/jpeg")
		require.NoError(t, err)

		assert.Equal(t, "12/IMG 1.jpg", obj.Key)
		assert.Equal(t, int64(10), obj.Size)
		assert.Equal(t, "http://test.local/uploads/12/IMG%201.jpg", obj.URL)

		content, err := os.ReadFile(filepath.Join(tempDir, "12", "IMG 1.jpg"))
		require.NoError(t, err)
		assert.Equal(t, "jpeg bytes", string(content))
	})

	t.Run("path traversal rejected", func(t *testing.T) {
		_, err := fs.Put(ctx, "../outside.jpg", strings.NewReader("x"), 1, "image/jpeg")
		assert.ErrorIs(t, err, storage.ErrInvalidPath)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := fs.Put(cctx, "12/late.jpg", strings.NewReader("x"), 1, "image/jpeg")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLocalFileStorage_Delete(t *testing.T) {
	fs, _ := setupFileStorage(t)
	ctx := context.Background()

	_, err := fs.Put(ctx, "a/b.png", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)

	require.NoError(t, fs.Delete(ctx, "a/b.png"))
	assert.ErrorIs(t, fs.Delete(ctx, "a/b.png"), storage.ErrFileNotFound)
}

func TestEscapeKey(t *testing.T) {
	assert.Equal(t, "weddings/IMG_1234.jpg", filestorage.EscapeKey("/weddings/IMG_1234.jpg"))
	assert.Equal(t, "a%20b/c%23d.jpg", filestorage.EscapeKey("a b/c#d.jpg"))
}

func TestResolveURL(t *testing.T) {
	fs, _ := setupFileStorage(t)

	tests := []struct {
		key  string
		want string
	}{
		{"https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"HTTP://cdn.example.com/a.jpg", "HTTP://cdn.example.com/a.jpg"},
		{"7/my photo.jpg", "http://test.local/uploads/7/my%20photo.jpg"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, filestorage.ResolveURL(fs, tt.key), tt.key)
	}
}
