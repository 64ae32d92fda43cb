package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"tkphotos/internal/storage"
)

// Object describes a stored file. Width and Height are set only when the
// backend reports them.
type Object struct {
	Key    string
	URL    string
	Size   int64
	Width  int
	Height int
}

// FileStorage is the object store that uploaded photos land in.
type FileStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Object, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// LocalFileStorage keeps objects under a directory served at baseURL.
type LocalFileStorage struct {
	baseDir string
	baseURL string
}

func NewLocalFileStorage(baseDir, baseURL string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalFileStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	filePath, err := secureJoin(s.baseDir, key)
	if err != nil {
		return Object{}, err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return Object{}, fmt.Errorf("failed to create directories: %w", err)
	}

	dst, err := os.Create(filePath)
	if err != nil {
		return Object{}, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var written int64
	var copyErr error

	go func() {
		written, copyErr = io.Copy(dst, r)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(filePath)
			return Object{}, fmt.Errorf("failed to copy file: %w", copyErr)
		}
	case <-ctx.Done():
		_ = os.Remove(filePath)
		return Object{}, ctx.Err()
	}

	return Object{Key: key, URL: s.PublicURL(key), Size: written}, nil
}

func (s *LocalFileStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := secureJoin(s.baseDir, key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return storage.ErrFileNotFound
		}
		return err
	}
	return nil
}

func (s *LocalFileStorage) PublicURL(key string) string {
	return s.baseURL + "/" + EscapeKey(key)
}

type URLResolver interface {
	PublicURL(key string) string
}

// ResolveURL passes absolute http(s) URLs through and maps relative keys onto the store.
func ResolveURL(r URLResolver, key string) string {
	if key == "" {
		return ""
	}
	if isHTTPURL(key) {
		return key
	}
	return r.PublicURL(key)
}

func isHTTPURL(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// EscapeKey strips leading slashes and escapes every path segment of key.
func EscapeKey(key string) string {
	segments := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// secureJoin resolves key under base and rejects anything escaping it.
func secureJoin(base, key string) (string, error) {
	baseAbs, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}

	cleanRel := filepath.Clean(filepath.FromSlash(strings.TrimLeft(key, "/")))
	if cleanRel == "." || filepath.IsAbs(cleanRel) || strings.HasPrefix(cleanRel, "..") {
		return "", fmt.Errorf("%w: %q", storage.ErrInvalidPath, key)
	}

	target := filepath.Join(baseAbs, cleanRel)
	if !strings.HasPrefix(target, baseAbs+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", storage.ErrInvalidPath, key)
	}

	return target, nil
}
