// Package photo is the image selection boundary. Picked images are copied into a
// local cache directory and referred to by a file:// reference; the bytes are
// never decoded or re-encoded.
package photo

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const refScheme = "file://"

var (
	// ErrCancelled means the user closed the picker without choosing an image.
	ErrCancelled = errors.New("photo selection cancelled")
	// ErrNotImage means the chosen file is not an image.
	ErrNotImage = errors.New("selected file is not an image")
)

// Cache copies picked images into Dir on Fs.
type Cache struct {
	fs  afero.Fs
	dir string
}

func NewCache(fs afero.Fs, dir string) *Cache {
	return &Cache{fs: fs, dir: dir}
}

// NewOsCache caches on the real filesystem.
func NewOsCache(dir string) *Cache {
	return NewCache(afero.NewOsFs(), dir)
}

// Import copies the image at srcPath into the cache and returns its reference.
// An empty srcPath is treated as a cancelled selection.
func (c *Cache) Import(srcPath string) (string, error) {
	srcPath = strings.TrimSpace(srcPath)
	if srcPath == "" {
		return "", ErrCancelled
	}

	src, err := c.fs.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer src.Close()

	mime, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detect type of %s: %w", srcPath, err)
	}
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", fmt.Errorf("%w: %s is %s", ErrNotImage, srcPath, mime.String())
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind %s: %w", srcPath, err)
	}

	if err := c.fs.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("create photo cache: %w", err)
	}

	dstPath := filepath.Join(c.dir, uuid.NewString()+mime.Extension())
	dst, err := c.fs.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dstPath, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		c.fs.Remove(dstPath)
		return "", fmt.Errorf("copy photo: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", dstPath, err)
	}

	abs, err := filepath.Abs(dstPath)
	if err != nil {
		abs = dstPath
	}
	return refScheme + filepath.ToSlash(abs), nil
}

// Resolve returns the local path behind ref and whether it can still be loaded.
func (c *Cache) Resolve(ref string) (string, bool) {
	if !strings.HasPrefix(ref, refScheme) {
		return "", false
	}
	path := filepath.FromSlash(strings.TrimPrefix(ref, refScheme))
	info, err := c.fs.Stat(path)
	if err != nil || info.IsDir() {
		return path, false
	}
	return path, true
}

// Discard removes a cached image. References outside the cache directory are left alone.
func (c *Cache) Discard(ref string) error {
	path, ok := c.Resolve(ref)
	if !ok {
		return nil
	}
	dir, err := filepath.Abs(c.dir)
	if err != nil {
		return err
	}
	if rel, err := filepath.Rel(dir, path); err != nil || strings.HasPrefix(rel, "..") {
		return nil
	}
	return c.fs.Remove(path)
}
