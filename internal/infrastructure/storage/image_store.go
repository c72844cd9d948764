// Package storage implements the image blob store on the local filesystem,
// rooted at the public storage directory the HTTP server exposes.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const keyPrefix = "products"

// ImageStore stores uploaded product images under root. Keys are relative
// paths like "products/1693000000_ab12cd34_dinner.jpg" and are safe to
// serve directly from the public tree.
type ImageStore struct {
	root   string
	logger *slog.Logger
}

// New creates an image store rooted at root.
func New(root string, logger *slog.Logger) *ImageStore {
	return &ImageStore{root: root, logger: logger}
}

// Store writes data under a freshly generated key and returns it. The key
// combines a timestamp, a random prefix and the sanitized original name so
// it is unique and traversal-safe.
func (s *ImageStore) Store(ctx context.Context, data []byte, originalName string) (string, error) {
	key := fmt.Sprintf("%s/%d_%s_%s",
		keyPrefix,
		time.Now().Unix(),
		strings.Split(uuid.NewString(), "-")[0],
		sanitizeName(originalName),
	)

	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := atomicWriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	s.logger.InfoContext(ctx, "Image stored",
		slog.String("key", key),
		slog.Int("bytes", len(data)),
	)
	return key, nil
}

// Delete removes the blob for key. Deleting an absent key is not an error.
func (s *ImageStore) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("delete image: %w", err)
	}

	s.logger.InfoContext(ctx, "Image deleted",
		slog.String("key", key),
	)
	return nil
}

// Exists reports whether a blob is present for key.
func (s *ImageStore) Exists(key string) bool {
	path, err := s.resolve(key)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// resolve maps a key onto the filesystem and rejects anything escaping the
// store root.
func (s *ImageStore) resolve(key string) (string, error) {
	root, err := filepath.Abs(s.root)
	if err != nil {
		return "", err
	}
	path := filepath.Join(root, filepath.FromSlash(key))
	if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid image key %q", key)
	}
	return path, nil
}

// sanitizeName strips path components and collapses anything outside a safe
// character set.
func sanitizeName(name string) string {
	name = filepath.Base(filepath.FromSlash(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		out = "image"
	}
	return out
}

func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	// Create temp file in same dir so os.Rename is atomic.
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
