package storage

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newStore(t *testing.T) (*ImageStore, string) {
	t.Helper()
	dir := t.TempDir()
	return New(dir, slog.New(slog.NewTextHandler(io.Discard, nil))), dir
}

func TestStoreWritesUnderProductsPrefix(t *testing.T) {
	store, dir := newStore(t)

	key, err := store.Store(context.Background(), []byte("payload"), "dinner.jpg")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if !strings.HasPrefix(key, "products/") {
		t.Fatalf("expected products/ prefix, got %q", key)
	}
	if !strings.HasSuffix(key, "_dinner.jpg") {
		t.Fatalf("expected sanitized original name in key, got %q", key)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	if err != nil {
		t.Fatalf("read stored blob: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("stored payload mismatch: %q", data)
	}
	if !store.Exists(key) {
		t.Fatalf("expected Exists true for %q", key)
	}
}

func TestKeysAreUnique(t *testing.T) {
	store, _ := newStore(t)

	k1, err := store.Store(context.Background(), []byte("a"), "same.png")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	k2, err := store.Store(context.Background(), []byte("b"), "same.png")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if k1 == k2 {
		t.Fatalf("expected distinct keys for repeated names, got %q twice", k1)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store, _ := newStore(t)

	key, err := store.Store(context.Background(), []byte("x"), "photo.gif")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := store.Delete(context.Background(), key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.Exists(key) {
		t.Fatalf("expected blob gone after delete")
	}
	if err := store.Delete(context.Background(), key); err != nil {
		t.Fatalf("second delete must not fail: %v", err)
	}
}

func TestSanitizeStripsTraversal(t *testing.T) {
	store, dir := newStore(t)

	key, err := store.Store(context.Background(), []byte("x"), "../../etc/passwd")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if strings.Contains(key, "..") {
		t.Fatalf("key contains traversal: %q", key)
	}
	if _, err := os.Stat(filepath.Join(dir, "..", "etc", "passwd")); err == nil {
		t.Fatalf("wrote outside the store root")
	}
}

func TestResolveRejectsEscapingKeys(t *testing.T) {
	store, _ := newStore(t)

	if err := store.Delete(context.Background(), "../outside"); err == nil {
		t.Fatalf("expected error for key escaping the root")
	}
	if store.Exists("../outside") {
		t.Fatalf("expected Exists false for escaping key")
	}
}
