package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestImageExt(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"photo.JPG", ".jpg"},
		{"photo.png", ".png"},
		{"archive.tar.gz", ".gz"},
		{"noextension", ".jpg"},
		{"", ".jpg"},
	}
	for _, tt := range tests {
		if got := imageExt(tt.in); got != tt.want {
			t.Errorf("imageExt(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestDiskImageStore_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := newDiskImageStore(dir)
	if err != nil {
		t.Fatalf("newDiskImageStore failed: %v", err)
	}

	name, err := store.Save(context.Background(), ".png", []byte("image-bytes"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Errorf("expected .png suffix, got %q", name)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("saved file not readable: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("unexpected file content: %q", data)
	}

	if err := store.Delete(context.Background(), name); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
		t.Error("expected file to be removed")
	}

	// Deleting an already-gone image is not an error.
	if err := store.Delete(context.Background(), name); err != nil {
		t.Errorf("expected nil for missing file, got %v", err)
	}
}

func TestDiskImageStore_UniqueNames(t *testing.T) {
	store, err := newDiskImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("newDiskImageStore failed: %v", err)
	}

	a, err := store.Save(context.Background(), ".jpg", []byte("a"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	b, err := store.Save(context.Background(), ".jpg", []byte("b"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if a == b {
		t.Errorf("expected unique names, both were %q", a)
	}
}

func TestDiskImageStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	if _, err := newDiskImageStore(dir); err != nil {
		t.Fatalf("newDiskImageStore failed: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("expected upload dir to be created: %v", err)
	}
}
