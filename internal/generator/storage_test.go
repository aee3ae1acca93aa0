package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFilesystemStorageRoundTrip(t *testing.T) {
	storage, err := NewFilesystemStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystemStorage: %v", err)
	}

	ctx := context.Background()
	if err := storage.Write(ctx, "posts/hello/index.html", []byte("<p>hi</p>")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := storage.Read(ctx, "posts/hello/index.html")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "<p>hi</p>" {
		t.Fatalf("unexpected content: %q", data)
	}

	if err := storage.Remove(ctx, "posts/hello/index.html"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := storage.Read(ctx, "posts/hello/index.html"); !errors.Is(err, ErrArtifactNotFound) {
		t.Fatalf("expected ErrArtifactNotFound, got %v", err)
	}
}

func TestFilesystemStorageLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewFilesystemStorage(dir)
	if err != nil {
		t.Fatalf("NewFilesystemStorage: %v", err)
	}

	if err := storage.Write(context.Background(), "index.html", []byte("content")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "index.html" {
		names := make([]string, len(entries))
		for i, entry := range entries {
			names[i] = entry.Name()
		}
		t.Fatalf("expected only the final artifact, got %v", names)
	}
}

func TestFilesystemStorageRejectsEscapingPaths(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewFilesystemStorage(filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("NewFilesystemStorage: %v", err)
	}

	for _, path := range []string{"../outside.html", "/etc/passwd", "", "."} {
		if err := storage.Write(context.Background(), path, []byte("x")); err == nil {
			t.Fatalf("expected %q to be rejected", path)
		}
	}
}

func TestFilesystemStorageRemoveMissingIsNoError(t *testing.T) {
	storage, err := NewFilesystemStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystemStorage: %v", err)
	}
	if err := storage.Remove(context.Background(), "missing.html"); err != nil {
		t.Fatalf("expected removing a missing artifact to succeed, got %v", err)
	}
}
