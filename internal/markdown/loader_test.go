package markdown

import (
	"context"
	"testing"
	"testing/fstest"
)

func TestLoaderFilesMatchesPatternNonRecursive(t *testing.T) {
	filesystem := fstest.MapFS{
		"alpha.md":       {Data: []byte("alpha")},
		"beta.md":        {Data: []byte("beta")},
		"notes.txt":      {Data: []byte("ignored")},
		"nested/deep.md": {Data: []byte("ignored")},
	}

	loader := NewLoader(filesystem, "")
	results, err := loader.Files(context.Background())
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 files, got %d", len(results))
	}
	if results[0].Name != "alpha.md" || results[1].Name != "beta.md" {
		t.Fatalf("expected name-ordered results, got %v, %v", results[0].Name, results[1].Name)
	}
	if string(results[0].Source) != "alpha" {
		t.Fatalf("expected file contents to be read, got %q", results[0].Source)
	}
}

func TestLoaderFilesEmptyDirectory(t *testing.T) {
	loader := NewLoader(fstest.MapFS{}, "*.md")
	results, err := loader.Files(context.Background())
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestLoaderFilesHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := NewLoader(fstest.MapFS{"a.md": {Data: []byte("a")}}, "")
	if _, err := loader.Files(ctx); err == nil {
		t.Fatal("expected context error")
	}
}
