package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
)

// writeTree creates files (with parent directories) under root.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(f), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func relPaths(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatal(err)
		}
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestWalkerListsFilesRecursively(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"b/info",
		"a/info",
		"a/sections/0",
		"a/sections/1",
		"top.txt",
	)

	paths, err := NewWalker(root, nil).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	want := []string{"top.txt", "a/info", "a/sections/0", "a/sections/1", "b/info"}
	if got := relPaths(t, root, paths); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestWalkerSkipsHiddenEntries(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		".git/config",
		"a/.DS_Store",
		"a/.hidden/info",
		"a/info",
	)

	paths, err := NewWalker(root, nil).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := relPaths(t, root, paths); !reflect.DeepEqual(got, []string{"a/info"}) {
		t.Errorf("List() = %v, want [a/info]", got)
	}
}

func TestWalkerAppliesPredicate(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/header.JPG", "a/thumbnail.png", "a/info", "b/clip.js")

	paths, err := NewWalker(root, WithExtensions(".jpg", ".png")).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"a/header.JPG", "a/thumbnail.png"}
	if got := relPaths(t, root, paths); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestWalkerDoesNotReturnDirectories(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "empty", "deeper"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := NewWalker(root, nil).Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}
}

func TestWalkerReportsUnreadableRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	var mu sync.Mutex
	var reported []string
	w := NewWalker(missing, nil, WithErrorHandler(func(dir string, err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = append(reported, dir)
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("unexpected error: %v", err)
		}
	}))

	files, err := w.Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk should absorb directory errors, got %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}
	if !reflect.DeepEqual(reported, []string{missing}) {
		t.Errorf("reported = %v, want [%s]", reported, missing)
	}
}

func TestWalkerSkipsUnreadableSubtreeAndContinues(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/info", "c/info")
	// a dangling directory symlink is neither walked nor reported as a file
	if err := os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "b")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	paths, err := NewWalker(root, nil).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"a/info", "c/info"}
	if got := relPaths(t, root, paths); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestWalkerFollowsFileSymlinksOnly(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeTree(t, outside, "real.txt", "dir/inner.txt")
	writeTree(t, root, "a/info")

	if err := os.Symlink(filepath.Join(outside, "real.txt"), filepath.Join(root, "a", "link.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(outside, "dir"), filepath.Join(root, "a", "linkdir")); err != nil {
		t.Fatal(err)
	}

	paths, err := NewWalker(root, nil).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"a/info", "a/link.txt"}
	if got := relPaths(t, root, paths); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestWalkerDeepTree(t *testing.T) {
	root := t.TempDir()
	parts := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		parts = append(parts, "d")
	}
	deep := filepath.Join(parts...)
	writeTree(t, root, filepath.ToSlash(filepath.Join(deep, "leaf")))

	files, err := NewWalker(root, nil).Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
}

func TestWalkerCancellation(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/info")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWalker(root, nil).Walk(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Walk with canceled context = %v, want context.Canceled", err)
	}
}

func TestWalkerDeterministic(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "z/1", "m/2", "a/3", "a/b/4", "a/a/5")

	w := NewWalker(root, nil)
	first, err := w.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := w.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("walks differ: %v vs %v", first, second)
	}
}
