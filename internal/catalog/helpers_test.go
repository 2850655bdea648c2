package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFiles creates every file in files (paths relative to dir, '/'
// separated), creating parent directories as needed.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

// entryDir creates <root>/<name> with the given files and returns its path.
func entryDir(t *testing.T, root, name string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	writeFiles(t, dir, files)
	return dir
}

func buildEntry(t *testing.T, b *Builder, dir string) *Entry {
	t.Helper()
	info, err := LoadInfo(0, dir, filepath.Base(filepath.Dir(dir)))
	if err != nil {
		t.Fatalf("LoadInfo(%s): %v", dir, err)
	}
	e, err := b.Build(t.Context(), info)
	if err != nil {
		t.Fatalf("Build(%s): %v", dir, err)
	}
	return e
}

func titles(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}
