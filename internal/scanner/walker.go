package scanner

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"portfolio/internal/filesystem"
	"portfolio/internal/logging"
	"portfolio/internal/metrics"
)

var log = logging.With("scanner")

// File is a regular file found by a walk.
type File struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// Predicate decides whether a file path is included in a walk.
type Predicate func(path string) bool

// ErrorHandler receives directories that could not be read.
type ErrorHandler func(dir string, err error)

// AcceptAll includes every file.
func AcceptAll(string) bool { return true }

// NotHidden excludes files whose base name is hidden. The walker already skips
// hidden entries; this is for filtering path lists from other sources.
func NotHidden(path string) bool {
	return !IsHidden(filepath.Base(path))
}

// WithExtensions includes files whose extension (case-insensitive, with dot)
// is one of exts.
func WithExtensions(exts ...string) Predicate {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[strings.ToLower(e)] = true
	}
	return func(path string) bool {
		return set[strings.ToLower(filepath.Ext(path))]
	}
}

// IsHidden reports whether a file or directory name is hidden.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Walker recursively lists files under a root directory.
type Walker struct {
	root    string
	accept  Predicate
	onError ErrorHandler
	retry   filesystem.RetryConfig
}

// WalkerOption configures a Walker
type WalkerOption func(*Walker)

// WithErrorHandler replaces the default handler, which logs a warning and
// counts the failure.
func WithErrorHandler(h ErrorHandler) WalkerOption {
	return func(w *Walker) {
		w.onError = h
	}
}

// WithRetryConfig sets the retry policy used for directory reads.
func WithRetryConfig(cfg filesystem.RetryConfig) WalkerOption {
	return func(w *Walker) {
		w.retry = cfg
	}
}

// NewWalker creates a Walker over root. A nil accept includes every file.
func NewWalker(root string, accept Predicate, opts ...WalkerOption) *Walker {
	if accept == nil {
		accept = AcceptAll
	}
	w := &Walker{
		root:    root,
		accept:  accept,
		onError: logDirectoryError,
		retry:   filesystem.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Root returns the directory the walker starts from.
func (w *Walker) Root() string {
	return w.root
}

func logDirectoryError(dir string, err error) {
	metrics.ScannerDirectoryErrors.Inc()
	log.Warn("skipping unreadable directory %s: %v", dir, err)
}

// Walk returns every accepted regular file under the root. Files appear in
// depth-first order with siblings sorted by name, so two walks over an
// unchanged tree return identical slices. The only error returned is the
// context's.
func (w *Walker) Walk(ctx context.Context) ([]File, error) {
	var files []File
	stack := []string{w.root}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return files, err
		}

		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := filesystem.ReadDirWithRetry(dir, w.retry)
		if err != nil {
			w.onError(dir, err)
			continue
		}

		// entries are sorted; push subdirectories in reverse so the
		// lexically first one is popped next
		var subdirs []string
		for _, entry := range entries {
			if IsHidden(entry.Name()) {
				continue
			}
			path := filepath.Join(dir, entry.Name())

			if entry.IsDir() {
				subdirs = append(subdirs, path)
				continue
			}
			if !w.accept(path) {
				continue
			}

			info, err := entry.Info()
			if err == nil && !info.Mode().IsRegular() {
				// symlinks and special files count only when they resolve to a
				// regular file; the walk never descends through a link
				info, err = filesystem.StatWithRetry(path, w.retry)
				if err == nil && !info.Mode().IsRegular() {
					continue
				}
			}
			if err != nil {
				log.Debug("cannot stat %s: %v", path, err)
				continue
			}
			files = append(files, File{Path: path, ModTime: info.ModTime(), Size: info.Size()})
		}

		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}

	metrics.ScannerFilesScanned.Add(float64(len(files)))
	return files, nil
}

// List returns the paths of every accepted file under the root.
func (w *Walker) List(ctx context.Context) ([]string, error) {
	files, err := w.Walk(ctx)
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths, err
}
