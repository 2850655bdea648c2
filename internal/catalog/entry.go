package catalog

import (
	"path/filepath"
	"strings"

	"portfolio/internal/filesystem"
	"portfolio/internal/mediatypes"
	"portfolio/internal/metadata"
	"portfolio/internal/scanner"
)

// Well-known names inside an entry directory
const (
	InfoFile    = "info"
	ContentDir  = "content"
	SectionsDir = "sections"
	TextDir     = "text"
	AssetsDir   = "assets"
)

// Well-known metadata keys
const (
	KeyTitle       = "Title"
	KeyCategories  = "Categories"
	KeyDescription = "Description"
	KeyLikes       = "Likes"
	KeySectionType = "type"
)

// Section is one numbered sub-record of an entry.
type Section struct {
	Index      int
	Type       string
	Attributes metadata.Attributes
}

// Media locates an optional media file of an entry. When Exists is false,
// Path is where the fallback file would be.
type Media struct {
	Path   string
	Exists bool
	Kind   mediatypes.Kind
}

// Entry is one catalog record built from one entry directory. Entries are
// shared between readers of a snapshot and must be treated as read-only.
type Entry struct {
	ID         int
	Name       string
	Category   string
	Title      string
	Categories []string
	Likes      int

	// Attributes holds every info property except Title, Categories and Likes.
	Attributes metadata.Attributes
	Sections   []Section

	Directory string
	// TextFiles lists the files of the text directory, sorted by name.
	TextFiles []string

	scriptMedia bool
}

// Description returns the Description attribute, or "".
func (e *Entry) Description() string {
	return e.Attributes[KeyDescription]
}

// Thumbnail looks in the entry directory for its thumbnail image.
func (e *Entry) Thumbnail() Media {
	return findMedia(e.Directory, mediatypes.ResourceThumbnail, false)
}

// Header looks in the entry directory for its header media. A header script
// is only considered when script media is enabled.
func (e *Entry) Header() Media {
	return findMedia(e.Directory, mediatypes.ResourceHeader, e.scriptMedia)
}

// IsScript reports whether the media is a script rather than an image.
func (m Media) IsScript() bool {
	return m.Kind == mediatypes.KindScript
}

func findMedia(dir, resource string, scripts bool) Media {
	for _, ext := range mediatypes.LookupExtensions(scripts) {
		path := filepath.Join(dir, resource+ext)
		if filesystem.Exists(path) {
			return Media{Path: path, Exists: true, Kind: mediatypes.KindOf(path)}
		}
	}
	return Media{Path: filepath.Join(dir, resource+mediatypes.FallbackExtension)}
}

// Asset returns the path of the asset with exactly the given file name. The
// assets directory is listed on every call.
func (e *Entry) Asset(name string) (string, error) {
	if name == "" || scanner.IsHidden(name) || strings.ContainsAny(name, `/\`) {
		return "", ErrAssetNotFound
	}

	dir := filepath.Join(e.Directory, AssetsDir)
	entries, err := filesystem.ReadDirWithRetry(dir, filesystem.DefaultRetryConfig())
	if err != nil {
		log.Debug("cannot list assets of %s: %v", e.Name, err)
		return "", ErrAssetNotFound
	}

	for _, entry := range entries {
		if entry.IsDir() || scanner.IsHidden(entry.Name()) {
			continue
		}
		if entry.Name() == name {
			return filepath.Join(dir, name), nil
		}
	}
	return "", ErrAssetNotFound
}

// Assets lists the asset file names, sorted.
func (e *Entry) Assets() []string {
	entries, err := filesystem.ReadDirWithRetry(filepath.Join(e.Directory, AssetsDir), filesystem.DefaultRetryConfig())
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && !scanner.IsHidden(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	return names
}

// Body returns the contents of the first text file.
func (e *Entry) Body() (string, bool) {
	if len(e.TextFiles) == 0 {
		return "", false
	}
	data, err := filesystem.ReadFileWithRetry(e.TextFiles[0], filesystem.DefaultRetryConfig())
	if err != nil {
		log.Warn("cannot read body of %s: %v", e.Name, err)
		return "", false
	}
	return string(data), true
}
