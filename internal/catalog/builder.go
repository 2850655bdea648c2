package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"portfolio/internal/filesystem"
	"portfolio/internal/logging"
	"portfolio/internal/metadata"
	"portfolio/internal/scanner"
)

var log = logging.With("catalog")

// CategoryFallback decides what an entry's Categories become when its info
// file has no Categories property.
type CategoryFallback int

const (
	// FallbackEmpty leaves Categories empty.
	FallbackEmpty CategoryFallback = iota
	// FallbackParentDirectory uses the name of the entry's parent directory.
	FallbackParentDirectory
)

// ParseCategoryFallback accepts "empty" and "parent".
func ParseCategoryFallback(s string) (CategoryFallback, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "empty":
		return FallbackEmpty, nil
	case "parent", "parent_directory":
		return FallbackParentDirectory, nil
	default:
		return FallbackEmpty, fmt.Errorf("unknown category fallback %q", s)
	}
}

func (f CategoryFallback) String() string {
	if f == FallbackParentDirectory {
		return "parent"
	}
	return "empty"
}

// Info is the raw material for one entry: where it lives and its parsed,
// reference-resolved info attributes.
type Info struct {
	ID         int
	Name       string
	Category   string
	Directory  string
	Attributes metadata.Attributes
}

// LoadInfo reads <dir>/info, resolving references against <dir>/content.
func LoadInfo(id int, dir, category string) (Info, error) {
	attrs, err := metadata.Load(filepath.Join(dir, InfoFile), filepath.Join(dir, ContentDir))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrMissingInfo, err)
	}
	return Info{
		ID:         id,
		Name:       filepath.Base(dir),
		Category:   category,
		Directory:  dir,
		Attributes: attrs,
	}, nil
}

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	CategoryFallback CategoryFallback
	ScriptMedia      bool
	Retry            filesystem.RetryConfig
}

// Builder turns an Info into an Entry.
type Builder struct {
	fallback    CategoryFallback
	scriptMedia bool
	retry       filesystem.RetryConfig
}

// NewBuilder creates a Builder. A zero Retry uses the default retry policy.
func NewBuilder(opts BuilderOptions) *Builder {
	retry := opts.Retry
	if retry == (filesystem.RetryConfig{}) {
		retry = filesystem.DefaultRetryConfig()
	}
	return &Builder{
		fallback:    opts.CategoryFallback,
		scriptMedia: opts.ScriptMedia,
		retry:       retry,
	}
}

// Build assembles the entry described by info. It fails with a
// *MissingPropertyError when Title is absent or blank, and with the context
// error when ctx is done.
func (b *Builder) Build(ctx context.Context, info Info) (*Entry, error) {
	title, _ := info.Attributes.String(KeyTitle)
	if strings.TrimSpace(title) == "" {
		return nil, &MissingPropertyError{Name: KeyTitle}
	}

	categories, ok := info.Attributes.List(KeyCategories)
	if !ok {
		categories = b.fallbackCategories(info)
	}

	likes, ok := info.Attributes.Int(KeyLikes)
	if !ok && info.Attributes.Has(KeyLikes) {
		log.Debug("entry %s: ignoring non-numeric Likes", info.Name)
	}

	sections, err := b.readSections(ctx, info.Directory)
	if err != nil {
		return nil, err
	}

	extra := info.Attributes.Without(KeyTitle, KeyCategories, KeyLikes)
	if len(extra) > 0 {
		log.Debug("entry %s: extra attributes %v", info.Name, extra.Keys())
	}

	return &Entry{
		ID:          info.ID,
		Name:        info.Name,
		Category:    info.Category,
		Title:       title,
		Categories:  categories,
		Likes:       likes,
		Attributes:  extra,
		Sections:    sections,
		Directory:   info.Directory,
		TextFiles:   b.readTextFiles(info.Directory),
		scriptMedia: b.scriptMedia,
	}, nil
}

func (b *Builder) fallbackCategories(info Info) []string {
	if b.fallback != FallbackParentDirectory {
		return []string{}
	}
	parent := info.Category
	if parent == "" {
		parent = filepath.Base(filepath.Dir(info.Directory))
	}
	return []string{parent}
}

// readSections decodes sections/0, sections/1, ... up to the first index
// with no file. Files that exist but cannot be read or have no type are
// skipped without ending the scan.
func (b *Builder) readSections(ctx context.Context, dir string) ([]Section, error) {
	sectionsDir := filepath.Join(dir, SectionsDir)
	contentDir := filepath.Join(dir, ContentDir)

	var sections []Section
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(sectionsDir, strconv.Itoa(i))
		if _, err := filesystem.StatWithRetry(path, b.retry); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				log.Warn("stopping section scan at %s: %v", path, err)
			}
			break
		}

		attrs, err := metadata.Load(path, contentDir)
		if err != nil {
			log.Warn("skipping unreadable section %s: %v", path, err)
			continue
		}

		sectionType, _ := attrs.String(KeySectionType)
		if sectionType == "" {
			log.Warn("skipping section %s: no %s property", path, KeySectionType)
			continue
		}

		sections = append(sections, Section{
			Index:      i,
			Type:       sectionType,
			Attributes: attrs.Without(KeySectionType),
		})
	}
	return sections, nil
}

func (b *Builder) readTextFiles(dir string) []string {
	textDir := filepath.Join(dir, TextDir)
	entries, err := filesystem.ReadDirWithRetry(textDir, b.retry)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn("cannot list text files in %s: %v", textDir, err)
		}
		return nil
	}

	var files []string
	for _, entry := range entries {
		if scanner.IsHidden(entry.Name()) || !entry.Type().IsRegular() {
			continue
		}
		files = append(files, filepath.Join(textDir, entry.Name()))
	}
	sort.Strings(files)
	return files
}
