package metadata

import (
	"fmt"
	"path/filepath"
	"strings"

	"portfolio/internal/filesystem"
	"portfolio/internal/logging"
)

// ReferencePrefix marks a value that names a file to inline.
const ReferencePrefix = "#"

// ReadFunc reads the full contents of a file.
type ReadFunc func(path string) ([]byte, error)

var log = logging.With("metadata")

// Parse decodes "Key:Value" lines into Attributes. Lines without a colon or
// with an empty key are skipped. A repeated key keeps its last value.
func Parse(text string) Attributes {
	attrs := make(Attributes)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		attrs[key] = strings.TrimSpace(value)
	}
	return attrs
}

// IsReference reports whether value is a file reference.
func IsReference(value string) bool {
	return strings.HasPrefix(value, ReferencePrefix)
}

// Resolve returns a copy of the attributes with every reference value replaced
// by the contents of the referenced file under contentDir. A leading slash is
// relative to contentDir. References that are empty, escape contentDir, or
// cannot be read are dropped.
func (a Attributes) Resolve(contentDir string, read ReadFunc) Attributes {
	out := make(Attributes, len(a))
	for key, value := range a {
		if !IsReference(value) {
			out[key] = value
			continue
		}

		target, ok := referencePath(contentDir, strings.TrimPrefix(value, ReferencePrefix))
		if !ok {
			log.Debug("ignoring reference %q for %s: not a path inside %s", value, key, contentDir)
			continue
		}

		data, err := read(target)
		if err != nil {
			log.Debug("reference %q for %s unreadable: %v", value, key, err)
			continue
		}
		out[key] = string(data)
	}
	return out
}

// referencePath joins ref onto contentDir, rejecting refs that leave it.
func referencePath(contentDir, ref string) (string, bool) {
	// "#/x.txt" names x.txt at the top of contentDir
	ref = strings.TrimLeft(strings.TrimSpace(ref), "/")
	if ref == "" {
		return "", false
	}
	ref = filepath.FromSlash(ref)
	if !filepath.IsLocal(ref) {
		return "", false
	}
	return filepath.Join(contentDir, ref), true
}

// Load reads the metadata file at path and resolves its references against
// contentDir. Only a failure to read path itself is returned as an error.
func Load(path, contentDir string) (Attributes, error) {
	retry := filesystem.DefaultRetryConfig()
	data, err := filesystem.ReadFileWithRetry(path, retry)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata %s: %w", path, err)
	}

	read := func(p string) ([]byte, error) {
		return filesystem.ReadFileWithRetry(p, retry)
	}
	return Parse(string(data)).Resolve(contentDir, read), nil
}
