package mediatypes

import (
	"path/filepath"
	"strings"
)

// Kind classifies an entry media file.
type Kind string

const (
	// KindImage is a raster image.
	KindImage Kind = "image"
	// KindScript is a script rendered by the client in place of an image.
	KindScript Kind = "script"
	// KindNone means no file was found.
	KindNone Kind = ""
)

// Resource names looked up in an entry directory.
const (
	ResourceThumbnail = "thumbnail"
	ResourceHeader    = "header"
)

// ImageExtensions maps file extensions to whether they are supported image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ScriptExtensions maps file extensions to script media.
var ScriptExtensions = map[string]bool{
	".js": true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".js":   "text/javascript; charset=utf-8",
	".json": "application/json",
	".txt":  "text/plain; charset=utf-8",
	".md":   "text/markdown; charset=utf-8",
	".html": "text/html; charset=utf-8",
	".pdf":  "application/pdf",
	".mp4":  "video/mp4",
	".webm": "video/webm",
}

// LookupExtensions returns the extensions checked for a media resource, in
// priority order. Script media is only considered when scripts is true.
func LookupExtensions(scripts bool) []string {
	if scripts {
		return []string{".jpg", ".js", ".png", ".webp"}
	}
	return []string{".jpg", ".png", ".webp"}
}

// FallbackExtension is reported for a resource that does not exist.
const FallbackExtension = ".png"

// KindOf classifies a file by extension.
func KindOf(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ImageExtensions[ext]:
		return KindImage
	case ScriptExtensions[ext]:
		return KindScript
	default:
		return KindNone
	}
}

// GetMimeType returns the MIME type for a given file extension.
// The extension should include the leading dot; case is ignored.
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[strings.ToLower(ext)]; ok {
		return mime
	}
	return "application/octet-stream"
}
