// Package media derives JPEG thumbnails for entries that have a header
// image but no thumbnail of their own. Derived thumbnails are cached on
// disk, keyed by source path and modification time.
package media
