// Package mediatypes holds the file-extension tables shared by the catalog
// and the HTTP layer: which extensions count as entry media, the order in
// which thumbnail and header files are looked up, and MIME types for serving.
//
// Lookup order for a resource named "header":
//
//	header.jpg, header.js (only with script media enabled), header.png, header.webp
//
// The package has no dependencies so any other package may import it.
package mediatypes
