// Package metadata decodes the line-oriented "Key:Value" files that describe
// catalog entries and their sections.
//
// Decoding happens in two passes. Parse turns text into Attributes without
// touching the filesystem: every line containing a colon contributes one
// attribute (key before the first colon, value after it, both trimmed), and
// every other line is ignored. Resolve then rewrites reference values, those
// starting with '#', by reading the named file relative to a content
// directory. A reference that cannot be read leaves the attribute absent.
//
//	Title:Aurora
//	Categories:web, motion
//	Description:#aurora/description.md
package metadata
