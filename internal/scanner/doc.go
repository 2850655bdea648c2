// Package scanner lists files under a content root and detects changes to them.
//
// Walker performs a recursive listing with an explicit work-list instead of
// call-stack recursion. Children are visited in name order, hidden entries
// (names starting with '.') are skipped at every level and symlinks are not
// followed. A directory that cannot be read is reported to the walker's error
// handler and skipped; the walk carries on with its siblings.
//
// Poller runs a Walker on a fixed interval and compares file modification
// times against a baseline recorded at the last detected change. Any file
// newer than the baseline fires the change callback once and moves the
// baseline to the current time. It never diffs file sets, so a deletion on
// its own goes unnoticed until another file changes or a reload is requested.
package scanner
