// Package catalog turns a content directory into an in-memory catalog of
// portfolio entries and keeps it current.
//
// Each entry directory holds an "info" metadata file and optional media:
//
//	<root>/<entry>/info                  required, must define Title
//	<root>/<entry>/thumbnail.{jpg,png,webp}
//	<root>/<entry>/header.{jpg,js,png,webp}
//	<root>/<entry>/sections/0, 1, 2, ... contiguous from 0
//	<root>/<entry>/text/<file>           first file by name is the body
//	<root>/<entry>/assets/<name>         looked up by exact name on demand
//	<root>/<entry>/content/<file>        targets of '#file' references
//
// In the categorized layout entries live one level deeper, under
// <root>/<category>/<entry>.
//
// A rebuild lists the entry directories in name order, gives each the id of
// its position in that listing, builds every entry and publishes the result
// as a new Snapshot with a single atomic pointer store. Readers load the
// current snapshot without locking and never observe a partially built one.
// Entries that fail to build are logged and left out; a root directory that
// cannot be listed fails the rebuild and keeps the previous snapshot. While
// the root stays unreadable the worker re-queues a rebuild every
// Config.RetryInterval, since a restored root holding only old files never
// looks changed to the poller.
//
// A Title that is empty or only whitespace counts as missing. This is
// stricter than accepting any Title key: an entry without a displayable
// title is left out rather than published blank.
//
// Rebuilds are requested with TriggerReload, normally by a scanner.Poller or
// the HTTP reload endpoint. Requests feed a queue of depth one served by a
// single worker, so a burst of requests during a rebuild results in exactly
// one more rebuild.
//
// Ids are positions, not identities: adding or removing a directory shifts
// the ids of every entry after it.
package catalog
