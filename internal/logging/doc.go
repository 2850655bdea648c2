// Package logging provides leveled logging for the portfolio catalog service.
//
// Levels, from most to least verbose:
//   - DEBUG: walk and parse details, skipped references
//   - INFO: rebuild summaries, startup and shutdown steps
//   - WARN: skipped entries, unreadable directories
//   - ERROR: failed rebuilds, server errors
//   - FATAL: unrecoverable startup errors
//
// The level comes from DEBUG (any truthy value selects debug) or LOG_LEVEL.
// Packages that log a lot use a component logger:
//
//	var log = logging.With("scanner")
//	log.Warn("cannot read %s: %v", dir, err)
package logging
