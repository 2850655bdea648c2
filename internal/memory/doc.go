// Package memory keeps the server inside its container memory budget.
//
// [ConfigureFromEnv] sets GOMEMLIMIT from MEMORY_LIMIT and MEMORY_RATIO when
// GOMEMLIMIT is not already set:
//
//	env:
//	  - name: MEMORY_LIMIT
//	    valueFrom:
//	      resourceFieldRef:
//	        resource: limits.memory
//
// A [Monitor] samples heap usage against that limit. Thumbnail derivation
// asks [Monitor.ShouldThrottle] before decoding a new image, so a burst of
// large header images cannot push the process into an OOM kill. Throttling
// starts at the high water mark and ends once usage drops below the low one.
package memory
