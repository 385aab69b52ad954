// Package worker drives the external "make one test course" program.
//
// Each work unit runs as its own process. Arguments are passed as separate
// argv entries, never through a shell, and both output streams are drained
// concurrently so a chatty worker cannot block on a full pipe. A site build
// dispatches units one at a time and stops at the first failure; courses
// created before the failure are left in place.
package worker
