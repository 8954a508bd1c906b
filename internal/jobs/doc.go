// Package jobs queries the Datamonkey analysis API for job status and
// results. Jobs in a terminal state never change, so their status and
// result documents are kept in a bounded LRU cache.
package jobs
