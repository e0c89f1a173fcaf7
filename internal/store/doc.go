// Package store persists subforge's run history and translation cache in a
// SQLite database under the state directory.
//
// The schema is embedded and versioned; a database with a different version
// is rejected rather than migrated. Writes retry briefly when another process
// holds the lock. Runs are keyed by UUID and record the final pipeline state,
// output paths and a classified error; translations are keyed by the cache
// key computed in the translation package.
package store
