// Package plantdb is the self-hosted identification backend. It forwards
// submissions to an upstream identifier, applies the similarity threshold,
// and keeps the resulting documents in a SQLite database so the history,
// notes, and delete operations work without the remote service.
//
// The database file is guarded by an advisory lock so two processes never
// write the same history concurrently.
package plantdb
