// Package history keeps the in-memory identification history and derives the
// search, sort, grouping, and statistics views shown to the user.
//
// The canonical sequence is newest first and is only changed by Insert, Load,
// SetNotes, and Remove. Views are projections: View always searches first,
// then sorts, then groups, and never reorders the canonical sequence. A Store
// is owned by a single goroutine and is not safe for concurrent mutation.
package history
