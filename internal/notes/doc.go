// Package notes implements the optimistic edit/save/cancel workflow for a
// record's free-text notes.
//
// Transition is a pure function from (state, event) to (state, effects).
// Controller drives it against the backend and the history store: the store
// only sees the new text after the backend accepted it, and a failed save
// returns to Editing with the draft intact. Nothing is retried automatically.
package notes
