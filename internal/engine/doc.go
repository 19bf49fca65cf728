// Package engine wires the identification pipeline together: the session
// gate, the configured backend, history loading, submission sequencing, and
// the notes and deletion controllers.
//
// All History Store mutation happens on the caller's goroutine. Submissions
// run in the background and are applied through Complete in the order the
// caller completes them; each carries a sequence ticket so superseded
// responses follow the configured stale policy.
package engine
