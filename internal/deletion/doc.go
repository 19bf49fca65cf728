// Package deletion implements the confirm-then-delete workflow for history
// records. A record leaves the history store only after the backend confirms
// the delete; a failed delete leaves it untouched.
package deletion
