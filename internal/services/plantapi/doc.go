// Package plantapi is the HTTP client for the remote identification backend.
//
// It implements the four backend operations the engine needs (identify,
// list history, update notes, delete) and maps transport failures and HTTP
// statuses onto the services error markers so callers can classify failures
// with errors.Is. Authentication rides on a token supplied by a TokenSource.
package plantapi
