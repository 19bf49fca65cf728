// Package session talks to the authenticated-session service.
//
// It persists the session token in a private JSON file, confirms the current
// identity with the backend (caching confirmed identities for a short TTL with
// go-cache), and signs out. The identification engine consults it once at
// start-up; the identity's subject becomes the submission user id.
package session
