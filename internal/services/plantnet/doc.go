// Package plantnet calls the Pl@ntNet identification API on behalf of the
// self-hosted backend. It decodes the request's data URLs, posts them as a
// multipart form, and maps the ranked species results onto suggestions.
package plantnet
