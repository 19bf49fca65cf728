// Package services defines shared utilities consumed by the identification
// engine and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers, the signed-in user,
//     and submission sequence numbers for logging and tracing.
//   - Structured error markers plus the Wrap helper that let callers classify
//     failures with errors.Is (transient notice vs hard failure).
//
// Backend clients live in sub-packages (plantapi, plantnet, session) and tag
// every failure with one of the markers defined here.
package services
