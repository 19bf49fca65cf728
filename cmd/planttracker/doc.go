// Command planttracker identifies plants from photographs and manages the
// resulting history from the terminal.
//
// Commands load configuration once per invocation, confirm the session, and
// load the history before acting. Output goes to stdout as tables or, with
// --json, as machine-readable documents; logs go to stderr and the log file.
package main
