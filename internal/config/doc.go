// Package config loads, normalizes, and validates the planttracker TOML
// configuration.
//
// Load resolves the file location (explicit path, then
// ~/.config/planttracker/config.toml, then ./planttracker.toml), starts from
// Default(), decodes the file on top, expands paths, applies environment
// fallbacks for secrets, and finally validates. The embedded sample written by
// `planttracker config init` documents every key.
package config
