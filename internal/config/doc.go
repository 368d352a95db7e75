// Package config loads, normalizes, and validates cmdchan configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the daemon and CLI need: the runtime directory the socket and lock files
// live under, the logical interface name, log output, and command history
// persistence.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
