// Package config loads, normalizes, and validates the TOML configuration for
// chaptercut. Path fields are tilde-expanded and absolute after Load; the
// encode profile and handle length are configuration, not constants.
package config
