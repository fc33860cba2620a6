// Package config loads, normalizes, and validates the TOML configuration.
// Load always returns a fully populated config: absent files fall back to
// repository defaults, paths are expanded, and env fallbacks are applied
// before validation runs.
package config
