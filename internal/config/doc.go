// Package config loads, normalizes, and validates critique configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a sibling .env file, and honours
// environment fallbacks such as CRITIQUE_DATABASE and
// NATURAL_LANGUAGE_CREDENTIALS. The Config type centralizes every knob the
// CLI, API server and scheduled daemon need.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical backend names, and clear validation errors.
package config
