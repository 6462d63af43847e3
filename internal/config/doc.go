// Package config loads and merges cmtr configuration from the global
// config file, a per-repository cmtr.yaml, a .env file, environment
// variables, and CLI flag overrides, in increasing precedence.
package config
