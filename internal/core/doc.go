// Package core wires context collection, prompt construction, and backend
// selection into the single generation flow the CLI commands share.
package core
