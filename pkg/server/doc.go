// Package server provides the HTTP API surface: linting, access decisions,
// stored findings and decisions, and metrics.
package server
