// Package driving provides interfaces for application entry points
// (primary/inbound ports).
//
// The HTTP API and CLI commands depend on these abstractions;
// internal/core/services implements them.
package driving
