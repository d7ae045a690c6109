// Package application defines the interface commands use to reach
// application-level dependencies. Commands depend on this interface rather
// than the concrete app, which keeps them testable with a mock.
package application

import (
	"github.com/rs/zerolog"
)

// Application provides commands with their shared dependencies.
type Application interface {
	// Logger returns the configured logger instance.
	// Commands should use this for all logging operations.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (text, json, yaml).
	OutputFormat() string

	// Verbose reports whether verbose output was requested.
	Verbose() bool

	// Quiet reports whether minimal output was requested.
	Quiet() bool

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string
}
