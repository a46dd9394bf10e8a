// Package logging constructs the slog loggers used across crd.
package logging
