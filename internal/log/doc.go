// Package log wraps log/slog with a Trace level one step below Debug,
// the level anvil's parser uses to record recoverable parse issues
// without promoting them to Info/Warn/Error noise.
package log
