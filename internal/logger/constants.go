// Package logger provides logging functionality for the application.
package logger

// Default configuration values.
const (
	// DefaultLevel is the default logging level.
	DefaultLevel = InfoLevel
	// DefaultEncoding is the default log encoding format.
	DefaultEncoding = "console"
	// DefaultOutput is the default log destination.
	DefaultOutput = OutputStdout
)

// Default rotation values used when output is a file.
const (
	// DefaultMaxSize is the default maximum size of a log file in megabytes.
	DefaultMaxSize = 100
	// DefaultMaxBackups is the default number of rotated files to keep.
	DefaultMaxBackups = 3
	// DefaultMaxAge is the default number of days to keep rotated files.
	DefaultMaxAge = 28
)

// Supported output destinations.
const (
	OutputStdout = "stdout"
	OutputStderr = "stderr"
	OutputFile   = "file"
)
