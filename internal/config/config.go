// Package config loads editor settings from the environment.
// Values fall back to the defaults declared on each field and are validated
// on startup so a bad setting stops the launcher before a window opens.
package config

import "time"

// Config holds all editor configuration.
type Config struct {
	Logging LoggingConfig
	CSV     CSVConfig
	Window  WindowConfig
	IO      IOConfig
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"CSVEDIT_LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"CSVEDIT_LOG_FORMAT" default:"text"`
}

// CSVConfig controls how files are parsed and written.
type CSVConfig struct {
	// Delimiter separates fields (default: ,)
	Delimiter string `env:"CSVEDIT_DELIMITER" default:","`

	// Quote wraps fields containing delimiters or line breaks (default: |)
	Quote string `env:"CSVEDIT_QUOTE" default:"|"`

	// RaggedPolicy decides what happens to rows whose width differs from the
	// header: pad or reject (default: pad)
	RaggedPolicy string `env:"CSVEDIT_RAGGED_POLICY" default:"pad"`
}

// WindowConfig holds the initial main window size.
type WindowConfig struct {
	Width  int `env:"CSVEDIT_WINDOW_WIDTH" default:"1200"`
	Height int `env:"CSVEDIT_WINDOW_HEIGHT" default:"800"`
}

// IOConfig bounds file operations.
type IOConfig struct {
	// Timeout is the maximum duration of a single load or save (default: 30s)
	Timeout time.Duration `env:"CSVEDIT_IO_TIMEOUT" default:"30s"`
}
