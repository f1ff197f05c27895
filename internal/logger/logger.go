package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger provides structured logging tagged with the emitting component
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
	With(key string, value interface{}) Logger
}

const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel maps a configured level name onto a zerolog level
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// New builds the application logger for the given level and format.
// Text output goes through zerolog's console writer, json is written as-is.
func New(writer io.Writer, level, format string) (*ZerologAdapter, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(format) {
	case FormatJSON:
		return NewZerolog(writer, lvl), nil
	case "", FormatText:
		return NewZerolog(zerolog.ConsoleWriter{Out: writer, TimeFormat: "15:04:05"}, lvl), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// NewStderr is New writing to standard error
func NewStderr(level, format string) (*ZerologAdapter, error) {
	return New(os.Stderr, level, format)
}

// NoOpLogger discards everything
type NoOpLogger struct{}

func (n NoOpLogger) Debug(component, message string, fields map[string]interface{})   {}
func (n NoOpLogger) Info(component, message string, fields map[string]interface{})    {}
func (n NoOpLogger) Warning(component, message string, fields map[string]interface{}) {}
func (n NoOpLogger) Error(component string, err error, fields map[string]interface{}) {}
func (n NoOpLogger) With(key string, value interface{}) Logger                         { return n }
