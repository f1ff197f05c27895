package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"csvedit/internal/logger"

	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
func Load() (*Config, error) {
	return LoadWithDotenv()
}

// LoadWithDotenv merges the given .env files into the environment before
// loading and validating.
func LoadWithDotenv(files ...string) (*Config, error) {
	cfg, err := Read(files...)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Read loads the environment, after merging the given .env files, without
// validating. Callers that override fields must call Validate themselves.
// Missing files are ignored; variables already set in the environment win.
func Read(files ...string) (*Config, error) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("config dotenv %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		value, ok := os.LookupEnv(envName)
		if !ok || value == "" {
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []error

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("CSVEDIT_LOG_LEVEL must be debug, info, warn, error or disabled, got %q", c.Logging.Level))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("CSVEDIT_LOG_FORMAT must be text or json, got %q", c.Logging.Format))
	}

	if utf8.RuneCountInString(c.CSV.Delimiter) != 1 {
		errs = append(errs, fmt.Errorf("CSVEDIT_DELIMITER must be a single character, got %q", c.CSV.Delimiter))
	}
	if utf8.RuneCountInString(c.CSV.Quote) != 1 {
		errs = append(errs, fmt.Errorf("CSVEDIT_QUOTE must be a single character, got %q", c.CSV.Quote))
	}
	if c.CSV.Delimiter == c.CSV.Quote {
		errs = append(errs, errors.New("CSVEDIT_DELIMITER and CSVEDIT_QUOTE must differ"))
	}

	switch c.CSV.RaggedPolicy {
	case "pad", "reject":
	default:
		errs = append(errs, fmt.Errorf("CSVEDIT_RAGGED_POLICY must be pad or reject, got %q", c.CSV.RaggedPolicy))
	}

	if c.Window.Width < 400 || c.Window.Height < 300 {
		errs = append(errs, fmt.Errorf("window size %dx%d is below the 400x300 minimum", c.Window.Width, c.Window.Height))
	}

	if c.IO.Timeout <= 0 {
		errs = append(errs, errors.New("CSVEDIT_IO_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// DelimiterRune returns the configured delimiter as a rune.
func (c CSVConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// QuoteRune returns the configured quote character as a rune.
func (c CSVConfig) QuoteRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Quote)
	return r
}
