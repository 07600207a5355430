// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/peter-r-g/inputactions/internal/project"
	"github.com/peter-r-g/inputactions/internal/regen"
	"github.com/peter-r-g/inputactions/internal/watch"
)

const (
	// LogLevelDebug logs everything, including per-stage pass progress.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs finished passes and watch changes.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs only warnings and failures.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs only failures.
	LogLevelError LogLevel = "error"

	// LogFormatText is the human-readable, colored format.
	LogFormatText LogFormat = "text"
	// LogFormatJSON writes one JSON object per line.
	LogFormatJSON LogFormat = "json"
	// LogFormatLogfmt writes key=value pairs.
	LogFormatLogfmt LogFormat = "logfmt"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogFormat is returned when a LogFormat value is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format")
	// ErrInvalidProjectGlob is returned when the project glob does not parse.
	ErrInvalidProjectGlob = errors.New("invalid project glob")
	// ErrInvalidSearchPath is returned for an empty or whitespace-only search path.
	ErrInvalidSearchPath = errors.New("invalid search path")
	// ErrInvalidDuration is returned for a non-positive interval.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum severity that is logged.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// LogFormat selects the log line encoding.
	LogFormat string

	// InvalidLogFormatError is returned when a LogFormat value is not recognized.
	// It wraps ErrInvalidLogFormat for errors.Is() compatibility.
	InvalidLogFormatError struct {
		Value LogFormat
	}

	// InvalidFieldError reports a single invalid field by its config key.
	InvalidFieldError struct {
		Key   string
		Value string
		Err   error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// SearchPaths are the directories scanned for projects. Empty means
		// the current directory.
		SearchPaths []string `json:"search_paths" mapstructure:"search_paths"`
		// ProjectGlob selects .addon files below each search path.
		ProjectGlob string `json:"project_glob" mapstructure:"project_glob"`
		// Watch configures the scheduler loop.
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
		// Notice configures how long board notices stay visible.
		Notice NoticeConfig `json:"notice" mapstructure:"notice"`
		// Log configures logging.
		Log LogConfig `json:"log" mapstructure:"log"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// WatchConfig configures change detection.
	WatchConfig struct {
		// Debounce is the minimum interval between accepted change events
		// of one project.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
		// Tick is the interval between reconcile and drain rounds.
		Tick time.Duration `json:"tick" mapstructure:"tick"`
		// Rescan is the interval between search path rescans.
		Rescan time.Duration `json:"rescan" mapstructure:"rescan"`
	}

	// NoticeConfig configures status board notices.
	NoticeConfig struct {
		// SuccessDelay is how long a finished notice stays.
		SuccessDelay time.Duration `json:"success_delay" mapstructure:"success_delay"`
		// FailureDelay is how long an errored notice stays.
		FailureDelay time.Duration `json:"failure_delay" mapstructure:"failure_delay"`
	}

	// LogConfig configures logging.
	LogConfig struct {
		Level  LogLevel  `json:"level" mapstructure:"level"`
		Format LogFormat `json:"format" mapstructure:"format"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Board shows the live status board while watching.
		Board bool `json:"board" mapstructure:"board"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels,
// and a list of validation errors if it is not.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface for InvalidLogFormatError.
func (e *InvalidLogFormatError) Error() string {
	return fmt.Sprintf("invalid log format %q (valid: text, json, logfmt)", e.Value)
}

// Unwrap returns ErrInvalidLogFormat for errors.Is() compatibility.
func (e *InvalidLogFormatError) Unwrap() error { return ErrInvalidLogFormat }

// String returns the string representation of the LogFormat.
func (f LogFormat) String() string { return string(f) }

// IsValid returns whether the LogFormat is one of the defined formats,
// and a list of validation errors if it is not.
func (f LogFormat) IsValid() (bool, []error) {
	switch f {
	case LogFormatText, LogFormatJSON, LogFormatLogfmt:
		return true, nil
	default:
		return false, []error{&InvalidLogFormatError{Value: f}}
	}
}

// Error implements the error interface for InvalidFieldError.
func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("%s: %v: %q", e.Key, e.Err, e.Value)
}

// Unwrap returns the field's sentinel error.
func (e *InvalidFieldError) Unwrap() error { return e.Err }

// IsValid returns whether the LogConfig has valid fields.
func (c LogConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Format.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	return len(errs) == 0, errs
}

// IsValid returns whether every interval is positive.
func (c WatchConfig) IsValid() (bool, []error) {
	errs := positive(nil, "watch.debounce", c.Debounce)
	errs = positive(errs, "watch.tick", c.Tick)
	errs = positive(errs, "watch.rescan", c.Rescan)
	return len(errs) == 0, errs
}

// IsValid returns whether every delay is positive.
func (c NoticeConfig) IsValid() (bool, []error) {
	errs := positive(nil, "notice.success_delay", c.SuccessDelay)
	errs = positive(errs, "notice.failure_delay", c.FailureDelay)
	return len(errs) == 0, errs
}

// IsValid returns whether the Config has valid fields.
// It checks each search path, the project glob, and delegates to Watch,
// Notice and Log. UI has only bool fields and needs no validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for i, p := range c.SearchPaths {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, &InvalidFieldError{Key: fmt.Sprintf("search_paths[%d]", i), Value: p, Err: ErrInvalidSearchPath})
		}
	}
	if c.ProjectGlob == "" || !doublestar.ValidatePattern(c.ProjectGlob) {
		errs = append(errs, &InvalidFieldError{Key: "project_glob", Value: c.ProjectGlob, Err: ErrInvalidProjectGlob})
	}
	if valid, fieldErrs := c.Watch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Notice.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Log.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	lines := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		lines[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %d field errors:\n  %s", len(e.FieldErrors), strings.Join(lines, "\n  "))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

func positive(errs []error, key string, d time.Duration) []error {
	if d > 0 {
		return errs
	}
	return append(errs, &InvalidFieldError{Key: key, Value: d.String(), Err: ErrInvalidDuration})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		SearchPaths: []string{},
		ProjectGlob: project.DefaultProjectGlob,
		Watch: WatchConfig{
			Debounce: watch.DefaultDebounce,
			Tick:     regen.DefaultTick,
			Rescan:   5 * time.Second,
		},
		Notice: NoticeConfig{
			SuccessDelay: 2 * time.Second,
			FailureDelay: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
		UI: UIConfig{
			Board:   false,
			Verbose: false,
		},
	}
}
