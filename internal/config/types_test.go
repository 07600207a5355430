// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
	"time"
)

func TestLogLevel_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level   LogLevel
		want    bool
		wantErr bool
	}{
		{LogLevelDebug, true, false},
		{LogLevelInfo, true, false},
		{LogLevelWarn, true, false},
		{LogLevelError, true, false},
		{"", false, true},
		{"verbose", false, true},
		{"INFO", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.level.IsValid()
			if isValid != tt.want {
				t.Errorf("LogLevel(%q).IsValid() = %v, want %v", tt.level, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("LogLevel(%q).IsValid() returned no errors, want error", tt.level)
				}
				if !errors.Is(errs[0], ErrInvalidLogLevel) {
					t.Errorf("error should wrap ErrInvalidLogLevel, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("LogLevel(%q).IsValid() returned unexpected errors: %v", tt.level, errs)
			}
		})
	}
}

func TestLogFormat_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  LogFormat
		want    bool
		wantErr bool
	}{
		{LogFormatText, true, false},
		{LogFormatJSON, true, false},
		{LogFormatLogfmt, true, false},
		{"", false, true},
		{"yaml", false, true},
		{"JSON", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.format.IsValid()
			if isValid != tt.want {
				t.Errorf("LogFormat(%q).IsValid() = %v, want %v", tt.format, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("LogFormat(%q).IsValid() returned no errors, want error", tt.format)
				}
				if !errors.Is(errs[0], ErrInvalidLogFormat) {
					t.Errorf("error should wrap ErrInvalidLogFormat, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("LogFormat(%q).IsValid() returned unexpected errors: %v", tt.format, errs)
			}
		})
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"defaults", func(*Config) {}, nil},
		{"search paths", func(c *Config) { c.SearchPaths = []string{"/games", "./maps"} }, nil},
		{"blank search path", func(c *Config) { c.SearchPaths = []string{"/games", "  "} }, ErrInvalidSearchPath},
		{"empty glob", func(c *Config) { c.ProjectGlob = "" }, ErrInvalidProjectGlob},
		{"malformed glob", func(c *Config) { c.ProjectGlob = "{*.addon" }, ErrInvalidProjectGlob},
		{"zero debounce", func(c *Config) { c.Watch.Debounce = 0 }, ErrInvalidDuration},
		{"negative tick", func(c *Config) { c.Watch.Tick = -time.Second }, ErrInvalidDuration},
		{"zero rescan", func(c *Config) { c.Watch.Rescan = 0 }, ErrInvalidDuration},
		{"zero failure delay", func(c *Config) { c.Notice.FailureDelay = 0 }, ErrInvalidDuration},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, ErrInvalidLogLevel},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)

			isValid, errs := cfg.IsValid()
			if tt.wantErr == nil {
				if !isValid || len(errs) > 0 {
					t.Fatalf("IsValid() = %v, %v; want valid", isValid, errs)
				}
				return
			}
			if isValid || len(errs) != 1 {
				t.Fatalf("IsValid() = %v, %v; want one error", isValid, errs)
			}
			if !errors.Is(errs[0], ErrInvalidConfig) {
				t.Errorf("error should wrap ErrInvalidConfig, got: %v", errs[0])
			}
			if !errors.Is(errs[0], tt.wantErr) {
				t.Errorf("error should wrap %v, got: %v", tt.wantErr, errs[0])
			}
		})
	}
}

func TestInvalidConfigError_CollectsAllFields(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Watch.Debounce = 0
	cfg.Log.Level = "loud"

	_, errs := cfg.IsValid()
	var cfgErr *InvalidConfigError
	if len(errs) != 1 || !errors.As(errs[0], &cfgErr) {
		t.Fatalf("expected a single *InvalidConfigError, got %v", errs)
	}
	if len(cfgErr.FieldErrors) != 2 {
		t.Errorf("expected 2 field errors, got %d: %v", len(cfgErr.FieldErrors), cfgErr.FieldErrors)
	}
	var fieldErr *InvalidFieldError
	if !errors.As(cfgErr.FieldErrors[0], &fieldErr) || fieldErr.Key != "watch.debounce" {
		t.Errorf("first field error = %v, want watch.debounce", cfgErr.FieldErrors[0])
	}
}
