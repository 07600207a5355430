// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/peter-r-g/inputactions/internal/issue"
	"github.com/peter-r-g/inputactions/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "inputactions"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. INPUTACTIONS_WATCH_DEBOUNCE.
	EnvPrefix = "INPUTACTIONS"
)

// ErrConfigExists is returned by Init when the config file is already present.
var ErrConfigExists = errors.New("config file already exists")

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the inputactions configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// DefaultPath returns the config file path inside the config directory,
// honoring opts.ConfigDirPath.
func DefaultPath(opts LoadOptions) (string, error) {
	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// ResolvePath returns the config file that a load with opts would read, or ""
// when none exists and defaults apply. An explicit ConfigFilePath is returned
// as is, whether or not it exists.
func ResolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}

	cuePath, err := DefaultPath(opts)
	if err != nil {
		return "", err
	}
	if fileExists(cuePath) {
		return cuePath, nil
	}

	// Also check current directory
	localCuePath := ConfigFileName + "." + ConfigFileExt
	if fileExists(localCuePath) {
		return localCuePath, nil
	}
	return "", nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("search_paths", defaults.SearchPaths)
	v.SetDefault("project_glob", defaults.ProjectGlob)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)
	v.SetDefault("watch.tick", defaults.Watch.Tick)
	v.SetDefault("watch.rescan", defaults.Watch.Rescan)
	v.SetDefault("notice.success_delay", defaults.Notice.SuccessDelay)
	v.SetDefault("notice.failure_delay", defaults.Notice.FailureDelay)
	v.SetDefault("log.level", string(defaults.Log.Level))
	v.SetDefault("log.format", string(defaults.Log.Format))
	v.SetDefault("ui.board", defaults.UI.Board)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := ResolvePath(opts)
	if err != nil {
		return nil, "", err
	}

	if opts.ConfigFilePath != "" && !fileExists(opts.ConfigFilePath) {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithIssue(issue.ConfigLoadFailedId).
			WithResource(opts.ConfigFilePath).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Check that the file exists and is readable").
			WithSuggestion("Use 'inputactions config show' to see the default configuration").
			Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
			BuildError()
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithIssue(issue.ConfigLoadFailedId).
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("See 'inputactions config --help' for configuration options").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithIssue(issue.ConfigLoadFailedId).
			WithResource(resolvedPath).
			WithSuggestion("Durations use Go syntax, e.g. \"250ms\" or \"5s\"").
			WithSuggestion("Check " + EnvPrefix + "_* environment variables").
			Wrap(fmt.Errorf("failed to parse config: %w", err)).
			BuildError()
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithIssue(issue.ConfigLoadFailedId).
			WithResource(resolvedPath).
			WithSuggestion("Intervals and delays must be positive").
			WithSuggestion("Run 'inputactions config show' to see the effective values").
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Config decodes to map[string]any rather than a struct so that Viper keeps
// defaults and env overrides for the keys the file leaves out.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	ctx := cuecontext.New()

	schema, err := cueutil.CompileSchema(ctx, configSchema, "#Config")
	if err != nil {
		return err
	}

	userValue, err := cueutil.CompileWith(ctx, data, cueutil.WithFilename(path))
	if err != nil {
		return err
	}

	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// Init writes the default configuration to the config file inside the config
// directory and returns its path. An existing file is only replaced when
// force is set.
func Init(opts LoadOptions, force bool) (string, error) {
	cfgPath, err := DefaultPath(opts)
	if err != nil {
		return "", err
	}

	if !force && fileExists(cfgPath) {
		return cfgPath, fmt.Errorf("%w: %s", ErrConfigExists, cfgPath)
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, nil
}
