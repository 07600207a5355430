// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/inputactions/config.cue (or the XDG
// equivalent on Linux, ~/Library/Application Support/inputactions/config.cue on
// macOS, %APPDATA%\inputactions\config.cue on Windows), falling back to
// ./config.cue. Any key can be overridden through INPUTACTIONS_* environment
// variables, with dots replaced by underscores.
//
// Files are validated against an embedded CUE schema (config_schema.cue)
// before they are merged over the defaults.
package config
