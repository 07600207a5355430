// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	// DumpFormatCUE renders the configuration in the config file format.
	DumpFormatCUE DumpFormat = "cue"
	// DumpFormatTOML renders the configuration as TOML.
	DumpFormatTOML DumpFormat = "toml"
)

type (
	// DumpFormat selects the encoding used by Dump.
	DumpFormat string

	// tomlDocument mirrors Config with durations rendered as strings.
	tomlDocument struct {
		SearchPaths []string     `toml:"search_paths"`
		ProjectGlob string       `toml:"project_glob"`
		Watch       tomlWatch    `toml:"watch"`
		Notice      tomlNotice   `toml:"notice"`
		Log         tomlLog      `toml:"log"`
		UI          tomlUIConfig `toml:"ui"`
	}

	tomlWatch struct {
		Debounce string `toml:"debounce"`
		Tick     string `toml:"tick"`
		Rescan   string `toml:"rescan"`
	}

	tomlNotice struct {
		SuccessDelay string `toml:"success_delay"`
		FailureDelay string `toml:"failure_delay"`
	}

	tomlLog struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	}

	tomlUIConfig struct {
		Board   bool `toml:"board"`
		Verbose bool `toml:"verbose"`
	}
)

// Dump renders cfg in the given format.
func Dump(cfg *Config, format DumpFormat) ([]byte, error) {
	switch format {
	case DumpFormatCUE, "":
		return []byte(GenerateCUE(cfg)), nil
	case DumpFormatTOML:
		return GenerateTOML(cfg)
	default:
		return nil, fmt.Errorf("unknown dump format %q (valid: cue, toml)", format)
	}
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// inputactions configuration file\n")
	sb.WriteString("// Durations use Go syntax, e.g. \"250ms\", \"5s\".\n\n")

	if len(cfg.SearchPaths) > 0 {
		sb.WriteString("search_paths: [\n")
		for _, p := range cfg.SearchPaths {
			sb.WriteString(fmt.Sprintf("\t%q,\n", p))
		}
		sb.WriteString("]\n")
	} else {
		sb.WriteString("search_paths: []\n")
	}
	sb.WriteString(fmt.Sprintf("project_glob: %q\n", cfg.ProjectGlob))

	sb.WriteString("\nwatch: {\n")
	sb.WriteString(fmt.Sprintf("\tdebounce: %q\n", cfg.Watch.Debounce.String()))
	sb.WriteString(fmt.Sprintf("\ttick:     %q\n", cfg.Watch.Tick.String()))
	sb.WriteString(fmt.Sprintf("\trescan:   %q\n", cfg.Watch.Rescan.String()))
	sb.WriteString("}\n")

	sb.WriteString("\nnotice: {\n")
	sb.WriteString(fmt.Sprintf("\tsuccess_delay: %q\n", cfg.Notice.SuccessDelay.String()))
	sb.WriteString(fmt.Sprintf("\tfailure_delay: %q\n", cfg.Notice.FailureDelay.String()))
	sb.WriteString("}\n")

	sb.WriteString("\nlog: {\n")
	sb.WriteString(fmt.Sprintf("\tlevel:  %q\n", cfg.Log.Level))
	sb.WriteString(fmt.Sprintf("\tformat: %q\n", cfg.Log.Format))
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tboard:   %v\n", cfg.UI.Board))
	sb.WriteString(fmt.Sprintf("\tverbose: %v\n", cfg.UI.Verbose))
	sb.WriteString("}\n")

	return sb.String()
}

// GenerateTOML generates a TOML representation of the configuration.
func GenerateTOML(cfg *Config) ([]byte, error) {
	doc := tomlDocument{
		SearchPaths: cfg.SearchPaths,
		ProjectGlob: cfg.ProjectGlob,
		Watch: tomlWatch{
			Debounce: cfg.Watch.Debounce.String(),
			Tick:     cfg.Watch.Tick.String(),
			Rescan:   cfg.Watch.Rescan.String(),
		},
		Notice: tomlNotice{
			SuccessDelay: cfg.Notice.SuccessDelay.String(),
			FailureDelay: cfg.Notice.FailureDelay.String(),
		},
		Log: tomlLog{
			Level:  cfg.Log.Level.String(),
			Format: cfg.Log.Format.String(),
		},
		UI: tomlUIConfig{
			Board:   cfg.UI.Board,
			Verbose: cfg.UI.Verbose,
		},
	}
	if doc.SearchPaths == nil {
		doc.SearchPaths = []string{}
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config as TOML: %w", err)
	}
	return data, nil
}
