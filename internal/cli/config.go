// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const configName = "pv"

// DefaultConfig returns the default configuration.
func DefaultConfig() map[string]any {
	return map[string]any{
		"size":               "",
		"timer":              false,
		"width":              0,
		"bytes":              false,
		"rate":               false,
		"eta":                false,
		"line-mode":          false,
		"null":               false,
		"skip-errors":        false,
		"skip-output-errors": false,
		"interval":           "200ms",
		"force":              false,
	}
}

// configDir returns ~/.config.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find home directory: %w", err)
	}
	return filepath.Join(home, ".config"), nil
}

// findConfig returns the first existing config file, trying JSON first,
// then YAML. It returns "" when there is none.
func findConfig() string {
	dir, err := configDir()
	if err != nil {
		return ""
	}
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		p := filepath.Join(dir, configName+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func loadConfig(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("invalid YAML config file: %w", err)
		}
	default: // .json or unknown
		if err := json.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("invalid JSON config file: %w", err)
		}
	}
	return cfg, nil
}

// applyConfigDefaults fills flags the user did not set from the config file.
func applyConfigDefaults(cmd *cobra.Command, ro *RootOpts) error {
	path := ro.Config
	if path == "" {
		path = findConfig()
	}
	if path == "" {
		return nil
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	var firstErr error
	lookup := func(flagName string) (string, bool) {
		if cmd.Flags().Changed(flagName) {
			return "", false
		}
		v, ok := cfg[flagName]
		if !ok || v == nil {
			return "", false
		}
		return fmt.Sprint(v), true
	}
	fail := func(flagName string, err error) {
		if firstErr == nil {
			firstErr = fmt.Errorf("config %s: %s: %w", path, flagName, err)
		}
	}
	setStr := func(flagName string, set func(string)) {
		if v, ok := lookup(flagName); ok {
			set(v)
		}
	}
	setBool := func(flagName string, set func(bool)) {
		if v, ok := lookup(flagName); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				fail(flagName, err)
				return
			}
			set(b)
		}
	}
	setInt := func(flagName string, set func(int)) {
		if v, ok := lookup(flagName); ok {
			x, err := strconv.Atoi(v)
			if err != nil {
				fail(flagName, err)
				return
			}
			set(x)
		}
	}
	setDuration := func(flagName string, set func(time.Duration)) {
		if v, ok := lookup(flagName); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				fail(flagName, err)
				return
			}
			set(d)
		}
	}

	setStr("size", func(v string) { ro.Size = v })
	setBool("timer", func(v bool) { ro.Timer = v })
	setInt("width", func(v int) { ro.Width = v })
	setBool("bytes", func(v bool) { ro.Bytes = v })
	setBool("rate", func(v bool) { ro.Rate = v })
	setBool("eta", func(v bool) { ro.ETA = v })
	setBool("line-mode", func(v bool) { ro.LineMode = v })
	setBool("null", func(v bool) { ro.Null = v })
	setBool("skip-errors", func(v bool) { ro.SkipErrors = v })
	setBool("skip-output-errors", func(v bool) { ro.SkipOutputErrors = v })
	setDuration("interval", func(v time.Duration) { ro.Interval = v })
	setBool("force", func(v bool) { ro.Force = v })

	return firstErr
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force   bool
		useYAML bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Long: `Creates a default configuration file at ~/.config/pv.json (or .yaml)

The configuration file sets default values for the display and error flags.
CLI flags always override config file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := configDir()
			if err != nil {
				return err
			}
			ext := ".json"
			if useYAML {
				ext = ".yaml"
			}
			configPath := filepath.Join(dir, configName+ext)

			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", configPath)
			}

			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("could not create config directory: %w", err)
			}

			cfg := DefaultConfig()
			var data []byte
			if useYAML {
				data, err = yaml.Marshal(cfg)
			} else {
				data, err = json.MarshalIndent(cfg, "", "  ")
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(configPath, data, 0o644); err != nil {
				return fmt.Errorf("could not write config file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Created config file: %s\n", configPath)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Edit this file to set your defaults. For example:")
			fmt.Fprintln(out, "  - Always show the timer and rate")
			fmt.Fprintln(out, "  - Fix the bar width")
			fmt.Fprintln(out, "  - Change the redraw interval")

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config file")
	cmd.Flags().BoolVar(&useYAML, "yaml", false, "Create YAML config instead of JSON")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			configPath := findConfig()
			if configPath == "" {
				dir, _ := configDir()
				fmt.Fprintln(out, "No config file found.")
				fmt.Fprintf(out, "Run 'pv config init' to create one at:\n  %s\n", filepath.Join(dir, configName+".json"))
				return nil
			}

			data, err := os.ReadFile(configPath)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Config file: %s\n\n", configPath)
			fmt.Fprintln(out, string(data))

			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Run: func(cmd *cobra.Command, args []string) {
			configPath := findConfig()
			if configPath == "" {
				dir, _ := configDir()
				configPath = filepath.Join(dir, configName+".json")
			}
			fmt.Fprintln(cmd.OutOrStdout(), configPath)
		},
	}
}
