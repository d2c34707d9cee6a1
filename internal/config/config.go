// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads the engine's .ferro/project.yaml configuration:
// worker counts, file-size limits, log level, and ignored path globs.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ferrolabs/ferroscope/internal/errors"
)

const (
	defaultConfigDir  = ".ferro"
	defaultConfigFile = "project.yaml"
	configVersion     = "1"
)

// Config represents the .ferro/project.yaml configuration file.
type Config struct {
	Version string `yaml:"version"`
	Index   Index  `yaml:"index"`
	Log     Log    `yaml:"log"`
}

// Index controls how the workspace is discovered and built.
type Index struct {
	// Workers is the number of parallel parse/analyze workers. A value <= 1
	// forces the sequential builder path.
	Workers int `yaml:"workers"`
	// MaxFileSize is the largest source file, in bytes, the builder will
	// read; larger files are skipped and recorded as unreadable.
	MaxFileSize int64 `yaml:"max_file_size"`
	// Exclude holds glob patterns (matched against file paths relative to
	// the workspace root) to skip during discovery.
	Exclude []string `yaml:"exclude"`
}

// Log controls the engine's structured logging.
type Log struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns a Config with sensible defaults for a freshly indexed
// workspace.
func Default() *Config {
	return &Config{
		Version: configVersion,
		Index: Index{
			Workers:     4,
			MaxFileSize: 1 << 20, // 1MB
			Exclude: []string{
				".git/**",
				"target/**",
				"*.lock",
			},
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads configuration from configPath, or auto-discovers
// <dir>/.ferro/project.yaml by walking up from the current directory if
// configPath is empty. Missing configuration is not an error: the caller
// receives defaults overridden only by environment variables.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = os.Getenv("FERRO_CONFIG_PATH")
	}
	if configPath == "" {
		found, err := findConfigFile()
		if err != nil {
			cfg := Default()
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		configPath = found
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // path comes from user config or discovery
	if err != nil {
		return nil, errors.NewIOError(
			"Cannot read configuration file",
			fmt.Sprintf("Failed to read %s", configPath),
			"Check file permissions and ensure the file exists",
			err,
		)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewInputError(
			"Invalid configuration format",
			"YAML parsing failed in "+configPath,
			"Edit the file to fix syntax errors, or delete it to use defaults",
		)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Path returns the path to the config file in the given directory.
func Path(dir string) string {
	return filepath.Join(dir, defaultConfigDir, defaultConfigFile)
}

func findConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := Path(dir)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// applyEnvOverrides applies FERRO_* environment variables on top of the
// file-based configuration. Supported variables:
//   - FERRO_LOG: overrides Log.Level
//   - FERRO_WORKERS: overrides Index.Workers
func (c *Config) applyEnvOverrides() {
	if lvl := os.Getenv("FERRO_LOG"); lvl != "" {
		c.Log.Level = lvl
	}
	if workers := os.Getenv("FERRO_WORKERS"); workers != "" {
		var n int
		if _, err := fmt.Sscanf(workers, "%d", &n); err == nil && n > 0 {
			c.Index.Workers = n
		}
	}
}
