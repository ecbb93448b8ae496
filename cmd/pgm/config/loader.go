// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath returns ~/.pgm/pgm.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".pgm", "pgm.yaml"), nil
}

// Load reads and validates the config at path.
//
// Description:
//
//	An empty path selects DefaultPath. A missing file at the default path
//	is created with DefaultConfig and created is true; a missing explicit
//	path is an error. Fields absent from the file keep their defaults.
func Load(path string) (cfg PGMConfig, created bool, err error) {
	explicit := path != ""
	if !explicit {
		if path, err = DefaultPath(); err != nil {
			return cfg, false, err
		}
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return cfg, false, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := createDefault(path); err != nil {
			return cfg, false, err
		}
		created = true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, created, fmt.Errorf("failed to read the config file %w", err)
	}
	cfg = DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, created, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, created, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, created, nil
}

func createDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create the config directory %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
