package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv overrides the data directory.
const HomeEnv = "CURVESPLIT_HOME"

// GetHome returns the curvesplit data directory
// Priority order:
//  1. CURVESPLIT_HOME environment variable (if set)
//  2. .curvesplit in the current working directory
//
// The directory is created if it doesn't exist
func GetHome() (string, error) {
	home := os.Getenv(HomeEnv)
	if home == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		home = filepath.Join(cwd, ".curvesplit")
	}

	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create curvesplit home directory: %w", err)
	}
	return home, nil
}

// HistoryDBPath returns the ledger database path: history.db_path when set,
// otherwise history.db in the data directory.
func (c *Config) HistoryDBPath() (string, error) {
	if c.History.DBPath != "" {
		return c.History.DBPath, nil
	}
	home, err := GetHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "history.db"), nil
}
