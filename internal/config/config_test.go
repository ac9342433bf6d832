package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1, cfg.MaxConcurrency)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ".curvesplit/logs", cfg.LogDir)
	assert.Equal(t, "model", cfg.OutputDir)
	assert.True(t, cfg.StrictTasks)
	assert.Empty(t, cfg.ExtraTasks)
	assert.False(t, cfg.DryRun)
	assert.True(t, cfg.History.Enabled)
	assert.Empty(t, cfg.History.DBPath)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigValidFile(t *testing.T) {
	path := writeConfig(t, `max_concurrency: 4
log_level: debug
log_dir: /tmp/logs
output_dir: model_v2
strict_tasks: false
extra_tasks:
  - Receptive_field_mapping
dry_run: true
history:
  enabled: false
  db_path: /tmp/history.db
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/logs", cfg.LogDir)
	assert.Equal(t, "model_v2", cfg.OutputDir)
	assert.False(t, cfg.StrictTasks)
	assert.Equal(t, []string{"Receptive_field_mapping"}, cfg.ExtraTasks)
	assert.True(t, cfg.DryRun)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, "/tmp/history.db", cfg.History.DBPath)
}

func TestLoadConfigFileNotExists(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "only log level",
			content: "log_level: warn\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "warn", cfg.LogLevel)
				assert.Equal(t, "model", cfg.OutputDir)
				assert.True(t, cfg.StrictTasks)
				assert.True(t, cfg.History.Enabled)
			},
		},
		{
			name:    "history section without enabled",
			content: "history:\n  db_path: ledger.db\n",
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.History.Enabled)
				assert.Equal(t, "ledger.db", cfg.History.DBPath)
			},
		},
		{
			name:    "strict tasks explicitly true",
			content: "strict_tasks: true\n",
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.StrictTasks)
			},
		},
		{
			name:    "empty file",
			content: "",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultConfig(), cfg)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.content))
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "max_concurrency: [unclosed\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfigFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".curvesplit"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".curvesplit", "config.yaml"), []byte("max_concurrency: 3\n"), 0644))

	cfg, err := LoadConfigFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxConcurrency)

	cfg, err = LoadConfigFromDir(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()
	conc := 8
	level := "trace"
	out := "alt"
	dry := true
	noHistory := true

	cfg.MergeWithFlags(Flags{
		MaxConcurrency: &conc,
		LogLevel:       &level,
		OutputDir:      &out,
		DryRun:         &dry,
		NoHistory:      &noHistory,
	})

	assert.Equal(t, 8, cfg.MaxConcurrency)
	assert.Equal(t, "trace", cfg.LogLevel)
	assert.Equal(t, ".curvesplit/logs", cfg.LogDir, "nil flag leaves value")
	assert.Equal(t, "alt", cfg.OutputDir)
	assert.True(t, cfg.DryRun)
	assert.False(t, cfg.History.Enabled)

	cfg = DefaultConfig()
	no := false
	cfg.MergeWithFlags(Flags{NoHistory: &no})
	assert.True(t, cfg.History.Enabled, "--no-history=false keeps history on")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"zero concurrency", func(c *Config) { c.MaxConcurrency = 0 }, "max_concurrency must be >= 1, got 0"},
		{"bad level", func(c *Config) { c.LogLevel = "verbose" }, `invalid log_level "verbose", must be one of: trace, debug, info, warn, error`},
		{"empty log dir", func(c *Config) { c.LogDir = "" }, "log_dir cannot be empty"},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, "output_dir cannot be empty"},
		{"absolute output dir", func(c *Config) { c.OutputDir = "/tmp/model" }, "output_dir must be a path inside the run directory"},
		{"escaping output dir", func(c *Config) { c.OutputDir = "../model" }, "output_dir must be a path inside the run directory"},
		{"run dir itself", func(c *Config) { c.OutputDir = "." }, "output_dir must be a path inside the run directory"},
		{"nested output dir", func(c *Config) { c.OutputDir = "derived/model" }, ""},
		{"blank extra task", func(c *Config) { c.ExtraTasks = []string{"Mapping", ""} }, "extra_tasks[1] cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxConcurrency = 0
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_concurrency")
	assert.Contains(t, err.Error(), "log_level")
}

func TestHistoryDBPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.History.DBPath = "/data/ledger.db"
	path, err := cfg.HistoryDBPath()
	require.NoError(t, err)
	assert.Equal(t, "/data/ledger.db", path)

	home := filepath.Join(t.TempDir(), "home")
	t.Setenv(HomeEnv, home)
	cfg.History.DBPath = ""
	path, err = cfg.HistoryDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "history.db"), path)
	assert.DirExists(t, home)
}

func TestGetHomeDefaultsToWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(HomeEnv, "")

	home, err := GetHome()
	require.NoError(t, err)
	wd, _ := os.Getwd()
	assert.Equal(t, filepath.Join(wd, ".curvesplit"), home)
	assert.DirExists(t, home)
}
