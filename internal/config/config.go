package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// HistoryConfig represents the processing ledger configuration
type HistoryConfig struct {
	// Enabled records every processed run in the ledger
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the ledger database; empty means <home>/history.db
	DBPath string `yaml:"db_path"`
}

// Config represents curvesplit configuration options
type Config struct {
	// MaxConcurrency is the maximum number of runs processed at once
	MaxConcurrency int `yaml:"max_concurrency" validate:"min=1"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level" validate:"oneof=trace debug info warn error"`

	// LogDir is the directory where logs will be written
	LogDir string `yaml:"log_dir" validate:"required"`

	// OutputDir is the per-run directory for model files, relative to the run
	OutputDir string `yaml:"output_dir" validate:"required,relpath"`

	// StrictTasks rejects event log rows whose task is not known
	StrictTasks bool `yaml:"strict_tasks"`

	// ExtraTasks are accepted in addition to the built-in tasks
	ExtraTasks []string `yaml:"extra_tasks" validate:"dive,required"`

	// DryRun classifies runs without writing model files
	DryRun bool `yaml:"dry_run"`

	// History contains ledger configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		MaxConcurrency: 1,
		LogLevel:       "info",
		LogDir:         ".curvesplit/logs",
		OutputDir:      "model",
		StrictTasks:    true,
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Booleans that default to true cannot be merged on their zero value, so
	// presence in the raw document decides.
	var rawMap map[string]any
	if err := yaml.Unmarshal(data, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if fileCfg.MaxConcurrency != 0 {
		cfg.MaxConcurrency = fileCfg.MaxConcurrency
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.LogDir != "" {
		cfg.LogDir = fileCfg.LogDir
	}
	if fileCfg.OutputDir != "" {
		cfg.OutputDir = fileCfg.OutputDir
	}
	if _, exists := rawMap["strict_tasks"]; exists {
		cfg.StrictTasks = fileCfg.StrictTasks
	}
	if len(fileCfg.ExtraTasks) > 0 {
		cfg.ExtraTasks = fileCfg.ExtraTasks
	}
	if fileCfg.DryRun {
		cfg.DryRun = true
	}

	if section, ok := rawMap["history"].(map[string]any); ok {
		if _, exists := section["enabled"]; exists {
			cfg.History.Enabled = fileCfg.History.Enabled
		}
		if _, exists := section["db_path"]; exists {
			cfg.History.DBPath = fileCfg.History.DBPath
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .curvesplit/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".curvesplit", "config.yaml"))
}

// Flags carries CLI overrides. Nil fields leave the configuration untouched.
type Flags struct {
	MaxConcurrency *int
	LogLevel       *string
	LogDir         *string
	OutputDir      *string
	DryRun         *bool
	NoHistory      *bool
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(f Flags) {
	if f.MaxConcurrency != nil {
		c.MaxConcurrency = *f.MaxConcurrency
	}
	if f.LogLevel != nil {
		c.LogLevel = *f.LogLevel
	}
	if f.LogDir != nil {
		c.LogDir = *f.LogDir
	}
	if f.OutputDir != nil {
		c.OutputDir = *f.OutputDir
	}
	if f.DryRun != nil {
		c.DryRun = *f.DryRun
	}
	if f.NoHistory != nil && *f.NoHistory {
		c.History.Enabled = false
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		return name
	})
	_ = v.RegisterValidation("relpath", func(fl validator.FieldLevel) bool {
		p := filepath.Clean(fl.Field().String())
		if filepath.IsAbs(p) || p == "." || p == ".." {
			return false
		}
		return !strings.HasPrefix(p, ".."+string(filepath.Separator))
	})
	return v
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := yamlPath(fe.Namespace())
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be >= %s, got %v", field, fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("invalid %s %q, must be one of: %s", field, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "required":
		return fmt.Sprintf("%s cannot be empty", field)
	case "relpath":
		return fmt.Sprintf("%s must be a path inside the run directory, got %q", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// yamlPath drops the root struct name from a validator namespace.
func yamlPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
