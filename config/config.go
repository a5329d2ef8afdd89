// Package config loads the journal's application configuration: where the
// ledger is stored, how logging is set up and which settings a fresh
// journal starts with.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/propjournal/challenge"
)

// EnvPrefix prefixes every environment override, e.g.
// PROPJOURNAL_STORAGE_BACKEND=sqlite.
const EnvPrefix = "PROPJOURNAL"

// Config represents the complete application configuration
type Config struct {
	Storage  StorageConfig      `json:"storage" yaml:"storage" mapstructure:"storage"`
	Log      LogConfig          `json:"log" yaml:"log" mapstructure:"log"`
	Export   ExportConfig       `json:"export" yaml:"export" mapstructure:"export"`
	Defaults challenge.Settings `json:"defaults" yaml:"defaults" mapstructure:"defaults"`
}

// StorageConfig selects the slot backend
type StorageConfig struct {
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"` // "file" or "sqlite"
	Path    string `json:"path" yaml:"path" mapstructure:"path"`
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level      string `json:"level" yaml:"level" mapstructure:"level"`
	Console    bool   `json:"console" yaml:"console" mapstructure:"console"`
	File       bool   `json:"file" yaml:"file" mapstructure:"file"`
	FilePath   string `json:"file_path" yaml:"file_path" mapstructure:"file_path"`
	MaxSize    int    `json:"max_size" yaml:"max_size" mapstructure:"max_size"` // megabytes
	MaxBackups int    `json:"max_backups" yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `json:"max_age" yaml:"max_age" mapstructure:"max_age"` // days
}

// ExportConfig contains spreadsheet export parameters
type ExportConfig struct {
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// DefaultDir returns the per-user configuration directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".propjournal"
	}
	return filepath.Join(home, ".config", "propjournal")
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	dir := DefaultDir()
	return &Config{
		Storage: StorageConfig{
			Backend: "file",
			Path:    filepath.Join(dir, "data"),
		},
		Log: LogConfig{
			Level:      "info",
			Console:    true,
			File:       false,
			FilePath:   filepath.Join(dir, "logs", "journal.log"),
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     30,
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Defaults: challenge.Default(),
	}
}

// Load reads the configuration. An explicit path must exist; with an empty
// path config.yaml is looked up in DefaultDir and the working directory and
// may be absent. A .env file in the working directory and PROPJOURNAL_*
// variables override file values.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDir())
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Defaults = cfg.Defaults.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can override it.
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("storage.backend", c.Storage.Backend)
	v.SetDefault("storage.path", c.Storage.Path)

	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.console", c.Log.Console)
	v.SetDefault("log.file", c.Log.File)
	v.SetDefault("log.file_path", c.Log.FilePath)
	v.SetDefault("log.max_size", c.Log.MaxSize)
	v.SetDefault("log.max_backups", c.Log.MaxBackups)
	v.SetDefault("log.max_age", c.Log.MaxAge)

	v.SetDefault("export.dir", c.Export.Dir)

	d := c.Defaults
	v.SetDefault("defaults.account_balance", d.AccountBalance)
	v.SetDefault("defaults.risk_percent", d.RiskPercent)
	v.SetDefault("defaults.risk_preset", d.RiskPreset)
	v.SetDefault("defaults.stop_loss_pips", d.StopLossPips)
	v.SetDefault("defaults.take_profit_pips", d.TakeProfitPips)
	v.SetDefault("defaults.phase1_target", d.Phase1Target)
	v.SetDefault("defaults.phase2_target", d.Phase2Target)
	v.SetDefault("defaults.daily_drawdown_limit", d.DailyDrawdownLimit)
	v.SetDefault("defaults.challenge_type", string(d.ChallengeType))
	v.SetDefault("defaults.master_account_balance", d.MasterAccountBalance)
	v.SetDefault("defaults.monthly_target", d.MonthlyTarget)
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON
// otherwise). Both formats use the same snake_case keys so Load reads
// either back.
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".yaml" && ext != ".yml" {
		var m map[string]interface{}
		if err := yaml.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		if data, err = json.MarshalIndent(m, "", "  "); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Storage.Backend != "file" && c.Storage.Backend != "sqlite" {
		return fmt.Errorf("storage.backend must be 'file' or 'sqlite'")
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	if c.Log.File && c.Log.FilePath == "" {
		return fmt.Errorf("log.file_path required when log.file is set")
	}
	if c.Log.MaxSize < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAge < 0 {
		return fmt.Errorf("log rotation limits must not be negative")
	}
	if c.Export.Dir == "" {
		return fmt.Errorf("export.dir is required")
	}
	if err := c.Defaults.Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	return nil
}
