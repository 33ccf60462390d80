package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPrompt       = "tsh> "
	DefaultMaxJobs      = 16
	DefaultPollInterval = 50 * time.Millisecond
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"
)

type Config struct {
	Prompt       string        `yaml:"prompt"`
	PromptColor  string        `yaml:"prompt_color"`
	EmitPrompt   *bool         `yaml:"emit_prompt"`
	HistoryFile  string        `yaml:"history_file"`
	HomeDir      string        `yaml:"home_dir"`
	MaxJobs      int           `yaml:"max_jobs"`
	PollInterval time.Duration `yaml:"poll_interval"`
	LogLevel     string        `yaml:"log_level"`
	LogFormat    string        `yaml:"log_format"`
}

// Load reads the YAML file (a missing file yields defaults), then applies
// the optional dotenv file and TSH_* environment overrides.
func Load(file, envFile string) (*Config, error) {
	cfg := &Config{}
	if file != "" {
		data, err := os.ReadFile(file)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", file, err)
			}
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.fill(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Default returns a configuration built only from defaults.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.fill()
	return cfg
}

func (c *Config) fill() error {
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}
	if c.MaxJobs == 0 {
		c.MaxJobs = DefaultMaxJobs
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}

	if c.HomeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.HomeDir = home
	}
	if c.HistoryFile == "" {
		c.HistoryFile = filepath.Join(c.HomeDir, ".tsh_history")
	}
	return nil
}

func (c *Config) Validate() error {
	if c.MaxJobs < 1 {
		return fmt.Errorf("max_jobs must be positive, got %d", c.MaxJobs)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// ShouldEmitPrompt reports the configured prompt setting, falling back to
// def when the file and environment say nothing.
func (c *Config) ShouldEmitPrompt(def bool) bool {
	if c.EmitPrompt == nil {
		return def
	}
	return *c.EmitPrompt
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TSH_PROMPT"); v != "" {
		c.Prompt = v
	}
	if v := os.Getenv("TSH_PROMPT_COLOR"); v != "" {
		c.PromptColor = v
	}
	if v := os.Getenv("TSH_HISTORY_FILE"); v != "" {
		c.HistoryFile = v
	}
	if v := os.Getenv("TSH_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TSH_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("TSH_EMIT_PROMPT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TSH_EMIT_PROMPT: %w", err)
		}
		c.EmitPrompt = &b
	}
	if v := os.Getenv("TSH_MAX_JOBS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TSH_MAX_JOBS: %w", err)
		}
		c.MaxJobs = n
	}
	if v := os.Getenv("TSH_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TSH_POLL_INTERVAL: %w", err)
		}
		c.PollInterval = d
	}
	return nil
}
