package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. OLLAMA_CHAT_DEFAULT_MODEL.
const EnvPrefix = "OLLAMA_CHAT"

// Global configuration structure.
type Global struct {
	DefaultModel string  `mapstructure:"default_model" yaml:"default_model"`
	Temperature  float64 `mapstructure:"temperature" yaml:"temperature"`
	SystemPrompt string  `mapstructure:"system_prompt" yaml:"system_prompt"`
	// Tokenizer used for history budgeting: gpt2 (BPE) or heuristic.
	Tokenizer string `mapstructure:"tokenizer" yaml:"tokenizer"`

	// Models catalog file (JSON or YAML); merged over the built-in profiles unless models_merge is false.
	ModelsCatalog string `mapstructure:"models_catalog" yaml:"models_catalog"`
	ModelsMerge   bool   `mapstructure:"models_merge" yaml:"models_merge"`

	// Terminal
	RenderMarkdown bool   `mapstructure:"render_markdown" yaml:"render_markdown"`
	HistoryFile    string `mapstructure:"history_file" yaml:"history_file"`

	// HTTP/Retry configuration
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`

	// Local runtime (Ollama)
	OllamaHost       string `mapstructure:"ollama_host" yaml:"ollama_host"`
	OllamaTimeoutSec int    `mapstructure:"ollama_timeout_sec" yaml:"ollama_timeout_sec"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"default_model",
	"temperature",
	"system_prompt",
	"tokenizer",
	"models_catalog",
	"models_merge",
	"render_markdown",
	"history_file",
	"retry_max_attempts",
	"retry_base_delay_ms",
	"retry_max_delay_ms",
	"ollama_host",
	"ollama_timeout_sec",
}

// Dir returns the configuration directory, ~/.ollama-chat.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".ollama-chat"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.ollama-chat/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command-line flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("default_model", "llama3.2:1b")
	v.SetDefault("temperature", 0.0)
	v.SetDefault("system_prompt", "")
	v.SetDefault("tokenizer", "gpt2")
	v.SetDefault("models_catalog", "")
	v.SetDefault("models_merge", true)
	v.SetDefault("render_markdown", true)
	v.SetDefault("history_file", "")
	// Retry defaults: a single attempt, no retry
	v.SetDefault("retry_max_attempts", 1)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
	// Ollama defaults
	v.SetDefault("ollama_host", "http://127.0.0.1:11434")
	v.SetDefault("ollama_timeout_sec", 120)

	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// A missing file is fine; a malformed one is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.HistoryFile == "" {
		c.HistoryFile = filepath.Join(dir, "input_history")
	}
	return &c, nil
}
