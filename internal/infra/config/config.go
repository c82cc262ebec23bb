package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the gateway.
type Config struct {
	HTTP  HTTPConfig  `yaml:"http"`
	NYT   NYTConfig   `yaml:"nyt"`
	LLM   LLMConfig   `yaml:"llm"`
	Hints HintsConfig `yaml:"hints"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string        `yaml:"address"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// NYTConfig points the upstream client at the puzzle provider.
type NYTConfig struct {
	BaseURL   string `yaml:"baseUrl"`
	UserAgent string `yaml:"userAgent"`
}

// LLMConfig contains hint model settings. The API key is never configured
// here; every request carries the caller's own key.
type LLMConfig struct {
	BaseURL   string `yaml:"baseUrl"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"maxTokens"`
}

// HintsConfig controls hint caching.
type HintsConfig struct {
	CacheTTL time.Duration `yaml:"cacheTtl"`
	Valkey   ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the cache store.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_READ_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.ReadTimeout = parsed
		}
	}
	if v := os.Getenv("HTTP_WRITE_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.WriteTimeout = parsed
		}
	}
	if v := os.Getenv("NYT_BASE_URL"); v != "" {
		cfg.NYT.BaseURL = v
	}
	if v := os.Getenv("NYT_USER_AGENT"); v != "" {
		cfg.NYT.UserAgent = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxTokens = parsed
		}
	}
	if v := os.Getenv("HINTS_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Hints.CacheTTL = parsed
		}
	}
	if v := os.Getenv("HINTS_VALKEY_ENABLED"); v != "" {
		cfg.Hints.Valkey.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HINTS_VALKEY_ADDR"); v != "" {
		cfg.Hints.Valkey.Addr = v
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:     ":8080",
			ReadTimeout: 10 * time.Second,
			// The write timeout has to outlast a full hint generation call.
			WriteTimeout: 90 * time.Second,
		},
		NYT: NYTConfig{
			BaseURL:   "https://www.nytimes.com",
			UserAgent: "",
		},
		LLM: LLMConfig{
			BaseURL:   "https://api.anthropic.com/v1",
			Model:     "claude-3-5-haiku-latest",
			MaxTokens: 4096,
		},
		Hints: HintsConfig{
			CacheTTL: 7 * 24 * time.Hour,
			Valkey: ValkeyConfig{
				Enabled: false,
				Addr:    "",
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.NYT.BaseURL) == "" {
		return errors.New("nyt.baseUrl cannot be empty")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm.maxTokens must be positive")
	}
	if c.Hints.CacheTTL < 0 {
		return errors.New("hints.cacheTtl cannot be negative")
	}
	if c.Hints.Valkey.Enabled && strings.TrimSpace(c.Hints.Valkey.Addr) == "" {
		return errors.New("hints.valkey.addr cannot be empty when the valkey cache is enabled")
	}
	return nil
}
