// Package config loads worksheetgen settings from defaults, an optional YAML
// file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/worksheetgen/internal/llm"
	"github.com/abhisek/worksheetgen/internal/questiongen"
	"github.com/abhisek/worksheetgen/internal/server"
	"github.com/abhisek/worksheetgen/internal/tracing"
)

// Config is the full application configuration.
type Config struct {
	LLM     llm.Config     `yaml:"llm"`
	Server  server.Config  `yaml:"server"`
	Log     LogConfig      `yaml:"log"`
	Store   StoreConfig    `yaml:"store"`
	Tracing tracing.Config `yaml:"tracing"`
}

type LogConfig struct {
	// Mode is "development" (console) or "production" (JSON).
	Mode string `yaml:"mode"`
}

type StoreConfig struct {
	// Enabled turns the LLM usage log on.
	Enabled bool `yaml:"enabled"`

	// Path is the sqlite file. Empty means store.DefaultDBPath.
	Path string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LLM:    llm.DefaultConfig(),
		Server: server.DefaultConfig(),
		Log:    LogConfig{Mode: "development"},
		Store:  StoreConfig{Enabled: true},
		Tracing: tracing.Config{
			ServiceName: "worksheetgen",
			SampleRatio: 1,
		},
	}
}

// Dir returns ~/.config/worksheetgen.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "worksheetgen"), nil
}

// DefaultPath returns the config file used when --config is not given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load builds the configuration. An explicit path must exist; the default
// path is optional. getenv is usually os.Getenv.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	ApplyEnv(cfg, getenv)
	llm.Discover(&cfg.LLM, getenv)
	return cfg, nil
}

// ApplyEnv overrides cfg from WORKSHEETGEN_* and the standard OTEL_*
// variables.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	llm.ApplyEnv(&cfg.LLM, getenv)

	if v := strings.TrimSpace(getenv("WORKSHEETGEN_ADDR")); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(getenv("WORKSHEETGEN_ALLOWED_ORIGINS")); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	if v := strings.TrimSpace(getenv("WORKSHEETGEN_LOG_MODE")); v != "" {
		cfg.Log.Mode = v
	}
	if v := strings.TrimSpace(getenv("WORKSHEETGEN_DB")); v != "" {
		cfg.Store.Path = v
	}
	if v, ok := envBool(getenv("WORKSHEETGEN_STORE_ENABLED")); ok {
		cfg.Store.Enabled = v
	}

	if v, ok := envBool(getenv("OTEL_ENABLED")); ok {
		cfg.Tracing.Enabled = v
	}
	if v := strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT")); v != "" {
		cfg.Tracing.Endpoint = v
	}
	if h := tracing.ParseHeaders(getenv("OTEL_EXPORTER_OTLP_HEADERS")); h != nil {
		cfg.Tracing.Headers = h
	}
	if v, ok := envBool(getenv("OTEL_EXPORTER_OTLP_INSECURE")); ok {
		cfg.Tracing.Insecure = v
	}
	if v := strings.TrimSpace(getenv("OTEL_SAMPLER_RATIO")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Tracing.SampleRatio = f
		}
	}
}

// Generation returns the question generator settings.
func (c *Config) Generation() questiongen.Config {
	gc := questiongen.DefaultConfig()
	if c.LLM.MaxTokens > 0 {
		gc.MaxTokens = c.LLM.MaxTokens
	}
	if c.LLM.Temperature > 0 {
		gc.Temperature = c.LLM.Temperature
	}
	if c.LLM.Timeout > 0 {
		gc.Timeout = c.LLM.Timeout
	}
	return gc
}

// Save writes cfg as YAML to path, creating the directory. API keys are
// written too, so the file is private to the user.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func envBool(raw string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
