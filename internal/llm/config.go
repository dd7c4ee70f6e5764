package llm

import (
	"fmt"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string `yaml:"provider"`

	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`

	// Temperature and MaxTokens are the sampling settings sent with every
	// worksheet request.
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`

	// Timeout bounds a single provider call, streaming included. Default: 120s.
	Timeout time.Duration `yaml:"timeout"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "claude-haiku"
	BaseURL string `yaml:"base_url"` // Optional.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "gpt-4o"
	BaseURL string `yaml:"base_url"` // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"` // Default: "gemini-flash"
	BaseURL string `yaml:"base_url"`
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "openai/gpt-4o"
	BaseURL string `yaml:"base_url"` // Default: "https://openrouter.ai/api/v1"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:    "openai",
		Anthropic:   AnthropicConfig{Model: "claude-haiku"},
		OpenAI:      OpenAIConfig{Model: "gpt-4o"},
		Gemini:      GeminiConfig{Model: "gemini-flash"},
		OpenRouter:  OpenRouterConfig{Model: "openai/gpt-4o"},
		Temperature: 0.7,
		MaxTokens:   4096,
		Timeout:     120 * time.Second,
	}
}

// ApplyEnv overrides cfg with WORKSHEETGEN_* variables read through
// getenv. Unset variables leave the current value alone.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&cfg.Provider, "WORKSHEETGEN_LLM_PROVIDER")

	set(&cfg.Anthropic.APIKey, "WORKSHEETGEN_ANTHROPIC_API_KEY")
	set(&cfg.Anthropic.Model, "WORKSHEETGEN_ANTHROPIC_MODEL")

	set(&cfg.OpenAI.APIKey, "WORKSHEETGEN_OPENAI_API_KEY")
	set(&cfg.OpenAI.Model, "WORKSHEETGEN_OPENAI_MODEL")
	set(&cfg.OpenAI.BaseURL, "WORKSHEETGEN_OPENAI_BASE_URL")

	set(&cfg.Gemini.APIKey, "WORKSHEETGEN_GEMINI_API_KEY")
	set(&cfg.Gemini.Model, "WORKSHEETGEN_GEMINI_MODEL")

	set(&cfg.OpenRouter.APIKey, "WORKSHEETGEN_OPENROUTER_API_KEY")
	set(&cfg.OpenRouter.Model, "WORKSHEETGEN_OPENROUTER_MODEL")
}

// Discover fills in a provider from the vendors' standard API key
// variables when cfg has no usable key yet. Probe order: OpenAI, Anthropic,
// Gemini, OpenRouter. Returns false when nothing was found.
func Discover(cfg *Config, getenv func(string) string) bool {
	if cfg.Validate() == nil {
		return true
	}

	if k := getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return true
	}
	if k := getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return true
	}
	if k := getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return true
	}
	if k := getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return true
	}
	return false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("WORKSHEETGEN_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("WORKSHEETGEN_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("WORKSHEETGEN_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("WORKSHEETGEN_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

// ModelFor returns the configured model name for the selected provider.
func (c Config) ModelFor() string {
	switch c.Provider {
	case "anthropic":
		return resolveModel(c.Anthropic.Model, anthropicModels)
	case "openai":
		return resolveModel(c.OpenAI.Model, openaiModels)
	case "gemini":
		return resolveModel(c.Gemini.Model, geminiModels)
	case "openrouter":
		return c.OpenRouter.Model
	case "mock":
		return "mock"
	}
	return ""
}
