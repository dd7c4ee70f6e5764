package questiongen

import "time"

// Config controls the behavior of the Generator.
type Config struct {
	// MaxTokens is the token budget for the model response. A 50-question
	// worksheet with explanations needs several thousand tokens.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// Timeout bounds the single provider call. Zero means no extra bound
	// beyond the caller's context. Expiry counts as a transport failure.
	Timeout time.Duration
}

// DefaultConfig returns the recommended generation settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.7,
		Timeout:     120 * time.Second,
	}
}
