// Package llm provides centralized LLM configuration and client abstractions.
// This package enables easy switching of models and future multi-provider support.
package llm

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider (future)
	ProviderOpenAI Provider = "openai"
)

// Config holds the model configuration for extraction calls
type Config struct {
	Provider    Provider
	Model       string
	Temperature float32
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Model:       "gemini-2.5-flash",
		Temperature: 0.1, // low temperature for consistent structured output
	}
}

// WithModel returns a copy of the config using a specific model
func (c *Config) WithModel(model string) *Config {
	out := *c
	out.Model = model
	return &out
}
