package config

import (
	"os"
	"strings"
)

// Supported text generation providers
const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderGemini      = "gemini"
)

var defaultBaseURLs = map[string]string{
	ProviderHuggingFace: "https://api-inference.huggingface.co/models",
	ProviderOpenAI:      "https://api.openai.com/v1",
	ProviderGemini:      "https://generativelanguage.googleapis.com/v1beta/models",
}

var defaultModels = map[string]string{
	ProviderHuggingFace: "mistralai/Mistral-7B-Instruct-v0.2",
	ProviderOpenAI:      "gpt-4o-mini",
	ProviderGemini:      "gemini-2.0-flash",
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	Provider    string  `json:"provider"`
	APIKey      string  `json:"-"` // Never serialize
	BaseURL     string  `json:"baseUrl"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
	TimeoutMS   int     `json:"timeoutMs"`
}

// DefaultAIConfig returns the AI configuration from the environment
func DefaultAIConfig() *AIConfig {
	provider := strings.ToLower(getEnvOrDefault("AI_PROVIDER", ProviderHuggingFace))
	if _, ok := defaultModels[provider]; !ok {
		provider = ProviderHuggingFace
	}
	return &AIConfig{
		Provider:    provider,
		APIKey:      apiKeyFor(provider),
		BaseURL:     getEnvOrDefault("AI_BASE_URL", defaultBaseURLs[provider]),
		Model:       getEnvOrDefault("AI_MODEL", defaultModels[provider]),
		Temperature: getEnvFloat("AI_TEMPERATURE", 0.7),
		MaxTokens:   getEnvInt("AI_MAX_TOKENS", 2000),
		TimeoutMS:   getEnvInt("AI_TIMEOUT_MS", 60000), // generation of 20 questions is slow
	}
}

// provider-specific key names win over the generic one
func apiKeyFor(provider string) string {
	var specific string
	switch provider {
	case ProviderHuggingFace:
		specific = os.Getenv("HF_API_KEY")
	case ProviderOpenAI:
		specific = os.Getenv("OPENAI_API_KEY")
	case ProviderGemini:
		specific = os.Getenv("GEMINI_API_KEY")
	}
	if specific != "" {
		return specific
	}
	return os.Getenv("AI_API_KEY")
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c != nil && c.APIKey != ""
}

// ModelEndpoint returns the full endpoint of the configured model
func (c *AIConfig) ModelEndpoint() string {
	base := strings.TrimRight(c.BaseURL, "/")
	switch c.Provider {
	case ProviderOpenAI:
		return base + "/chat/completions"
	case ProviderGemini:
		return base + "/" + c.Model + ":generateContent"
	default:
		return base + "/" + c.Model
	}
}
