package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "FIRESTORE_BASE_URL", "FIRESTORE_EMULATOR_HOST", "STORE_TIMEOUT_MS", "LOG_MODE", "MONGO_URI", "REDIS_URI", "FIREBASE_JWKS_URL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "", cfg.FirestoreBaseURL)
	require.Equal(t, 15*time.Second, cfg.StoreTimeout)
	require.Equal(t, "dev", cfg.LogMode)
	require.Empty(t, cfg.MongoURI)
	require.Empty(t, cfg.RedisURI)
	require.Equal(t, DefaultJWKSURL, cfg.FirebaseJWKSURL)
}

func TestLoadEmulatorHost(t *testing.T) {
	t.Setenv("FIRESTORE_BASE_URL", "")
	t.Setenv("FIRESTORE_EMULATOR_HOST", "localhost:8081")
	require.Equal(t, "http://localhost:8081", Load().FirestoreBaseURL)

	t.Setenv("FIRESTORE_BASE_URL", "https://store.internal")
	require.Equal(t, "https://store.internal", Load().FirestoreBaseURL)
}

func TestDefaultAIConfigProviders(t *testing.T) {
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("AI_BASE_URL", "")
	t.Setenv("AI_MODEL", "")
	t.Setenv("AI_API_KEY", "")
	t.Setenv("HF_API_KEY", "hf-key")
	t.Setenv("AI_TEMPERATURE", "")
	t.Setenv("AI_MAX_TOKENS", "")

	cfg := DefaultAIConfig()
	require.Equal(t, ProviderHuggingFace, cfg.Provider)
	require.True(t, cfg.IsEnabled())
	require.Equal(t, 0.7, cfg.Temperature)
	require.Equal(t, 2000, cfg.MaxTokens)
	require.Equal(t, "https://api-inference.huggingface.co/models/mistralai/Mistral-7B-Instruct-v0.2", cfg.ModelEndpoint())

	t.Setenv("AI_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("AI_API_KEY", "generic")
	cfg = DefaultAIConfig()
	require.Equal(t, ProviderOpenAI, cfg.Provider)
	require.Equal(t, "generic", cfg.APIKey)
	require.Equal(t, "https://api.openai.com/v1/chat/completions", cfg.ModelEndpoint())

	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("AI_API_KEY", "")
	cfg = DefaultAIConfig()
	require.False(t, cfg.IsEnabled())
	require.Equal(t, "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent", cfg.ModelEndpoint())
}

func TestNilAIConfigIsDisabled(t *testing.T) {
	var cfg *AIConfig
	require.False(t, cfg.IsEnabled())
}
