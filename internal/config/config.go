package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWKSURL is the key set for tokens issued by securetoken.google.com
const DefaultJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

// Config holds process-level settings
type Config struct {
	Port string

	FirebaseProjectID string
	FirebaseAPIKey    string `json:"-"`
	// FirestoreBaseURL overrides the REST host, e.g. an emulator
	FirestoreBaseURL string
	IdentityBaseURL  string
	// FirebaseJWKSURL publishes the keys that sign ID tokens
	FirebaseJWKSURL string
	StoreTimeout    time.Duration

	// Optional backends; empty disables them
	MongoURI      string
	MongoDatabase string
	RedisURI      string

	LogMode string
}

// Load reads .env when present, then the environment
func Load() *Config {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	return &Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		FirebaseProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseAPIKey:    os.Getenv("FIREBASE_API_KEY"),
		FirestoreBaseURL:  firestoreBaseURL(),
		IdentityBaseURL:   getEnvOrDefault("IDENTITY_BASE_URL", "https://identitytoolkit.googleapis.com"),
		FirebaseJWKSURL:   getEnvOrDefault("FIREBASE_JWKS_URL", DefaultJWKSURL),
		StoreTimeout:      time.Duration(getEnvInt("STORE_TIMEOUT_MS", 15000)) * time.Millisecond,
		MongoURI:          os.Getenv("MONGO_URI"),
		MongoDatabase:     getEnvOrDefault("MONGO_DATABASE", "testgen"),
		RedisURI:          os.Getenv("REDIS_URI"),
		LogMode:           getEnvOrDefault("LOG_MODE", "dev"),
	}
}

func firestoreBaseURL() string {
	if v := os.Getenv("FIRESTORE_BASE_URL"); v != "" {
		return v
	}
	if host := os.Getenv("FIRESTORE_EMULATOR_HOST"); host != "" {
		if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
			return host
		}
		return "http://" + host
	}
	return ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
