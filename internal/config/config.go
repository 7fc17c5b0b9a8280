package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Inference
	LLMProvider             string
	GeminiAPIKey            string
	GeminiModel             string
	OpenAIAPIKey            string
	OpenAIModel             string
	OpenAIBaseURL           string
	InferenceConcurrentReqs int
	DefaultMaxTokens        int
	MaxTokensLimit          int

	// Rate limiting
	RateLimitPerMin int
	RedisURL        string

	// Service auth
	ServiceTokenSecret string

	// Frontend
	FrontendURL string
}

// ChatConfig configures the chat client binary.
type ChatConfig struct {
	Port               string
	Env                string
	BackendURL         string
	BackendTimeout     time.Duration
	SessionIdleTimeout time.Duration
	ServiceTokenSecret string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                    getEnvOrDefault("PORT", "8000"),
		Env:                     getEnvOrDefault("ENV", "development"),
		LLMProvider:             strings.ToLower(getEnvOrDefault("LLM_PROVIDER", "gemini")),
		GeminiModel:             getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenAIModel:             getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:           getEnvOrDefault("OPENAI_BASE_URL", ""),
		InferenceConcurrentReqs: getEnvAsIntOrDefault("INFERENCE_CONCURRENT_REQUESTS", 5),
		DefaultMaxTokens:        getEnvAsIntOrDefault("DEFAULT_MAX_TOKENS", 150),
		MaxTokensLimit:          getEnvAsIntOrDefault("MAX_TOKENS_LIMIT", 1024),
		RateLimitPerMin:         getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 30),
		RedisURL:                getEnvOrDefault("REDIS_URL", ""),
		ServiceTokenSecret:      getEnvOrDefault("SERVICE_TOKEN_SECRET", ""),
		FrontendURL:             getEnvOrDefault("FRONTEND_URL", "http://localhost:8501"),
	}

	switch cfg.LLMProvider {
	case "gemini":
		cfg.GeminiAPIKey = mustGetEnv("GEMINI_API_KEY")
	case "openai":
		cfg.OpenAIAPIKey = mustGetEnv("OPENAI_API_KEY")
	default:
		panic(fmt.Sprintf("unsupported LLM_PROVIDER %q (want gemini or openai)", cfg.LLMProvider))
	}

	return cfg
}

func LoadChat() *ChatConfig {
	godotenv.Load()

	return &ChatConfig{
		Port:               getEnvOrDefault("CHAT_PORT", "8501"),
		Env:                getEnvOrDefault("ENV", "development"),
		BackendURL:         strings.TrimRight(getEnvOrDefault("BACKEND_URL", "http://localhost:8000"), "/"),
		BackendTimeout:     getEnvAsDurationOrDefault("BACKEND_TIMEOUT", 60*time.Second),
		SessionIdleTimeout: getEnvAsDurationOrDefault("SESSION_IDLE_TIMEOUT", 2*time.Hour),
		ServiceTokenSecret: getEnvOrDefault("SERVICE_TOKEN_SECRET", ""),
	}
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// getEnvAsDurationOrDefault accepts Go durations ("90s") or plain seconds ("90").
func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(val); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return defaultVal
}
