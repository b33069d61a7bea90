package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Auth
	SessionSecret string

	// Paywall
	PaywallEnabled       bool
	SubscriptionRequired bool
	TrialDays            int

	// AI Security
	AIRateLimitEnabled   bool
	AIMaxRequestsPerHour int
	MaxPromptLength      int
	AllowedModels        []string
	PromptIntegrityCheck bool
	ContentFilterEnabled bool

	// Generation
	GenerationAPIURL  string
	GenerationAPIKey  string
	GenerationTimeout time.Duration

	// Blog enrichment
	BlogFetchTimeout time.Duration
	BlogMaxSize      int64

	// Rate Limit (HTTP)
	RateLimitGeneral int

	// Server
	ServerPort string
	BaseURL    string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.PaywallEnabled = getEnvBool("PAYWALL_ENABLED", true)
	cfg.SubscriptionRequired = getEnvBool("SUBSCRIPTION_REQUIRED", false)
	cfg.TrialDays = getEnvInt("TRIAL_DAYS", 14)
	cfg.AIRateLimitEnabled = getEnvBool("AI_RATE_LIMIT_ENABLED", true)
	cfg.AIMaxRequestsPerHour = getEnvInt("AI_MAX_REQUESTS_PER_HOUR", 10)
	cfg.MaxPromptLength = getEnvInt("MAX_PROMPT_LENGTH", 4000)
	cfg.AllowedModels = getEnvList("ALLOWED_MODELS", []string{"gpt-4o-mini", "gpt-4o"})
	cfg.PromptIntegrityCheck = getEnvBool("PROMPT_INTEGRITY_CHECK", true)
	cfg.ContentFilterEnabled = getEnvBool("CONTENT_FILTER_ENABLED", false)
	cfg.GenerationAPIURL = getEnvString("GENERATION_API_URL", "https://api.openai.com/v1")
	cfg.GenerationAPIKey = getEnvString("GENERATION_API_KEY", "")
	cfg.GenerationTimeout = getEnvDuration("GENERATION_TIMEOUT", 120*time.Second)
	cfg.BlogFetchTimeout = getEnvDuration("BLOG_FETCH_TIMEOUT", 10*time.Second)
	cfg.BlogMaxSize = getEnvInt64("BLOG_MAX_SIZE", 5242880)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultVal
	}
	return result
}
