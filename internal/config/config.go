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
	// Gemini (image generation)
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	GeminiClient  string // "rest" or "sdk"

	// OpenAI Sora (video generation)
	OpenAIAPIKey        string
	OpenAIOrgID         string
	SoraBaseURL         string
	SoraModel           string
	SoraContentFallback bool

	// Supabase
	SupabaseURL            string
	SupabaseServiceRoleKey string
	ImagesBucket           string
	VideosBucket           string

	// Database (optional, direct Postgres instead of PostgREST)
	DatabaseURL string

	// Redis (optional, cross-instance archive locks)
	RedisURL string

	// Jobs
	SignedURLTTL  time.Duration
	GalleryLimit  int
	MaxUploadSize int64

	// Server
	Port               string
	Environment        string
	BaseURL            string
	CORSAllowedOrigins []string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash-image"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiClient:  getEnv("GEMINI_CLIENT", "rest"),

		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIOrgID:         getEnv("OPENAI_ORG_ID", ""),
		SoraBaseURL:         getEnv("SORA_BASE_URL", "https://api.openai.com/v1"),
		SoraModel:           getEnv("SORA_MODEL", "sora-2"),
		SoraContentFallback: getEnvBool("SORA_CONTENT_FALLBACK", true),

		SupabaseURL:            strings.TrimSuffix(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		ImagesBucket:           getEnv("SUPABASE_IMAGES_BUCKET", "hug-images"),
		VideosBucket:           getEnv("SUPABASE_VIDEOS_BUCKET", "hug-videos"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		SignedURLTTL:  time.Duration(getEnvInt("SIGNED_URL_TTL_HOURS", 24*7)) * time.Hour,
		GalleryLimit:  getEnvInt("GALLERY_LIMIT", 50),
		MaxUploadSize: int64(getEnvInt("MAX_UPLOAD_MB", 20)) << 20,

		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks only what the process cannot start without. Provider
// credentials are checked per request so a missing key surfaces as a
// configuration error on the affected endpoint.
func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceRoleKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY is required")
	}
	if c.GeminiClient != "rest" && c.GeminiClient != "sdk" {
		return fmt.Errorf("GEMINI_CLIENT must be \"rest\" or \"sdk\", got %q", c.GeminiClient)
	}
	if c.SignedURLTTL <= 0 {
		return fmt.Errorf("SIGNED_URL_TTL_HOURS must be positive")
	}
	if c.GalleryLimit <= 0 {
		return fmt.Errorf("GALLERY_LIMIT must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
