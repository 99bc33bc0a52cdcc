package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// Gemini AI
	GeminiAPIKey string

	// Presence tracking
	PresenceWindowMinutes int

	// AI response cache
	AICacheEnabled  bool
	AICacheTTLHours int

	// SMTP
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// Notifications
	AdminEmail string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		RedisURL:    mustGetEnv("REDIS_URL"),
		JWTSecret:   mustGetEnv("JWT_SECRET"),

		GeminiAPIKey: mustGetEnv("GEMINI_API_KEY"),

		PresenceWindowMinutes: getEnvAsIntOrDefault("PRESENCE_WINDOW_MINUTES", 5),

		AICacheEnabled:  getEnvAsBoolOrDefault("AI_CACHE_ENABLED", true),
		AICacheTTLHours: getEnvAsIntOrDefault("AI_CACHE_TTL_HOURS", 24),

		SMTPHost: getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort: getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUser: getEnvOrDefault("SMTP_USER", ""),
		SMTPPass: getEnvOrDefault("SMTP_PASS", ""),
		SMTPFrom: getEnvOrDefault("SMTP_FROM", "noreply@joyland.school"),

		AdminEmail: getEnvOrDefault("ADMIN_EMAIL", "admin@joyland.school"),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
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

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
