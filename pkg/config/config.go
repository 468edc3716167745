package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	// Storage
	StoreDriver string // "memory", "sqlite" or "postgres"
	SQLitePath  string
	DatabaseURL string

	JWTSecret       string
	JWTAccessExpiry time.Duration

	// AI advice provider
	AIProvider    string // "auto", "gemini", "ollama" or "none"
	GeminiAPIKey  string
	GeminiModel   string
	OllamaBaseURL string
	OllamaModel   string
	AITimeout     time.Duration

	FirebaseCredentials string
	ReminderInterval    time.Duration

	// Timezone used to turn date-only deadlines into start-of-day timestamps
	Timezone string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("STORE_DRIVER", "sqlite")
	v.SetDefault("SQLITE_PATH", "taskflow.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	v.SetDefault("AI_PROVIDER", "auto")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("OLLAMA_BASE_URL", "http://localhost:11434")
	v.SetDefault("OLLAMA_MODEL", "llama3")
	v.SetDefault("FIREBASE_CREDENTIALS", "")
	v.SetDefault("TIMEZONE", "UTC")

	return &Config{
		Port:                v.GetString("PORT"),
		GinMode:             v.GetString("GIN_MODE"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		LogFormat:           v.GetString("LOG_FORMAT"),
		StoreDriver:         v.GetString("STORE_DRIVER"),
		SQLitePath:          v.GetString("SQLITE_PATH"),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		JWTAccessExpiry:     durationOr(v, "JWT_ACCESS_EXPIRY", 24*time.Hour),
		AIProvider:          v.GetString("AI_PROVIDER"),
		GeminiAPIKey:        v.GetString("GEMINI_API_KEY"),
		GeminiModel:         v.GetString("GEMINI_MODEL"),
		OllamaBaseURL:       v.GetString("OLLAMA_BASE_URL"),
		OllamaModel:         v.GetString("OLLAMA_MODEL"),
		AITimeout:           durationOr(v, "AI_TIMEOUT", 10*time.Second),
		FirebaseCredentials: v.GetString("FIREBASE_CREDENTIALS"),
		ReminderInterval:    durationOr(v, "REMINDER_INTERVAL", time.Minute),
		Timezone:            v.GetString("TIMEZONE"),
	}
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Warn().Err(err).Msgf("[Config] Unknown TIMEZONE %q, using UTC", c.Timezone)
		return time.UTC
	}
	return loc
}

func durationOr(v *viper.Viper, key string, defaultValue time.Duration) time.Duration {
	raw := v.GetString(key)
	if raw == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}
