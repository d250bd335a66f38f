// Package config provides configuration for the chat backend.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the backend configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Completion provider settings
	ProviderBaseURL string
	ProviderAPIKey  string
	ProviderModel   string
	ProviderMode    string
	ProviderTimeout time.Duration

	// Prompting
	SystemPrompt string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		HTTPPort:        getEnvInt("PORT", 3001),
		DatabaseURL:     getEnv("DATABASE_URL", "file:chats.db?cache=shared&mode=rwc"),
		ProviderBaseURL: getEnv("PROVIDER_BASE_URL", "https://openrouter.ai/api"),
		ProviderAPIKey:  getEnv("PROVIDER_API_KEY", ""),
		ProviderModel:   getEnv("PROVIDER_MODEL", "anthropic/claude-3.5-sonnet"),
		ProviderMode:    getEnv("PROVIDER_MODE", ""),
		ProviderTimeout: time.Duration(getEnvInt("PROVIDER_TIMEOUT_MS", 300000)) * time.Millisecond,
		SystemPrompt:    getEnv("SYSTEM_PROMPT", "You are a helpful AI assistant."),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
