// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mlehane/shelfscout/internal/llm"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// LoadLLMConfig builds provider configuration from viper settings, falling
// back to the conventional environment variables for API keys.
func LoadLLMConfig() llm.Config {
	cfg := llm.Config{
		Provider:        viper.GetString("llm.provider"),
		GeminiAPIKey:    keyFromConfigOrEnv("llm.gemini_api_key", "GOOGLE_API_KEY"),
		OpenAIAPIKey:    keyFromConfigOrEnv("llm.openai_api_key", "OPENAI_API_KEY"),
		AnthropicAPIKey: keyFromConfigOrEnv("llm.anthropic_api_key", "ANTHROPIC_API_KEY"),
		GeminiModel:     viper.GetString("llm.gemini_model"),
		OpenAIModel:     viper.GetString("llm.openai_model"),
		AnthropicModel:  viper.GetString("llm.anthropic_model"),
		Temperature:     viper.GetFloat64("llm.temperature"),
		MaxTokens:       viper.GetInt("llm.max_tokens"),
		Timeout:         viper.GetDuration("llm.timeout"),
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return cfg
}

// DatabasePath returns the configured library database path with tilde and
// environment variables expanded.
func DatabasePath() string {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/shelfscout/shelfscout.db"
	}
	return ExpandPath(dbPath)
}

// UserID returns the configured library owner identifier.
func UserID() string {
	userID := viper.GetString("library.user_id")
	if userID == "" {
		userID = "default"
	}
	return userID
}

func keyFromConfigOrEnv(configKey, envVar string) string {
	if key := viper.GetString(configKey); key != "" {
		return key
	}
	return os.Getenv(envVar)
}
