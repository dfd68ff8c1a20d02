package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string
	DatabaseURL      string
	EncryptionSecret string
	JWTSecret        string
	Storage          StorageConfig
	Telegram         TelegramConfig
	Chat             ChatConfig
	Session          SessionConfig
}

type StorageConfig struct {
	URL    string
	Key    string
	Bucket string
}

type TelegramConfig struct {
	Token      string
	NotifyChat int64
}

type ChatConfig struct {
	HistoryLimit int
	Model        string
	MaxTokens    int
	Temperature  float64
}

type SessionConfig struct {
	RateLimit  int
	RateWindow time.Duration
}

// Load reads configuration from the environment. DATABASE_URL,
// ENCRYPTION_SECRET and JWT_SECRET are required; everything else has a
// default or disables its feature when empty.
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("PORT", "8080")
	v.SetDefault("STORAGE_BUCKET", "logos")
	v.SetDefault("CHAT_HISTORY_LIMIT", 40)
	v.SetDefault("CHAT_MODEL", "gpt-3.5-turbo")
	v.SetDefault("CHAT_MAX_TOKENS", 200)
	v.SetDefault("CHAT_TEMPERATURE", 0.7)
	v.SetDefault("SESSION_RATE_LIMIT", 10)
	v.SetDefault("SESSION_RATE_WINDOW_SECONDS", 60)

	// Enable environment variable support
	v.AutomaticEnv()

	config := &Config{
		Port:             v.GetString("PORT"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		EncryptionSecret: v.GetString("ENCRYPTION_SECRET"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		Storage: StorageConfig{
			URL:    v.GetString("STORAGE_URL"),
			Key:    v.GetString("STORAGE_KEY"),
			Bucket: v.GetString("STORAGE_BUCKET"),
		},
		Telegram: TelegramConfig{
			Token:      v.GetString("TELEGRAM_BOT_TOKEN"),
			NotifyChat: v.GetInt64("TELEGRAM_NOTIFY_CHAT"),
		},
		Chat: ChatConfig{
			HistoryLimit: v.GetInt("CHAT_HISTORY_LIMIT"),
			Model:        v.GetString("CHAT_MODEL"),
			MaxTokens:    v.GetInt("CHAT_MAX_TOKENS"),
			Temperature:  v.GetFloat64("CHAT_TEMPERATURE"),
		},
		Session: SessionConfig{
			RateLimit:  v.GetInt("SESSION_RATE_LIMIT"),
			RateWindow: time.Duration(v.GetInt("SESSION_RATE_WINDOW_SECONDS")) * time.Second,
		},
	}

	if config.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if config.EncryptionSecret == "" {
		return nil, errors.New("ENCRYPTION_SECRET is required")
	}
	if config.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}
