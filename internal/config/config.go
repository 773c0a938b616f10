package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Gemini    GeminiConfig
	Redis     RedisConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	Reminders RemindersConfig
}

type ServerConfig struct {
	Port string
	Host string
	Mode string // gin mode: debug | release | test
}

type DatabaseConfig struct {
	Driver string // postgres | sqlite
	DSN    string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type RateLimitConfig struct {
	RPS     float64
	Burst   int
	Backend string // memory | redis
}

type RemindersConfig struct {
	Interval  time.Duration
	Lookahead time.Duration
	Email     string // reminder recipient; empty disables email delivery
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("GIN_MODE", "debug")

	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_DSN", "host=localhost user=postgres password=password dbname=applyos port=5432 sslmode=disable")

	viper.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")

	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("MINIO_ENDPOINT", "")
	viper.SetDefault("MINIO_ACCESS_KEY", "")
	viper.SetDefault("MINIO_SECRET_KEY", "")
	viper.SetDefault("MINIO_BUCKET", "applyos-documents")
	viper.SetDefault("MINIO_USE_SSL", false)

	viper.SetDefault("RATE_LIMIT_RPS", 5.0)
	viper.SetDefault("RATE_LIMIT_BURST", 10)
	viper.SetDefault("RATE_LIMIT_BACKEND", "memory")

	viper.SetDefault("REMINDER_INTERVAL", "1h")
	viper.SetDefault("REMINDER_LOOKAHEAD", "72h")
	viper.SetDefault("REMINDER_EMAIL", "")

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Host: viper.GetString("SERVER_HOST"),
			Mode: viper.GetString("GIN_MODE"),
		},
		Database: DatabaseConfig{
			Driver: viper.GetString("DB_DRIVER"),
			DSN:    viper.GetString("DB_DSN"),
		},
		Gemini: GeminiConfig{
			APIKey: viper.GetString("GEMINI_API_KEY"),
			Model:  viper.GetString("GEMINI_MODEL"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Storage: StorageConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: viper.GetString("MINIO_SECRET_KEY"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
		},
		RateLimit: RateLimitConfig{
			RPS:     viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:   viper.GetInt("RATE_LIMIT_BURST"),
			Backend: viper.GetString("RATE_LIMIT_BACKEND"),
		},
		Reminders: RemindersConfig{
			Interval:  viper.GetDuration("REMINDER_INTERVAL"),
			Lookahead: viper.GetDuration("REMINDER_LOOKAHEAD"),
			Email:     viper.GetString("REMINDER_EMAIL"),
		},
	}

	return cfg, nil
}
