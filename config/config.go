package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigin        string `mapstructure:"CORS_ORIGIN"`

	// Backend Checkout API (the authoritative state machine).
	CheckoutAPIURL       string `mapstructure:"CHECKOUT_API_URL"`
	CheckoutAPITimeoutMs int    `mapstructure:"CHECKOUT_API_TIMEOUT_MS"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Session record lifecycle.
	SessionStore  string `mapstructure:"SESSION_STORE"` // "redis" or "memory"
	SessionTTLMin int    `mapstructure:"SESSION_TTL_MIN"`
	FlowIdleMin   int    `mapstructure:"FLOW_IDLE_MIN"`

	// Checkout flow tuning.
	RecoveryMaxAttempts int `mapstructure:"RECOVERY_MAX_ATTEMPTS"`
	QuoteDebounceMs     int `mapstructure:"QUOTE_DEBOUNCE_MS"`
	FinalizeMaxWaitMs   int `mapstructure:"FINALIZE_MAX_WAIT_MS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("CORS_ORIGIN", "*")
	viper.SetDefault("CHECKOUT_API_URL", "http://localhost:3001")
	viper.SetDefault("CHECKOUT_API_TIMEOUT_MS", 10000)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("SESSION_STORE", "redis")
	viper.SetDefault("SESSION_TTL_MIN", 30)
	viper.SetDefault("FLOW_IDLE_MIN", 45)
	viper.SetDefault("RECOVERY_MAX_ATTEMPTS", 2)
	viper.SetDefault("QUOTE_DEBOUNCE_MS", 500)
	viper.SetDefault("FINALIZE_MAX_WAIT_MS", 10000)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
