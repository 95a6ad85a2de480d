package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Marketplace backend.
	APIBaseURL  string        `mapstructure:"API_BASE_URL"`
	HTTPTimeout time.Duration `mapstructure:"HTTP_TIMEOUT"`

	// Realtime push channel.
	RealtimeURL            string        `mapstructure:"REALTIME_URL"`
	RealtimeJoinMode       string        `mapstructure:"REALTIME_JOIN_MODE"`
	RealtimeReconnectDelay time.Duration `mapstructure:"REALTIME_RECONNECT_DELAY"`

	// Pages.
	LoginPath    string `mapstructure:"LOGIN_PATH"`
	Currency     string `mapstructure:"CURRENCY"`
	CheckoutName string `mapstructure:"CHECKOUT_NAME"`

	// Credential slot.
	CredentialStore string        `mapstructure:"CREDENTIAL_STORE"`
	CredentialSlot  string        `mapstructure:"CREDENTIAL_SLOT"`
	CredentialKey   string        `mapstructure:"CREDENTIAL_KEY"`
	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB  int           `mapstructure:"REDIS_SESSION_DB"`
	SessionTTL      time.Duration `mapstructure:"SESSION_TTL"`

	// System push.
	PushEnabled             bool   `mapstructure:"PUSH_ENABLED"`
	FirebaseCredentialsPath string `mapstructure:"FIREBASE_CREDENTIALS_PATH"`
	PushDeviceToken         string `mapstructure:"PUSH_DEVICE_TOKEN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// SetDefaults registers every key with viper so AutomaticEnv can resolve it
// during Unmarshal even when no config file is present.
func SetDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)

	viper.SetDefault("API_BASE_URL", "http://localhost:5000")
	viper.SetDefault("HTTP_TIMEOUT", 0)

	viper.SetDefault("REALTIME_URL", "ws://localhost:5000/ws")
	viper.SetDefault("REALTIME_JOIN_MODE", "token")
	viper.SetDefault("REALTIME_RECONNECT_DELAY", 5*time.Second)

	viper.SetDefault("LOGIN_PATH", "/login")
	viper.SetDefault("CURRENCY", "INR")
	viper.SetDefault("CHECKOUT_NAME", "Hoofix")

	viper.SetDefault("CREDENTIAL_STORE", "memory")
	viper.SetDefault("CREDENTIAL_SLOT", "dashboard")
	viper.SetDefault("CREDENTIAL_KEY", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("SESSION_TTL", 24*time.Hour)

	viper.SetDefault("PUSH_ENABLED", false)
	viper.SetDefault("FIREBASE_CREDENTIALS_PATH", "")
	viper.SetDefault("PUSH_DEVICE_TOKEN", "")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

func UsesRedisCredentials() bool {
	return AppConfig.CredentialStore == "redis"
}
