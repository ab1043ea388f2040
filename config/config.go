package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Firebase service account for FCM pushes. Pushes are disabled when empty.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Queue policy. Capacity and durations are configuration, not
	// constants, so deployments can tune them per clinic.
	SlotCapacity       int `mapstructure:"SLOT_CAPACITY"`
	ServiceMinutes     int `mapstructure:"SERVICE_MINUTES"`
	ArrivalLeadMinutes int `mapstructure:"ARRIVAL_LEAD_MINUTES"`
	BookingWindowDays  int `mapstructure:"BOOKING_WINDOW_DAYS"`
}

// QueuePolicy bundles the queue tuning knobs handed to the booking service.
type QueuePolicy struct {
	Capacity           int
	ServiceMinutes     int
	ArrivalLeadMinutes int
	WindowDays         int
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
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	viper.SetDefault("SLOT_CAPACITY", 5)
	viper.SetDefault("SERVICE_MINUTES", 12)
	viper.SetDefault("ARRIVAL_LEAD_MINUTES", 10)
	viper.SetDefault("BOOKING_WINDOW_DAYS", 30)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// Policy returns the loaded queue policy.
func Policy() QueuePolicy {
	return QueuePolicy{
		Capacity:           AppConfig.SlotCapacity,
		ServiceMinutes:     AppConfig.ServiceMinutes,
		ArrivalLeadMinutes: AppConfig.ArrivalLeadMinutes,
		WindowDays:         AppConfig.BookingWindowDays,
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
