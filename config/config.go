package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB     int    `mapstructure:"REDIS_CACHE_DB"`
	RedisChatDB      int    `mapstructure:"REDIS_CHAT_DB"`
	RedisQueueDB     int    `mapstructure:"REDIS_QUEUE_DB"`

	// Scheduling rules.
	BusinessTimeZone     string `mapstructure:"BUSINESS_TIME_ZONE"`
	SlotLengthMinutes    int    `mapstructure:"SLOT_LENGTH_MINUTES"`
	BookingLeadTimeDays  int    `mapstructure:"BOOKING_LEAD_TIME_DAYS"`
	MaxFutureBookingDays int    `mapstructure:"MAX_FUTURE_BOOKING_DAYS"`
	SlotHorizonDays      int    `mapstructure:"SLOT_HORIZON_DAYS"`

	// Confirmation token TTLs, in hours.
	ConfirmationTTLEmailHours int `mapstructure:"CONFIRMATION_TTL_EMAIL_HOURS"`
	ConfirmationTTLChatHours  int `mapstructure:"CONFIRMATION_TTL_CHAT_HOURS"`

	// Chat / WhatsApp.
	PhoneCountryPrefix    string `mapstructure:"PHONE_COUNTRY_PREFIX"`
	WhatsAppPhoneNumberID string `mapstructure:"WHATSAPP_PHONE_NUMBER_ID"`
	WhatsAppAccessToken   string `mapstructure:"WHATSAPP_ACCESS_TOKEN"`
	WhatsAppVerifyToken   string `mapstructure:"WHATSAPP_VERIFY_TOKEN"`

	// Email.
	SMTPHost  string `mapstructure:"SMTP_HOST"`
	SMTPPort  string `mapstructure:"SMTP_PORT"`
	SMTPUser  string `mapstructure:"SMTP_USER"`
	SMTPPass  string `mapstructure:"SMTP_PASS"`
	EmailFrom string `mapstructure:"EMAIL_FROM"`

	// Public-facing.
	FrontendURL        string `mapstructure:"FRONTEND_URL"`
	RecaptchaSecretKey string `mapstructure:"RECAPTCHA_SECRET_KEY"`
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
	viper.SetDefault("REDIS_CHAT_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "agenda")
	viper.SetDefault("BUSINESS_TIME_ZONE", "America/Santiago")
	viper.SetDefault("SLOT_LENGTH_MINUTES", 60)
	viper.SetDefault("BOOKING_LEAD_TIME_DAYS", 1)
	viper.SetDefault("MAX_FUTURE_BOOKING_DAYS", 90)
	viper.SetDefault("SLOT_HORIZON_DAYS", 30)
	viper.SetDefault("CONFIRMATION_TTL_EMAIL_HOURS", 48)
	viper.SetDefault("CONFIRMATION_TTL_CHAT_HOURS", 2)
	viper.SetDefault("PHONE_COUNTRY_PREFIX", "56")
	viper.SetDefault("FRONTEND_URL", "http://localhost:5173")

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

// BusinessLocation resolves the configured business time zone, falling back to UTC.
func BusinessLocation() *time.Location {
	loc, err := time.LoadLocation(AppConfig.BusinessTimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ConfirmationTTLEmail returns the token TTL for the email confirmation path.
func ConfirmationTTLEmail() time.Duration {
	return time.Duration(AppConfig.ConfirmationTTLEmailHours) * time.Hour
}

// ConfirmationTTLChat returns the token TTL for the chat confirmation path.
func ConfirmationTTLChat() time.Duration {
	return time.Duration(AppConfig.ConfirmationTTLChatHours) * time.Hour
}
