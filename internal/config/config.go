package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Gateway  GatewayConfig
	Telegram TelegramConfig
	Engine   EngineConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	MailTopicName      string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type GatewayConfig struct {
	ServerKey    string
	IrisKey      string
	IsProduction bool
}

type TelegramConfig struct {
	BotToken string
}

// EngineConfig tunes the background lifecycle machinery.
type EngineConfig struct {
	SweepInterval    time.Duration
	ReminderInterval time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			MailTopicName:      getEnv("PAYMENT_CONFIRMED_TOPIC_NAME", "PAYMENT_CONFIRMED"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "ChannelPass"),
		},
		Gateway: GatewayConfig{
			ServerKey:    getEnv("MIDTRANS_SERVER_KEY", ""),
			IrisKey:      getEnv("MIDTRANS_IRIS_KEY", ""),
			IsProduction: getEnv("MIDTRANS_IS_PRODUCTION", "false") == "true",
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		},
		Engine: EngineConfig{
			SweepInterval:    getEnvAsDuration("SWEEP_INTERVAL", time.Hour),
			ReminderInterval: getEnvAsDuration("REMINDER_INTERVAL", 6*time.Hour),
		},
	}
}

// Validate reports every required credential that is missing, so a broken
// deploy fails once at boot instead of per-request.
func (c *Config) Validate() error {
	var missing []string
	if c.Database.Connection == "" {
		missing = append(missing, "DB_CONNECTION_STRING")
	}
	if c.Gateway.ServerKey == "" {
		missing = append(missing, "MIDTRANS_SERVER_KEY")
	}
	if c.Telegram.BotToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if os.Getenv("JWT_SECRET") == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
