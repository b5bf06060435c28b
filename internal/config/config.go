package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	APIToken string

	DBDriver   string
	DBPath     string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	// External collaborators
	BillingBaseURL string
	BillingToken   string
	MailerBaseURL  string
	MailerToken    string
	AssetsBaseURL  string
	AssetsToken    string
	AgendaBaseURL  string

	// Realtime delivery-status feed from the mail provider
	DeliveryFeedURL string
	WebhookToken    string

	WhatsAppToken string
	PhoneNumberID string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		APIToken: getEnv("API_TOKEN", ""),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "./crm.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "crm"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "crm"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		BillingBaseURL: getEnv("BILLING_BASE_URL", ""),
		BillingToken:   getEnv("BILLING_TOKEN", ""),
		MailerBaseURL:  getEnv("MAILER_BASE_URL", ""),
		MailerToken:    getEnv("MAILER_TOKEN", ""),
		AssetsBaseURL:  getEnv("ASSETS_BASE_URL", ""),
		AssetsToken:    getEnv("ASSETS_TOKEN", ""),
		AgendaBaseURL:  getEnv("AGENDA_BASE_URL", ""),

		DeliveryFeedURL: getEnv("DELIVERY_FEED_URL", ""),
		WebhookToken:    getEnv("WEBHOOK_TOKEN", ""),

		WhatsAppToken: getEnv("WHATSAPP_TOKEN", ""),
		PhoneNumberID: getEnv("PHONE_NUMBER_ID", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
