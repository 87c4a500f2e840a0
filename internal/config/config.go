package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Policy   PolicyConfig
	Letter   LetterConfig
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
	AuditTopic         string
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
	OpsEmail   string
}

// PolicyConfig carries the credit-policy knobs. Threshold values are
// never echoed back to applicants.
type PolicyConfig struct {
	MinMonthlyIncome           float64
	MaxFoir                    float64
	InterestRateAnnual         float64
	CollaboratorTimeoutSeconds int
	SessionTTLMinutes          int
}

type LetterConfig struct {
	OutputDir       string
	CompanyName     string
	Website         string
	TokenTTLMinutes int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
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
			AuditTopic:         getEnv("INTAKE_AUDIT_TOPIC_NAME", "INTAKE_AUDIT"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "LoanAssist"),
			OpsEmail:   getEnv("OPS_ALERT_EMAIL", ""),
		},
		Policy: PolicyConfig{
			MinMonthlyIncome:           getEnvAsFloat("POLICY_MIN_MONTHLY_INCOME", 25000),
			MaxFoir:                    getEnvAsFloat("POLICY_MAX_FOIR", 0.45),
			InterestRateAnnual:         getEnvAsFloat("POLICY_INTEREST_RATE", 12.0),
			CollaboratorTimeoutSeconds: getEnvAsInt("COLLABORATOR_TIMEOUT_SECONDS", 30),
			SessionTTLMinutes:          getEnvAsInt("SESSION_TTL_MINUTES", 60),
		},
		Letter: LetterConfig{
			OutputDir:       getEnv("LETTER_OUTPUT_DIR", "generated_letters"),
			CompanyName:     getEnv("LETTER_COMPANY_NAME", "ARMEK Financial Services"),
			Website:         getEnv("LETTER_COMPANY_WEBSITE", "www.armekfinance.com"),
			TokenTTLMinutes: getEnvAsInt("LETTER_TOKEN_TTL_MINUTES", 120),
		},
	}
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
