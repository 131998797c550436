package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database config
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string // SQLite database file path

	// Auth config
	JWTSecret      string
	JWTExpiryHours int

	// App config
	Environment string
	Port        string

	// Admin seeding (optional; no admin is created when unset)
	AdminEmail    string
	AdminPassword string

	// Vehicle image storage
	UploadDir string

	// Optional S3 image storage; local disk is used when unset
	S3Bucket          string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string

	// Optional payment gateway
	RazorpayKey    string
	RazorpaySecret string
}

var AppConfig Config

// InitConfig initializes the application configuration from the
// environment. Required secrets have no built-in fallback: startup
// fails when they are absent.
func InitConfig() error {
	AppConfig = Config{
		DBDriver:          getEnv("DB_DRIVER", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            getEnv("DB_NAME", "cargo"),
		DBPath:            getEnv("DB_PATH", "./cargo.db"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTExpiryHours:    getEnvAsInt("JWT_EXPIRY_HOURS", 24),
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "5000"),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		UploadDir:         getEnv("UPLOAD_DIR", "./public/uploads/vehicles"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3Region:          os.Getenv("S3_REGION"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		RazorpayKey:       os.Getenv("RAZORPAY_KEY"),
		RazorpaySecret:    os.Getenv("RAZORPAY_SECRET"),
	}

	if AppConfig.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if AppConfig.DBDriver == "postgres" && AppConfig.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required for the postgres driver")
	}
	return nil
}

// UseS3 reports whether S3 image storage is fully configured.
func (c Config) UseS3() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// Helper function to get environment variable with fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get integer environment variable with fallback
func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// GetJWTExpiration returns JWT expiration time
func GetJWTExpiration() time.Duration {
	return time.Duration(AppConfig.JWTExpiryHours) * time.Hour
}

// IsDevelopment returns true if the application is running in development mode
func IsDevelopment() bool {
	return AppConfig.Environment == "development"
}
