package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	Env       string
	ClientURL string // CORS origin, also the base of links sent by email
	UploadDir string
	Postgres  PostgresConfig
	Mongo     MongoConfig
	RedisURL  string
	Auth      AuthConfig
	Media     MediaConfig
	Email     EmailConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Metrics   bool
}

type PostgresConfig struct {
	URL string
}

type MongoConfig struct {
	URI          string
	Database     string
	Transactions bool
}

type AuthConfig struct {
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenSecret string
	RefreshTokenExpiry time.Duration
	VerificationTTL    time.Duration
	ResetPasswordTTL   time.Duration
	AllowedEmailDomain string
	SecureCookies      bool
}

type MediaConfig struct {
	Provider                string // cloudinary or firebase
	CloudinaryURL           string
	CloudinaryCloudName     string
	CloudinaryAPIKey        string
	CloudinaryAPISecret     string
	CloudinaryFolder        string
	FirebaseCredentialsPath string
	FirebaseBucket          string
}

type EmailConfig struct {
	Provider     string // smtp, resend or log
	From         string
	FromName     string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	ResendAPIKey string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type RateLimitConfig struct {
	ForgotPasswordCooldown time.Duration
}

// Load reads configuration from the environment. A .env file is loaded
// first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "8000"),
		Env:       getEnv("ENV", "development"),
		ClientURL: getEnv("CORS_ORIGIN", "http://localhost:5173"),
		UploadDir: getEnv("UPLOAD_TEMP_DIR", os.TempDir()),
		Postgres: PostgresConfig{
			URL: os.Getenv("POSTGRES_CONN_STR"),
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGODB_URI"),
			Database: getEnv("DB_NAME", "campusdiary"),
		},
		RedisURL: os.Getenv("REDIS_URL"),
		Auth: AuthConfig{
			AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
			RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
			AllowedEmailDomain: getEnv("ALLOWED_EMAIL_DOMAIN", "nitc.ac.in"),
		},
		Media: MediaConfig{
			Provider:                getEnv("MEDIA_PROVIDER", "cloudinary"),
			CloudinaryURL:           os.Getenv("CLOUDINARY_URL"),
			CloudinaryCloudName:     os.Getenv("CLOUDINARY_CLOUD_NAME"),
			CloudinaryAPIKey:        os.Getenv("CLOUDINARY_API_KEY"),
			CloudinaryAPISecret:     os.Getenv("CLOUDINARY_API_SECRET"),
			CloudinaryFolder:        getEnv("CLOUDINARY_FOLDER", "campus-diary"),
			FirebaseCredentialsPath: os.Getenv("FIREBASE_CREDENTIALS_PATH"),
			FirebaseBucket:          os.Getenv("FIREBASE_STORAGE_BUCKET"),
		},
		Email: EmailConfig{
			Provider:     getEnv("EMAIL_PROVIDER", "smtp"),
			From:         os.Getenv("EMAIL_USER"),
			FromName:     getEnv("EMAIL_FROM_NAME", "CampusDiary"),
			SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPUser:     os.Getenv("EMAIL_USER"),
			SMTPPassword: os.Getenv("EMAIL_PASS"),
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	var err error
	if cfg.Mongo.Transactions, err = getEnvBool("MONGO_TRANSACTIONS", false); err != nil {
		return nil, err
	}
	if cfg.Auth.SecureCookies, err = getEnvBool("COOKIE_SECURE", true); err != nil {
		return nil, err
	}
	if cfg.Metrics, err = getEnvBool("METRICS_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.Email.SMTPPort, err = getEnvInt("SMTP_PORT", 587); err != nil {
		return nil, err
	}

	if cfg.Auth.AccessTokenExpiry, err = ParseExpiry(getEnv("ACCESS_TOKEN_EXPIRY", "1d")); err != nil {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRY: %w", err)
	}
	if cfg.Auth.RefreshTokenExpiry, err = ParseExpiry(getEnv("REFRESH_TOKEN_EXPIRY", "10d")); err != nil {
		return nil, fmt.Errorf("invalid REFRESH_TOKEN_EXPIRY: %w", err)
	}
	if cfg.Auth.VerificationTTL, err = ParseExpiry(getEnv("VERIFICATION_TOKEN_EXPIRY", "24h")); err != nil {
		return nil, fmt.Errorf("invalid VERIFICATION_TOKEN_EXPIRY: %w", err)
	}
	resetMinutes, err := getEnvInt("RESET_PASSWORD_EXPIRY_MINUTES", 10)
	if err != nil {
		return nil, err
	}
	cfg.Auth.ResetPasswordTTL = time.Duration(resetMinutes) * time.Minute

	if cfg.RateLimit.ForgotPasswordCooldown, err = ParseExpiry(getEnv("FORGOT_PASSWORD_COOLDOWN", "60s")); err != nil {
		return nil, fmt.Errorf("invalid FORGOT_PASSWORD_COOLDOWN: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings the HTTP server cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.Mongo.URI == "" {
		missing = append(missing, "MONGODB_URI")
	}
	if c.Postgres.URL == "" {
		missing = append(missing, "POSTGRES_CONN_STR")
	}
	if c.Auth.AccessTokenSecret == "" {
		missing = append(missing, "ACCESS_TOKEN_SECRET")
	}
	if c.Auth.RefreshTokenSecret == "" {
		missing = append(missing, "REFRESH_TOKEN_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ParseExpiry parses a Go duration, also accepting a day suffix ("10d").
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		if n <= 0 {
			return 0, fmt.Errorf("expiry must be positive: %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("expiry must be positive: %q", s)
	}
	return d, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
