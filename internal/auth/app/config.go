package app

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer    string // Issuer claim for tokens (default: doorman)
	AppOrigin string // Web frontend base URL, embedded in emails (default: http://localhost:3000)
	APIBase   string // This service's public base URL, used for magic-link callbacks

	JWTSecret        string        // Required: HMAC secret for access tokens
	JWTRefreshSecret string        // Required: HMAC secret for refresh tokens
	AccessTTL        time.Duration // Access token lifetime (default: 15m)
	RefreshTTL       time.Duration // Refresh token / session lifetime (default: 720h)

	VerifyTTL time.Duration // Email-verification code lifetime (default: 45m)
	ResetTTL  time.Duration // Password-reset code lifetime (default: 1h)
	MagicTTL  time.Duration // Magic-link lifetime (default: 10m)

	MailerSender string // Sender line for outbound email, e.g. `Doorman <auth@example.com>`
	ResendAPIKey string // Optional: Resend API key; emails are logged when unset

	DatabaseFile         string        // Path to SQLite database file (default: ./doorman.db)
	PepperFile           string        // Path to password pepper file (default: ./pepper)
	SecureCookies        bool          // Mark auth cookies Secure (default: true outside dev)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:    getEnvOrDefault("AUTH_ISSUER", "doorman"),
		AppOrigin: getEnvOrDefault("APP_ORIGIN", "http://localhost:3000"),
		APIBase:   getEnvOrDefault("API_BASE_URL", "http://localhost:8080"),

		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		AccessTTL:        getEnvDurationOrDefault("JWT_EXPIRES_IN", 15*time.Minute),
		RefreshTTL:       getEnvDurationOrDefault("JWT_REFRESH_EXPIRES_IN", 30*24*time.Hour),

		VerifyTTL: getEnvDurationOrDefault("EMAIL_VERIFY_TTL", 45*time.Minute),
		ResetTTL:  getEnvDurationOrDefault("PASSWORD_RESET_TTL", time.Hour),
		MagicTTL:  getEnvDurationOrDefault("MAGIC_LINK_TTL", 10*time.Minute),

		MailerSender: getEnvOrDefault("MAILER_SENDER", "Doorman <no-reply@localhost>"),
		ResendAPIKey: os.Getenv("RESEND_API_KEY"),

		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "doorman.db"),
		PepperFile:           getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	cfg.SecureCookies = cfg.Env != "dev"
	if v := os.Getenv("SECURE_COOKIES"); v != "" {
		cfg.SecureCookies = v == "true" || v == "1"
	}

	return cfg
}

// Validate rejects configurations the service cannot run with.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTRefreshSecret == "" {
		return errors.New("JWT_REFRESH_SECRET is required")
	}
	if c.JWTSecret == c.JWTRefreshSecret {
		return errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
