package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName      string
	AppEnv       string
	AppURL       string
	Port         string
	SupportEmail string
	ContentPath  string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Scripture text provider
	ScriptureAPIURL  string
	ScriptureAPIKey  string
	ScriptureBibleID string
	DownloadThrottle time.Duration

	// Admin console
	AdminEmail        string
	AdminPasswordHash string
	JWTSecret         string
	JWTExpiry         time.Duration
	LoginCodeExpiry   time.Duration

	// Messages
	MessageKeyB64 string

	// Email
	EmailFrom        string
	ResendAPIKey     string
	ResendAudienceID string

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:      envString("APP_NAME", "Shame to Flame"),
		AppEnv:       envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:       envString("APP_URL", "http://localhost:8090"),
		Port:         envString("PORT", "8090"),
		SupportEmail: envString("SUPPORT_EMAIL", "contact@shametoflame.faith"),
		ContentPath:  envString("CONTENT_PATH", "content"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/ministry.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Scripture text provider
		ScriptureAPIURL:  envString("SCRIPTURE_API_URL", "https://api.scripture.api.bible/v1"),
		ScriptureAPIKey:  envString("SCRIPTURE_API_KEY", ""),
		ScriptureBibleID: envString("SCRIPTURE_BIBLE_ID", "06125adad2d5898a-01"), // KJV
		DownloadThrottle: envDuration("DOWNLOAD_THROTTLE", 100*time.Millisecond),

		// Admin console
		AdminEmail:        envString("ADMIN_EMAIL", "contact@shametoflame.faith"),
		AdminPasswordHash: envString("ADMIN_PASSWORD_HASH", ""),
		JWTSecret:         envRequired("JWT_SECRET"),
		JWTExpiry:         envDuration("JWT_EXPIRY", 12*time.Hour),
		LoginCodeExpiry:   envDuration("LOGIN_CODE_EXPIRY", 10*time.Minute),

		// Messages (contact submissions are stored encrypted with this key)
		MessageKeyB64: envString("MESSAGE_ENCRYPTION_KEY_B64", ""),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:        envString("EMAIL_FROM", "noreply@shametoflame.faith"),
		ResendAPIKey:     envString("RESEND_API_KEY", ""),
		ResendAudienceID: envString("RESEND_AUDIENCE_ID", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production
// deployments. Development allows email and message encryption to use fallback
// modes for easier local testing.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
	if cfg.MessageKeyB64 == "" {
		slog.Error("production deployment requires MESSAGE_ENCRYPTION_KEY_B64",
			"hint", "32 random bytes, base64 encoded")
		os.Exit(1)
	}
	if cfg.AdminPasswordHash == "" {
		slog.Error("production deployment requires ADMIN_PASSWORD_HASH",
			"hint", "bcrypt hash of the admin console password")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
