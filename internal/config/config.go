package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// OAuth (identity is fully delegated to Google)
	GoogleClientID     string
	GoogleClientSecret string

	// Storage backend selection: "s3" or "drive"
	StorageProvider string

	// Storage - S3 (MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services

	// Storage - Google Drive
	DriveRefreshToken string
	DriveFolderID     string // Optional: parent folder for uploads

	// Search
	SearchMaxResults int

	// Rate limiting for the OAuth endpoints
	AuthRateLimit  int
	AuthRateWindow time.Duration

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
		AppName: envString("APP_NAME", "alnotes"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envRequired("APP_URL"), // Required: base URL for OAuth redirects
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/alnotes.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Security
		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days

		// OAuth
		GoogleClientID:     envRequired("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: envRequired("GOOGLE_CLIENT_SECRET"),

		// Storage
		StorageProvider: envString("STORAGE_PROVIDER", "s3"),
		S3Region:        envString("S3_REGION", ""),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers

		DriveRefreshToken: envString("DRIVE_REFRESH_TOKEN", ""),
		DriveFolderID:     envString("DRIVE_FOLDER_ID", ""),

		// Search
		SearchMaxResults: envInt("SEARCH_MAX_RESULTS", 50),

		// Rate limiting
		AuthRateLimit:  envInt("AUTH_RATE_LIMIT", 5),
		AuthRateWindow: envDuration("AUTH_RATE_WINDOW", 15*time.Minute),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	validateStorage(cfg)

	return cfg
}

// validateStorage ensures the selected storage backend has the credentials
// it needs. Failing at boot beats failing on the first upload.
func validateStorage(cfg *Config) {
	switch cfg.StorageProvider {
	case "s3":
		if cfg.S3Region == "" || cfg.S3Bucket == "" {
			slog.Error("s3 storage requires S3_REGION and S3_BUCKET",
				"hint", "set STORAGE_PROVIDER=drive to use Google Drive instead")
			os.Exit(1)
		}
	case "drive":
		if cfg.DriveRefreshToken == "" {
			slog.Error("drive storage requires DRIVE_REFRESH_TOKEN")
			os.Exit(1)
		}
	default:
		slog.Error("unknown storage provider", "provider", cfg.StorageProvider)
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

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
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
