package config

import (
	"fmt"
	"os"
)

// DefaultMaxUploadBytes caps a single image upload (6 MiB).
const DefaultMaxUploadBytes = 6 * 1024 * 1024

// Config holds the application configuration
type Config struct {
	// Server bind address (host:port)
	ServerAddr string

	// Base URL the server is reachable at (used in log output only)
	ServerURL string

	// Enable debug logging
	Debug bool

	// Signing secret for issued bearer tokens. Required: the server refuses
	// to start without it rather than falling back to a built-in default.
	JWTSecret string

	// Administrator identity and bcrypt password hash
	AdminUsername     string
	AdminPasswordHash string

	// Database connection string (DSN). When set, stories are persisted in
	// the database and persistence failures surface to clients. When empty,
	// the file-backed snapshot store at DataFile is used instead.
	DatabaseURL string

	// Path of the JSON snapshot document for the file-backed store
	DataFile string

	// Upload handling
	MaxUploadBytes int64
	UploadDir      string

	// S3-compatible object storage. When Endpoint is set, uploads are
	// forwarded there instead of UploadDir.
	S3 S3Config
}

// S3Config holds credentials for an S3-compatible object store (MinIO, AWS).
type S3Config struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Enabled reports whether object storage is configured.
func (c *S3Config) Enabled() bool {
	return c.Endpoint != ""
}

// Load reads configuration from environment variables with fallback defaults
func Load() (*Config, error) {
	cfg := &Config{
		ServerAddr:        getEnv("SERVER_ADDR", "localhost:8080"),
		ServerURL:         getEnv("SERVER_URL", "http://localhost:8080"),
		Debug:             getEnvBool("DEBUG", false),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		AdminUsername:     getEnv("ADMIN_USERNAME", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		DataFile:          getEnv("DATA_FILE", "data/stories.json"),
		MaxUploadBytes:    getEnvInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			Bucket:    getEnv("S3_BUCKET", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			UseSSL:    getEnvBool("S3_USE_SSL", true),
		},
	}

	// Refuse to operate with an absent signing secret instead of silently
	// falling back to a hardcoded default.
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.AdminUsername == "" {
		return nil, fmt.Errorf("ADMIN_USERNAME is required")
	}
	if cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH is required (generate one with 'storyapi admin hash-password')")
	}

	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	if cfg.S3.Enabled() {
		if cfg.S3.Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required when S3_ENDPOINT is set")
		}
		if cfg.S3.AccessKey == "" || cfg.S3.SecretKey == "" {
			return nil, fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY are required when S3_ENDPOINT is set")
		}
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt64 retrieves an integer environment variable or returns a default value
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		var result int64
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
