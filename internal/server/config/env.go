package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values taken from environment variables.
// A .env file in the working directory is loaded first (development
// convenience); real environment variables win over file entries.
//
// Recognized variables:
//
//	ADDRESS            HTTP bind address
//	DATABASE_DSN       PostgreSQL DSN
//	JWT_SECRET         token signing secret
//	ACCESS_TOKEN_TTL   access token lifetime ("24h", "30m", ...)
//	REQUEST_TIMEOUT    per-request deadline ("10s", ...)
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.RequestTimeout = d
		}
	}
	if v := os.Getenv("S3_ROOT_USER"); v != "" {
		config.S3RootUser = v
	}
	if v := os.Getenv("S3_ROOT_PASSWORD"); v != "" {
		config.S3RootPassword = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		config.S3Bucket = v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		config.S3Region = v
	}
	if v := os.Getenv("S3_BASE_ENDPOINT"); v != "" {
		config.S3BaseEndpoint = v
	}
}
