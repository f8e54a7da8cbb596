package config

import (
	"os"
	"strings"
	"time"
)

// OTP policy constants. These are product decisions, not deploy-time knobs:
// changing the attempt ceiling or cooldown silently changes the abuse profile,
// so they live in code where a review sees them.
const (
	OTPLength         = 6
	OTPValidity       = 10 * time.Minute
	OTPResendCooldown = 5 * time.Minute
	OTPMaxAttempts    = 3
	SessionDuration   = 7 * 24 * time.Hour
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string // "development" | "production"

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTables DynamoTables
	S3BucketName string

	JWTSecret string

	SMSProvider     string // "console" | "sns" | "vonage"
	SMSFrom         string
	VonageAPIKey    string
	VonageAPISecret string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users      string
	Properties string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTables: DynamoTables{
			Users:      getEnv("DYNAMO_TABLE_USERS", "users"),
			Properties: getEnv("DYNAMO_TABLE_PROPERTIES", "properties"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "propertyhub-images"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		SMSProvider:     getEnv("SMS_PROVIDER", "console"),
		SMSFrom:         getEnv("SMS_FROM", "PropertyHub"),
		VonageAPIKey:    getEnv("VONAGE_API_KEY", ""),
		VonageAPISecret: getEnv("VONAGE_API_SECRET", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// IsProduction reports whether the service runs with production policy:
// the OTP resend cooldown is enforced, codes are never echoed in responses,
// and session cookies carry the Secure flag.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
