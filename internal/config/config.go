package config

import (
	"os"
	"strconv"
	"time"
)

// Data sources understood by DATA_SOURCE.
const (
	DataSourcePostgres = "postgres"
	DataSourceMemory   = "memory"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	ConnMaxIdleTimeSec int
	ConnectRetries     int
	ApplicationName    string
	AutoMigrate        bool
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PresignExpiry time.Duration
}

// AuthConfig controls session token issuing and password hashing.
type AuthConfig struct {
	JWTSecret  string
	Issuer     string
	TokenTTL   time.Duration
	BcryptCost int
}

// RateLimitConfig throttles the unauthenticated auth endpoints per client.
type RateLimitConfig struct {
	LoginRPS   float64
	LoginBurst int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost    string
	Port       string
	Timezone   string
	LogLevel   string
	DataSource string
	SeedFile   string
	Database   DatabaseConfig
	MinIO      MinIOConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:    getEnv("APP_HOST", "localhost:8080"),
		Port:       getEnv("PORT", "8080"),
		Timezone:   getEnv("APP_TIMEZONE", "UTC"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		DataSource: getEnv("DATA_SOURCE", DataSourcePostgres),
		SeedFile:   getEnv("SEED_FILE", ""),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			ConnMaxIdleTimeSec: getEnvInt("DB_CONN_MAX_IDLE_TIME_SEC", 60),
			ConnectRetries:     getEnvInt("DB_CONNECT_RETRIES", 5),
			ApplicationName:    getEnv("DB_APPLICATION_NAME", "lendflow"),
			AutoMigrate:        getEnvBool("DB_AUTO_MIGRATE", true),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", ""),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:     getEnv("MINIO_SECRET_KEY", ""),
			Bucket:        getEnv("MINIO_BUCKET", ""),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PresignExpiry: getEnvDuration("MINIO_PRESIGN_EXPIRY", 15*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("AUTH_JWT_SECRET", ""),
			Issuer:     getEnv("AUTH_JWT_ISSUER", "lendflow"),
			TokenTTL:   getEnvDuration("AUTH_TOKEN_TTL", 24*time.Hour),
			BcryptCost: getEnvInt("AUTH_BCRYPT_COST", 10),
		},
		RateLimit: RateLimitConfig{
			LoginRPS:   getEnvFloat("RATE_LIMIT_LOGIN_RPS", 1),
			LoginBurst: getEnvInt("RATE_LIMIT_LOGIN_BURST", 5),
		},
	}
}

// Location resolves Timezone, falling back to UTC for unknown zones.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
