package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for both services
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Gateway  GatewayConfig
	Seed     SeedConfig
}

// DatabaseConfig holds PostgreSQL connection parameters
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JWTConfig holds token issuance parameters
type JWTConfig struct {
	Secret           string
	AccessTokenHours int
	RefreshTokenDays int
}

// AccessTokenTTL returns the access token lifetime
func (j JWTConfig) AccessTokenTTL() time.Duration {
	return time.Duration(j.AccessTokenHours) * time.Hour
}

// RefreshTokenTTL returns the refresh token lifetime
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(j.RefreshTokenDays) * 24 * time.Hour
}

// GatewayConfig holds the gateway's ports and backend targets
type GatewayConfig struct {
	Port             string
	AuthServiceURL   string
	PadronServiceURL string
	VerifyTimeout    time.Duration
}

// SeedConfig controls role/permission bootstrap. The default catalog is
// built in; File points to a JSON override for deployments that need a
// different grant matrix.
type SeedConfig struct {
	File          string
	AdminPassword string
}

// LoadAuthService reads configuration for the auth service. JWT_SECRET has
// no default: token signing without an operator-provided secret is not
// permitted.
func LoadAuthService() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

// Load reads configuration from .env file and environment variables. The
// gateway holds no signing secret, so Load itself does not require one.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	accessHours, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_HOURS", "24"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "7"))
	verifySecs, _ := strconv.Atoi(getEnv("VERIFY_TIMEOUT_SECONDS", "5"))

	config := &Config{
		AppMode: appMode,
		Port:    getEnv("AUTH_PORT", "3002"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASS", ""),
			DBName:   getEnv("DB_NAME", "padron_electoral"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:           secret,
			AccessTokenHours: accessHours,
			RefreshTokenDays: refreshDays,
		},
		Gateway: GatewayConfig{
			Port:             getEnv("GATEWAY_PORT", "8080"),
			AuthServiceURL:   getEnv("AUTH_SERVICE_URL", "http://localhost:3002"),
			PadronServiceURL: getEnv("PADRON_SERVICE_URL", "http://localhost:3001"),
			VerifyTimeout:    time.Duration(verifySecs) * time.Second,
		},
		Seed: SeedConfig{
			File:          getEnv("SEED_FILE", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	if config.Seed.AdminPassword == "" {
		if appMode == "prod" {
			return nil, fmt.Errorf("ADMIN_PASSWORD is required in prod mode")
		}
		config.Seed.AdminPassword = "admin123"
	}

	log.Printf("Configuration loaded [MODE: %s]", appMode)
	return config, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" && c.IsDev() {
		return "*"
	}
	return origins
}
