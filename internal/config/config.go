package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Redis    RedisConfig
	Storage  StorageConfig
	PDF      PDFConfig
	Authz    AuthzConfig
	Payroll  PayrollConfig
	Google   GoogleOAuthConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name        string
	Version     string
	Port        int
	Env         string
	LogLevel    string
	CORSOrigins []string
}

// RedisConfig holds the payroll summary cache settings. An empty Addr disables caching.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	SummaryTTL time.Duration
}

type StorageConfig struct {
	Type     string // local or s3
	BasePath string
	BaseURL  string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3PathStyle bool
}

// PDFConfig configures headless Chrome for payslip PDFs.
type PDFConfig struct {
	RemoteURL string
	Timeout   time.Duration
	NoSandbox bool
}

type AuthzConfig struct {
	Mode                string
	AllowUnsafeDisabled bool
}

// GoogleOAuthConfig enables Google login when ClientID is set.
type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	FrontendURL  string
}

func (g GoogleOAuthConfig) Enabled() bool {
	return g.ClientID != ""
}

type PayrollConfig struct {
	RecomputeInterval time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs-payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:        getEnv("APP_NAME", "payroll-backend"),
		Version:     getEnv("APP_VERSION", "dev"),
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnvSlice("APP_CORS_ORIGINS", []string{"http://localhost:3000"}),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	summaryTTL, err := time.ParseDuration(getEnv("REDIS_SUMMARY_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_SUMMARY_TTL: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:       getEnv("REDIS_ADDR", ""),
		Password:   getEnv("REDIS_PASSWORD", ""),
		DB:         redisDB,
		SummaryTTL: summaryTTL,
	}

	// Storage configuration
	pathStyle, err := strconv.ParseBool(getEnv("STORAGE_S3_PATH_STYLE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORAGE_S3_PATH_STYLE: %w", err)
	}

	config.Storage = StorageConfig{
		Type:        getEnv("STORAGE_TYPE", "local"),
		BasePath:    getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:     getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
		S3Endpoint:  getEnv("STORAGE_S3_ENDPOINT", ""),
		S3Region:    getEnv("STORAGE_S3_REGION", "us-east-1"),
		S3Bucket:    getEnv("STORAGE_S3_BUCKET", ""),
		S3AccessKey: getEnv("STORAGE_S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("STORAGE_S3_SECRET_KEY", ""),
		S3PathStyle: pathStyle,
	}

	// PDF rendering
	pdfTimeout, err := time.ParseDuration(getEnv("PDF_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PDF_TIMEOUT: %w", err)
	}
	noSandbox, err := strconv.ParseBool(getEnv("PDF_NO_SANDBOX", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid PDF_NO_SANDBOX: %w", err)
	}

	config.PDF = PDFConfig{
		RemoteURL: getEnv("PDF_CHROME_URL", ""),
		Timeout:   pdfTimeout,
		NoSandbox: noSandbox,
	}

	config.Authz = AuthzConfig{
		Mode:                getEnv("AUTHZ_MODE", "enforce"),
		AllowUnsafeDisabled: getEnv("AUTHZ_UNSAFE_ALLOW_DISABLED", "") == "1",
	}

	recomputeInterval, err := time.ParseDuration(getEnv("PAYROLL_RECOMPUTE_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_RECOMPUTE_INTERVAL: %w", err)
	}
	config.Payroll = PayrollConfig{
		RecomputeInterval: recomputeInterval,
	}

	// OAuth2 Google configuration
	config.Google = GoogleOAuthConfig{
		ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/v1/auth/oauth/callback/google"),
		Scopes:       getEnvSlice("GOOGLE_SCOPES", []string{"openid", "email"}),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	switch c.Storage.Type {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("STORAGE_S3_BUCKET is required for s3 storage")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE %q", c.Storage.Type)
	}
	switch c.Authz.Mode {
	case "enforce", "shadow":
	case "disabled":
		if !c.Authz.AllowUnsafeDisabled {
			return fmt.Errorf("AUTHZ_MODE=disabled requires AUTHZ_UNSAFE_ALLOW_DISABLED=1")
		}
	default:
		return fmt.Errorf("unsupported AUTHZ_MODE %q", c.Authz.Mode)
	}
	if c.Google.Enabled() && c.Google.ClientSecret == "" {
		return fmt.Errorf("GOOGLE_CLIENT_SECRET is required when GOOGLE_CLIENT_ID is set")
	}
	if c.Payroll.RecomputeInterval <= 0 {
		return fmt.Errorf("PAYROLL_RECOMPUTE_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
