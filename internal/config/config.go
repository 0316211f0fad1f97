// Package config loads runtime settings and sets up the database connection.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	Port     string `mapstructure:"SERVER_PORT"`
	Env      string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	JWTSecret      string        `mapstructure:"JWT_SECRET_KEY"`
	TokenTTL       time.Duration `mapstructure:"TOKEN_TTL"`
	CookieSecure   bool          `mapstructure:"COOKIE_SECURE"`
	CookieSameSite string        `mapstructure:"COOKIE_SAMESITE"`
	AllowedOrigins string        `mapstructure:"ALLOWED_ORIGINS"`

	S3Endpoint      string `mapstructure:"S3_ENDPOINT"`
	S3Region        string `mapstructure:"S3_REGION"`
	S3Bucket        string `mapstructure:"S3_BUCKET"`
	S3AccessKey     string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey     string `mapstructure:"S3_SECRET_KEY"`
	S3PublicBaseURL string `mapstructure:"S3_PUBLIC_BASE_URL"`
	S3Folder        string `mapstructure:"S3_FOLDER"`
	S3UsePathStyle  bool   `mapstructure:"S3_USE_PATH_STYLE"`

	UploadsDir      string        `mapstructure:"UPLOADS_DIR"`
	MaxUploadFiles  int           `mapstructure:"MAX_UPLOAD_FILES"`
	FetchTimeout    time.Duration `mapstructure:"FETCH_TIMEOUT"`
	MaxFetchBytes   int64         `mapstructure:"MAX_FETCH_BYTES"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var defaults = map[string]any{
	"SERVER_PORT":        "4000",
	"APP_ENV":            "development",
	"LOG_LEVEL":          "info",
	"DB_HOST":            "",
	"DB_PORT":            "5432",
	"DB_USER":            "",
	"DB_PASSWORD":        "",
	"DB_NAME":            "",
	"DB_SSLMODE":         "disable",
	"JWT_SECRET_KEY":     "",
	"TOKEN_TTL":          "0s",
	"COOKIE_SECURE":      false,
	"COOKIE_SAMESITE":    "lax",
	"ALLOWED_ORIGINS":    "",
	"S3_ENDPOINT":        "",
	"S3_REGION":          "us-east-1",
	"S3_BUCKET":          "",
	"S3_ACCESS_KEY":      "",
	"S3_SECRET_KEY":      "",
	"S3_PUBLIC_BASE_URL": "",
	"S3_FOLDER":          "uploads",
	"S3_USE_PATH_STYLE":  false,
	"UPLOADS_DIR":        "uploads",
	"MAX_UPLOAD_FILES":   100,
	"FETCH_TIMEOUT":      "30s",
	"MAX_FETCH_BYTES":    20 << 20,
	"SHUTDOWN_TIMEOUT":   "5s",
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	cfg.DBSSLMode = strings.ToLower(strings.TrimSpace(cfg.DBSSLMode))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate ensures that required configuration values are present.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if c.DBHost == "" || c.DBPort == "" || c.DBUser == "" || c.DBName == "" {
		return errors.New("database environment variables not set (DB_HOST, DB_PORT, DB_USER, DB_NAME)")
	}
	if c.S3Bucket == "" {
		return errors.New("S3_BUCKET is required")
	}
	if len(c.Origins()) == 0 {
		return errors.New("ALLOWED_ORIGINS is required")
	}
	if c.TokenTTL < 0 {
		return errors.New("TOKEN_TTL must not be negative")
	}
	if c.MaxUploadFiles <= 0 {
		return errors.New("MAX_UPLOAD_FILES must be positive")
	}
	if c.MaxFetchBytes <= 0 {
		return errors.New("MAX_FETCH_BYTES must be positive")
	}
	switch strings.ToLower(c.CookieSameSite) {
	case "lax", "strict":
	case "none":
		if !c.CookieSecure {
			return errors.New("COOKIE_SAMESITE=none requires COOKIE_SECURE=true")
		}
	default:
		return fmt.Errorf("unknown COOKIE_SAMESITE %q", c.CookieSameSite)
	}
	return nil
}

// Origins returns the trimmed, non-empty entries of ALLOWED_ORIGINS.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) SameSite() http.SameSite {
	switch strings.ToLower(c.CookieSameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// DSN builds a libpq-style connection string for pgx.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
