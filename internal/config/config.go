package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	Uploads  UploadsConfig  `yaml:"uploads"`
	Limits   LimitsConfig   `yaml:"limits"`
	Security SecurityConfig `yaml:"security"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type AppConfig struct {
	Env        string `yaml:"env"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Secret     string `yaml:"secret"`
	SchoolName string `yaml:"school_name"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite3 or postgres
	DSN    string `yaml:"dsn"`
}

type SessionConfig struct {
	// Signed appends an HMAC to the session cookie. Off by default so that
	// cookies issued as plain "{userId}:{role}" keep working.
	Signed bool `yaml:"signed"`
}

type UploadsConfig struct {
	Path      string `yaml:"path"`
	URLPrefix string `yaml:"url_prefix"`
}

type LimitsConfig struct {
	MaxUploadSize int64 `yaml:"max_upload_size"` // bytes
	PageSize      int   `yaml:"page_size"`
}

type SecurityConfig struct {
	// LegacyPlaintextPasswords accepts passwords stored before hashing was
	// introduced and rehashes them on first successful login.
	LegacyPlaintextPasswords bool `yaml:"legacy_plaintext_passwords"`
	LoginRateLimit           int  `yaml:"login_rate_limit"` // attempts per minute per IP, 0 = off
}

type MetricsConfig struct {
	Enabled    bool     `yaml:"enabled"`
	AllowedIPs []string `yaml:"allowed_ips"`
}

func Load() (*Config, error) {
	return LoadFile("config.yaml")
}

// LoadFile builds the configuration from defaults, then the YAML file at path
// (if it exists), then .env and environment variables.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:        "development",
			Host:       "127.0.0.1",
			Port:       8080,
			Secret:     "change-me-in-production",
			SchoolName: "SMK Negeri",
		},
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "file:./data/enscho.db?_foreign_keys=on&_busy_timeout=5000",
		},
		Uploads: UploadsConfig{
			Path:      "./data/uploads",
			URLPrefix: "/uploads",
		},
		Limits: LimitsConfig{
			MaxUploadSize: 5 * 1024 * 1024, // 5MB
			PageSize:      10,
		},
		Security: SecurityConfig{
			LegacyPlaintextPasswords: true,
			LoginRateLimit:           10,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// .env only fills variables that are not already set
	_ = godotenv.Load()

	if env := os.Getenv("APP_ENV"); env != "" {
		cfg.App.Env = env
	}
	if host := os.Getenv("APP_HOST"); host != "" {
		cfg.App.Host = host
	}
	if port := os.Getenv("APP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.App.Port = p
		}
	}
	if secret := os.Getenv("APP_SECRET"); secret != "" {
		cfg.App.Secret = secret
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		cfg.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if signed := os.Getenv("SESSION_SIGNED"); signed != "" {
		cfg.Session.Signed = parseBool(signed, cfg.Session.Signed)
	}
	if uploads := os.Getenv("UPLOADS_PATH"); uploads != "" {
		cfg.Uploads.Path = uploads
	}
	if maxUpload := os.Getenv("MAX_UPLOAD_SIZE"); maxUpload != "" {
		if v, err := strconv.ParseInt(maxUpload, 10, 64); err == nil {
			cfg.Limits.MaxUploadSize = v
		}
	}
	if legacy := os.Getenv("LEGACY_PLAINTEXT_PASSWORDS"); legacy != "" {
		cfg.Security.LegacyPlaintextPasswords = parseBool(legacy, cfg.Security.LegacyPlaintextPasswords)
	}
	if metrics := os.Getenv("METRICS_ENABLED"); metrics != "" {
		cfg.Metrics.Enabled = parseBool(metrics, cfg.Metrics.Enabled)
	}

	if cfg.Limits.PageSize <= 0 {
		cfg.Limits.PageSize = 10
	}
	cfg.Uploads.URLPrefix = "/" + strings.Trim(cfg.Uploads.URLPrefix, "/")

	return cfg, nil
}

func parseBool(s string, fallback bool) bool {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return v
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
