package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings sourced from environment variables.
type Config struct {
	API        APIConfig        `mapstructure:"api"`
	Database   DatabaseConfig   `mapstructure:"database"`
	LocalStore LocalStoreConfig `mapstructure:"local_store"`
	Redis      RedisConfig      `mapstructure:"redis"`
	MinIO      MinIOConfig      `mapstructure:"minio"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Limits     LimitsConfig     `mapstructure:"limits"`
	Clamd      ClamdConfig      `mapstructure:"clamd"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	CookieDomain   string   `mapstructure:"cookie_domain"`
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// LocalStoreConfig locates the SQLite file backing the guest tier.
type LocalStoreConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig contains Redis connection settings.
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Bucket          string `mapstructure:"bucket"`
}

// AuthConfig carries the RSA key material and token lifetimes.
type AuthConfig struct {
	PrivateKeyPEM   string        `mapstructure:"private_key_pem"`
	PublicKeyPEM    string        `mapstructure:"public_key_pem"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

// LimitsConfig bounds per-account usage and login abuse.
type LimitsConfig struct {
	MaxResumes            int           `mapstructure:"max_resumes"`
	LoginRateLimitPerHour int           `mapstructure:"login_rate_limit_per_hour"`
	LoginLockThreshold    int           `mapstructure:"login_lock_threshold"`
	LoginLockTTL          time.Duration `mapstructure:"login_lock_ttl"`
}

// ClamdConfig locates the virus scanner used for resume imports.
type ClamdConfig struct {
	Addr string `mapstructure:"addr"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Addr returns host:port for the Redis client.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "hydrahunt")
	v.SetDefault("database.user", "hydrahunt")
	v.SetDefault("database.password", "hydrahunt")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("local_store.path", "hydrahunt-local.db")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "resume-exports")
	v.SetDefault("auth.access_token_ttl", 15*time.Minute)
	v.SetDefault("auth.refresh_token_ttl", 7*24*time.Hour)
	v.SetDefault("limits.max_resumes", 50)
	v.SetDefault("limits.login_rate_limit_per_hour", 10)
	v.SetDefault("limits.login_lock_threshold", 5)
	v.SetDefault("limits.login_lock_ttl", 15*time.Minute)
	v.SetDefault("clamd.addr", "tcp://localhost:3310")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                         "API_PORT",
		"api.allowed_origins":              "API_ALLOWED_ORIGINS",
		"api.cookie_domain":                "API_COOKIE_DOMAIN",
		"database.host":                    "DATABASE_HOST",
		"database.port":                    "DATABASE_PORT",
		"database.name":                    "POSTGRES_DB",
		"database.user":                    "POSTGRES_USER",
		"database.password":                "POSTGRES_PASSWORD",
		"database.sslmode":                 "DATABASE_SSLMODE",
		"local_store.path":                 "LOCAL_STORE_PATH",
		"redis.host":                       "REDIS_HOST",
		"redis.port":                       "REDIS_PORT",
		"minio.endpoint":                   "MINIO_ENDPOINT",
		"minio.access_key_id":              "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":          "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":                    "MINIO_USE_SSL",
		"minio.bucket":                     "MINIO_BUCKET",
		"auth.private_key_pem":             "AUTH_PRIVATE_KEY_PEM",
		"auth.public_key_pem":              "AUTH_PUBLIC_KEY_PEM",
		"auth.access_token_ttl":            "AUTH_ACCESS_TOKEN_TTL",
		"auth.refresh_token_ttl":           "AUTH_REFRESH_TOKEN_TTL",
		"limits.max_resumes":               "LIMITS_MAX_RESUMES",
		"limits.login_rate_limit_per_hour": "LIMITS_LOGIN_RATE_PER_HOUR",
		"limits.login_lock_threshold":      "LIMITS_LOGIN_LOCK_THRESHOLD",
		"limits.login_lock_ttl":            "LIMITS_LOGIN_LOCK_TTL",
		"clamd.addr":                       "CLAMD_ADDR",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.Database.Host == "" {
		return errors.New("database host is required")
	}
	if cfg.Database.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if cfg.Database.Name == "" {
		return errors.New("database name is required")
	}
	if cfg.Database.User == "" {
		return errors.New("database user is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("database password is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	if cfg.LocalStore.Path == "" {
		return errors.New("local store path is required")
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if cfg.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	if cfg.Auth.AccessTokenTTL <= 0 {
		return errors.New("auth access token ttl must be positive")
	}
	if cfg.Auth.RefreshTokenTTL <= 0 {
		return errors.New("auth refresh token ttl must be positive")
	}
	if cfg.Limits.MaxResumes < 0 {
		return errors.New("limits max resumes must not be negative")
	}
	return nil
}
