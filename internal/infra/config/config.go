package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// EnvDevelopment is the environment name that enables diagnostic pages.
	EnvDevelopment = "Development"
	// EnvProduction is the default environment name.
	EnvProduction = "Production"

	envPrefix         = "CONTOSO"
	baseSettingsFile  = "appsettings.json"
	environmentEnvKey = "CONTOSO_ENVIRONMENT"
	contentRootEnvKey = "CONTOSO_CONTENT_ROOT"
)

// ErrMissingConnectionString is returned when ConnectionStrings:DefaultConnection is empty.
var ErrMissingConnectionString = errors.New("connection string 'DefaultConnection' not found")

// ErrMissingJWTSecret is returned when authorization is enabled without a
// signing secret.
var ErrMissingJWTSecret = errors.New("auth.jwt_secret is required when auth.enabled is true")

// Config holds all application configuration.
type Config struct {
	Environment       string                  `mapstructure:"-"`
	ContentRoot       string                  `mapstructure:"-"`
	ConnectionStrings ConnectionStringsConfig `mapstructure:"connectionstrings"`
	Server            ServerConfig            `mapstructure:"server"`
	Database          DatabaseConfig          `mapstructure:"database"`
	Redis             RedisConfig             `mapstructure:"redis"`
	Cache             CacheConfig             `mapstructure:"cache"`
	Auth              AuthConfig              `mapstructure:"auth"`
	RateLimit         RateLimitConfig         `mapstructure:"rate_limit"`
	CORS              CORSConfig              `mapstructure:"cors"`
	Log               LogConfig               `mapstructure:"log"`
}

// IsDevelopment reports whether the application runs in the Development environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, EnvDevelopment)
}

// ConnectionStringsConfig mirrors the ConnectionStrings section of appsettings.json.
type ConnectionStringsConfig struct {
	DefaultConnection string `mapstructure:"defaultconnection"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	HTTPSPort       int           `mapstructure:"https_port"`
	TLSCertFile     string        `mapstructure:"tls_cert_file"`
	TLSKeyFile      string        `mapstructure:"tls_key_file"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	HSTSMaxAge      time.Duration `mapstructure:"hsts_max_age"`
}

// TLSEnabled reports whether a certificate pair is configured.
func (c *ServerConfig) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Provider        string        `mapstructure:"provider"`    // postgres, sqlite, sqlserver
	SeedPolicy      string        `mapstructure:"seed_policy"` // recoverable, fatal
	LogQueries      bool          `mapstructure:"log_queries"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig holds read-model cache configuration.
type CacheConfig struct {
	StatsTTL  time.Duration `mapstructure:"stats_ttl"`
	LocalSize int           `mapstructure:"local_size"`
}

// AuthConfig holds authorization configuration.
type AuthConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	JWTSecret   string        `mapstructure:"jwt_secret"`
	Issuer      string        `mapstructure:"issuer"`
	TokenExpiry time.Duration `mapstructure:"token_expiry"`
}

// RateLimitConfig holds per-client rate limiting configuration.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// CORSConfig holds CORS configuration. CORS is disabled when AllowOrigins is empty.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Environment returns the environment name taken from CONTOSO_ENVIRONMENT.
func Environment() string {
	if env := os.Getenv(environmentEnvKey); env != "" {
		return env
	}
	return EnvProduction
}

// ContentRoot returns the directory that holds appsettings files.
func ContentRoot() string {
	if dir := os.Getenv(contentRootEnvKey); dir != "" {
		return dir
	}
	return "."
}

// Load loads configuration from the content root for the current environment.
func Load() (*Config, error) {
	return LoadFrom(ContentRoot(), Environment())
}

// LoadFrom reads appsettings.json (required), appsettings.{environment}.json
// (optional) and CONTOSO_* environment variables, in that order of precedence.
func LoadFrom(dir, environment string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")

	setDefaults(v)

	v.SetConfigFile(filepath.Join(dir, baseSettingsFile))
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read %s: %w", baseSettingsFile, err)
	}

	envFile := filepath.Join(dir, fmt.Sprintf("appsettings.%s.json", environment))
	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merge %s: %w", filepath.Base(envFile), err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", filepath.Base(envFile), err)
	}

	// CONTOSO_CONNECTIONSTRINGS__DEFAULTCONNECTION, CONTOSO_SERVER__ADDRESS, ...
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Environment = environment
	cfg.ContentRoot = dir

	if strings.TrimSpace(cfg.ConnectionStrings.DefaultConnection) == "" {
		return nil, ErrMissingConnectionString
	}
	if cfg.Auth.Enabled && strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, ErrMissingJWTSecret
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("connectionstrings.defaultconnection", "")

	// Server defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.https_port", 0)
	v.SetDefault("server.tls_cert_file", "")
	v.SetDefault("server.tls_key_file", "")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.hsts_max_age", 30*24*time.Hour)

	// Database defaults
	v.SetDefault("database.provider", "postgres")
	v.SetDefault("database.seed_policy", "recoverable")
	v.SetDefault("database.log_queries", false)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)

	// Redis defaults (empty address disables redis)
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.stats_ttl", 5*time.Minute)
	v.SetDefault("cache.local_size", 128)

	// Auth defaults
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "contoso-university")
	v.SetDefault("auth.token_expiry", 12*time.Hour)

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests_per_second", 20.0)
	v.SetDefault("rate_limit.burst", 40)

	v.SetDefault("cors.allow_origins", []string{})

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
