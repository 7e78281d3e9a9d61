package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Log        LogConfig
	HTTP       HTTPConfig
	Aggregator AggregatorConfig
	FedEx      FedExConfig
	Delhivery  DelhiveryConfig
	Shiprocket ShiprocketConfig
	TokenCache TokenCacheConfig
	Redis      RedisConfig
	Database   DatabaseConfig
	Telemetry  TelemetryConfig
	Swagger    SwaggerConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	ShutdownTimeout  time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	// Per-client request limit on the rate endpoints, 0 disables limiting
	ClientRateLimit float64
	ClientRateBurst int
}

// AggregatorConfig bounds the fan-out to courier providers
type AggregatorConfig struct {
	ProviderTimeout time.Duration // per provider, per call
}

// FedExConfig holds FedEx OAuth and account settings
type FedExConfig struct {
	BaseURL       string // overrides Sandbox when set
	Sandbox       bool
	ClientID      string
	ClientSecret  string
	AccountNumber string
	Timeout       time.Duration
	RateLimit     float64 // requests per second, 0 disables limiting
	RateBurst     int
}

// DelhiveryConfig holds Delhivery API settings
type DelhiveryConfig struct {
	BaseURL   string
	Staging   bool
	Token     string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
}

// ShiprocketConfig holds Shiprocket API settings
type ShiprocketConfig struct {
	BaseURL   string
	Token     string // optional static token tried before logging in
	Email     string
	Password  string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
}

// TokenCacheConfig selects where provider bearer tokens are cached
type TokenCacheConfig struct {
	Driver    string // memory or redis
	KeyPrefix string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Enabled         bool // quote history is only recorded when enabled
	AutoMigrate     bool // apply the SQL migrations on startup
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	LogLevel        string

	// Snapshots older than HistoryRetention are pruned daily at RetentionHour. Zero keeps them.
	HistoryRetention time.Duration
	RetentionHour    int
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	MetricsEnabled    bool
	CollectorEndpoint string  // e.g. "localhost:4317"
	SamplingRatio     float64 // 0.0-1.0
	ServiceName       string
	Insecure          bool
	MetricsInterval   time.Duration

	LogsEnabled      bool
	ProfilingEnabled bool
	ProfilerAddress  string   // Pyroscope server, e.g. "http://pyroscope:4040"
	ProfileTypes     []string // empty selects the profiler defaults
}

// SwaggerConfig controls the API docs UI
type SwaggerConfig struct {
	Enabled bool
}

// Load loads configuration from config.toml and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with COURIER_ prefix (e.g., COURIER_FEDEX_CLIENT_ID)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.history_retention", "2160h")
	v.SetDefault("database.retention_hour", 3)
	v.SetDefault("fedex.sandbox", true)
	v.SetDefault("swagger.enabled", true)

	v.SetEnvPrefix("COURIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:  v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			ClientRateLimit:  v.GetFloat64("http.client_rate_limit"),
			ClientRateBurst:  v.GetInt("http.client_rate_burst"),
		},
		Aggregator: AggregatorConfig{
			ProviderTimeout: v.GetDuration("aggregator.provider_timeout"),
		},
		FedEx: FedExConfig{
			BaseURL:       v.GetString("fedex.base_url"),
			Sandbox:       v.GetBool("fedex.sandbox"),
			ClientID:      v.GetString("fedex.client_id"),
			ClientSecret:  v.GetString("fedex.client_secret"),
			AccountNumber: v.GetString("fedex.account_number"),
			Timeout:       v.GetDuration("fedex.timeout"),
			RateLimit:     v.GetFloat64("fedex.rate_limit"),
			RateBurst:     v.GetInt("fedex.rate_burst"),
		},
		Delhivery: DelhiveryConfig{
			BaseURL:   v.GetString("delhivery.base_url"),
			Staging:   v.GetBool("delhivery.staging"),
			Token:     v.GetString("delhivery.token"),
			Timeout:   v.GetDuration("delhivery.timeout"),
			RateLimit: v.GetFloat64("delhivery.rate_limit"),
			RateBurst: v.GetInt("delhivery.rate_burst"),
		},
		Shiprocket: ShiprocketConfig{
			BaseURL:   v.GetString("shiprocket.base_url"),
			Token:     v.GetString("shiprocket.token"),
			Email:     v.GetString("shiprocket.email"),
			Password:  v.GetString("shiprocket.password"),
			Timeout:   v.GetDuration("shiprocket.timeout"),
			RateLimit: v.GetFloat64("shiprocket.rate_limit"),
			RateBurst: v.GetInt("shiprocket.rate_burst"),
		},
		TokenCache: TokenCacheConfig{
			Driver:    v.GetString("token_cache.driver"),
			KeyPrefix: v.GetString("token_cache.key_prefix"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("database.enabled"),
			AutoMigrate:     v.GetBool("database.auto_migrate"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			LogLevel:        v.GetString("database.log_level"),

			HistoryRetention: v.GetDuration("database.history_retention"),
			RetentionHour:    v.GetInt("database.retention_hour"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			ProfilingEnabled:  v.GetBool("telemetry.profiling_enabled"),
			ProfilerAddress:   v.GetString("telemetry.profiler_address"),
			ProfileTypes:      v.GetStringSlice("telemetry.profile_types"),
		},
		Swagger: SwaggerConfig{
			Enabled: v.GetBool("swagger.enabled"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "courier-rates"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20
	}
	if cfg.HTTP.ClientRateLimit > 0 && cfg.HTTP.ClientRateBurst == 0 {
		cfg.HTTP.ClientRateBurst = int(cfg.HTTP.ClientRateLimit) * 2
	}
	// An empty origin list allows no cross-origin callers until configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}

	if cfg.Aggregator.ProviderTimeout == 0 {
		cfg.Aggregator.ProviderTimeout = 5 * time.Second
	}

	if cfg.FedEx.Timeout == 0 {
		cfg.FedEx.Timeout = 10 * time.Second
	}
	if cfg.Delhivery.Timeout == 0 {
		cfg.Delhivery.Timeout = 10 * time.Second
	}
	if cfg.Shiprocket.BaseURL == "" {
		cfg.Shiprocket.BaseURL = "https://apiv2.shiprocket.in"
	}
	if cfg.Shiprocket.Timeout == 0 {
		cfg.Shiprocket.Timeout = 10 * time.Second
	}

	if cfg.TokenCache.Driver == "" {
		cfg.TokenCache.Driver = "memory"
	}
	if cfg.TokenCache.KeyPrefix == "" {
		cfg.TokenCache.KeyPrefix = "courier:token:"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "courier"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}

	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
}

func (c *Config) validate() error {
	if c.Aggregator.ProviderTimeout < 0 {
		return fmt.Errorf("aggregator.provider_timeout cannot be negative")
	}

	switch c.TokenCache.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("token_cache.driver must be 'memory' or 'redis', got %q", c.TokenCache.Driver)
	}

	for name, limit := range map[string]float64{
		"fedex":      c.FedEx.RateLimit,
		"delhivery":  c.Delhivery.RateLimit,
		"shiprocket": c.Shiprocket.RateLimit,
	} {
		if limit < 0 {
			return fmt.Errorf("%s.rate_limit cannot be negative", name)
		}
	}

	if c.HTTP.ClientRateLimit < 0 || c.HTTP.ClientRateBurst < 0 {
		return fmt.Errorf("http.client_rate_limit and http.client_rate_burst cannot be negative")
	}
	if c.HTTP.ClientRateLimit > 0 && c.HTTP.ClientRateBurst < 1 {
		return fmt.Errorf("http.client_rate_burst must be at least 1 when limiting is enabled")
	}

	if c.Database.Enabled {
		if c.Database.MaxOpenConns <= 0 {
			return fmt.Errorf("database.max_open_conns must be positive")
		}
		if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
			return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
				c.Database.MaxIdleConns, c.Database.MaxOpenConns)
		}
		if c.Database.HistoryRetention < 0 {
			return fmt.Errorf("database.history_retention cannot be negative")
		}
		if c.Database.RetentionHour < 0 || c.Database.RetentionHour > 23 {
			return fmt.Errorf("database.retention_hour must be between 0 and 23, got %d", c.Database.RetentionHour)
		}
	}

	if c.App.Env == "production" {
		if c.Database.Enabled && c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Swagger.Enabled {
			return fmt.Errorf("swagger.enabled must be false in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.Telemetry.ProfilingEnabled && c.Telemetry.ProfilerAddress == "" {
		return fmt.Errorf("telemetry.profiler_address is required when profiling is enabled")
	}
	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the host:port Redis address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
