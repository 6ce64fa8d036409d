package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. FTS_RECEIPT_KIOSK_ID
const EnvPrefix = "FTS"

// Config holds all application configuration
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Log       LogConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Telemetry TelemetryConfig
	Renderer  RendererConfig
	Receipt   ReceiptConfig
	Storage   StorageConfig
	Auth      AuthConfig
	// Settings are static fallbacks for numeric kiosk settings
	Settings map[string]float64
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Env     string
	Port    string
	Version string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	RateLimitEnabled bool
	RateLimitRPS     float64 // sustained renders per second
	RateLimitBurst   int
	TrustedProxies   []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// DatabaseConfig holds the settings store connection
type DatabaseConfig struct {
	Enabled         bool
	Driver          string // postgres or sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string // sqlite file
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

// RedisConfig holds the counter store connection
type RedisConfig struct {
	Enabled   bool
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

// TelemetryConfig holds OpenTelemetry and Pyroscope configuration
type TelemetryConfig struct {
	Enabled           bool // traces
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool

	MetricsEnabled bool
	ExportInterval time.Duration
	LogsEnabled    bool

	DBTraceEnabled    bool
	DBLogFullSQL      bool
	DBSlowQueryThresh time.Duration

	ProfilingEnabled      bool
	ProfilerServerAddress string
	SpanProfilesEnabled   bool
}

// RendererConfig holds the headless Chrome PDF renderer settings
type RendererConfig struct {
	Enabled   bool
	RemoteURL string
	NoSandbox bool
	Timeout   time.Duration
}

// ReceiptConfig holds the letterhead and page furniture
type ReceiptConfig struct {
	KioskID          string
	LabelWidth       int
	WidthInches      float64
	MarginInches     float64
	CompanyLines     []string
	Website          string
	Logo             string
	LogoScale        float64
	OfficePhone      string
	CopyrightHolder  string
	CopyrightYear    int
	InternalAccount  string
	NitrogenSource   string
	NitrogenBrand    string
	ReaderMID        string
	Coupon           string
	CouponCandidates []string
}

// StorageConfig selects where rendered receipts are archived
type StorageConfig struct {
	Archive     string // none, fs or s3
	BasePath    string
	Retention   time.Duration
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3Prefix    string
	S3PathStyle bool
	S3AccessKey string
	S3SecretKey string
}

// AuthConfig holds kiosk token settings
type AuthConfig struct {
	Enabled  bool
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// Archive backends
const (
	ArchiveNone = "none"
	ArchiveFS   = "fs"
	ArchiveS3   = "s3"
)

// Load loads configuration from config.toml and the environment.
// Priority (highest to lowest):
// 1. Environment variables with the FTS_ prefix (e.g. FTS_REDIS_HOST)
// 2. config.toml from ., ./config or /etc/fts-receipts
// 3. Built-in defaults
func Load() (*Config, error) {
	return LoadWith(viper.New())
}

// LoadWith loads configuration through v, which may already carry bound
// command-line flags.
func LoadWith(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/fts-receipts")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			Version: v.GetString("app.version"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			RateLimitEnabled: v.GetBool("http.rate_limit_enabled"),
			RateLimitRPS:     v.GetFloat64("http.rate_limit_rps"),
			RateLimitBurst:   v.GetInt("http.rate_limit_burst"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("database.enabled"),
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			Path:            v.GetString("database.path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			LogLevel:        v.GetString("database.log_level"),
		},
		Redis: RedisConfig{
			Enabled:   v.GetBool("redis.enabled"),
			Host:      v.GetString("redis.host"),
			Port:      v.GetInt("redis.port"),
			Password:  v.GetString("redis.password"),
			DB:        v.GetInt("redis.db"),
			KeyPrefix: v.GetString("redis.key_prefix"),
		},
		Telemetry: TelemetryConfig{
			Enabled:               v.GetBool("telemetry.enabled"),
			CollectorEndpoint:     v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:         v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:           v.GetString("telemetry.service_name"),
			Insecure:              v.GetBool("telemetry.insecure"),
			MetricsEnabled:        v.GetBool("telemetry.metrics_enabled"),
			ExportInterval:        v.GetDuration("telemetry.export_interval"),
			LogsEnabled:           v.GetBool("telemetry.logs_enabled"),
			DBTraceEnabled:        v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:          v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh:     v.GetDuration("telemetry.db_slow_query_threshold"),
			ProfilingEnabled:      v.GetBool("telemetry.profiling_enabled"),
			ProfilerServerAddress: v.GetString("telemetry.profiler_server_address"),
			SpanProfilesEnabled:   v.GetBool("telemetry.span_profiles_enabled"),
		},
		Renderer: RendererConfig{
			Enabled:   v.GetBool("renderer.enabled"),
			RemoteURL: v.GetString("renderer.remote_url"),
			NoSandbox: v.GetBool("renderer.no_sandbox"),
			Timeout:   v.GetDuration("renderer.timeout"),
		},
		Receipt: ReceiptConfig{
			KioskID:          v.GetString("receipt.kiosk_id"),
			LabelWidth:       v.GetInt("receipt.label_width"),
			WidthInches:      v.GetFloat64("receipt.width_inches"),
			MarginInches:     v.GetFloat64("receipt.margin_inches"),
			CompanyLines:     v.GetStringSlice("receipt.company_lines"),
			Website:          v.GetString("receipt.website"),
			Logo:             v.GetString("receipt.logo"),
			LogoScale:        v.GetFloat64("receipt.logo_scale"),
			OfficePhone:      v.GetString("receipt.office_phone"),
			CopyrightHolder:  v.GetString("receipt.copyright_holder"),
			CopyrightYear:    v.GetInt("receipt.copyright_year"),
			InternalAccount:  v.GetString("receipt.internal_account"),
			NitrogenSource:   v.GetString("receipt.nitrogen_source"),
			NitrogenBrand:    v.GetString("receipt.nitrogen_brand"),
			ReaderMID:        v.GetString("receipt.reader_mid"),
			Coupon:           v.GetString("receipt.coupon"),
			CouponCandidates: v.GetStringSlice("receipt.coupon_candidates"),
		},
		Storage: StorageConfig{
			Archive:     v.GetString("storage.archive"),
			BasePath:    v.GetString("storage.base_path"),
			Retention:   v.GetDuration("storage.retention"),
			S3Bucket:    v.GetString("storage.s3_bucket"),
			S3Region:    v.GetString("storage.s3_region"),
			S3Endpoint:  v.GetString("storage.s3_endpoint"),
			S3Prefix:    v.GetString("storage.s3_prefix"),
			S3PathStyle: v.GetBool("storage.s3_path_style"),
			S3AccessKey: v.GetString("storage.s3_access_key"),
			S3SecretKey: v.GetString("storage.s3_secret_key"),
		},
		Auth: AuthConfig{
			Enabled:  v.GetBool("auth.enabled"),
			Secret:   v.GetString("auth.secret"),
			Issuer:   v.GetString("auth.issuer"),
			TokenTTL: v.GetDuration("auth.token_ttl"),
		},
		Settings: loadSettings(v),
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadSettings reads the [settings] table; values that are not numbers are skipped.
func loadSettings(v *viper.Viper) map[string]float64 {
	out := map[string]float64{}
	for key := range v.GetStringMap("settings") {
		f, err := cast.ToFloat64E(v.Get("settings." + key))
		if err != nil {
			continue
		}
		out[key] = f
	}
	return out
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "fts-receipts"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "1.0.0"
	}

	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second // PDF renders can be slow
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20
	}
	if cfg.HTTP.RateLimitRPS == 0 {
		cfg.HTTP.RateLimitRPS = 5
	}
	if cfg.HTTP.RateLimitBurst == 0 {
		cfg.HTTP.RateLimitBurst = 10
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

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/settings.db"
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
		cfg.Database.DBName = "fts"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 5
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = time.Hour
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}

	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "fts:counter:"
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
	if cfg.Telemetry.ExportInterval == 0 {
		cfg.Telemetry.ExportInterval = 60 * time.Second
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}

	if cfg.Renderer.Timeout == 0 {
		cfg.Renderer.Timeout = 30 * time.Second
	}

	if cfg.Storage.Archive == "" {
		cfg.Storage.Archive = ArchiveNone
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./data/receipts"
	}
	if cfg.Storage.S3Prefix == "" {
		cfg.Storage.S3Prefix = "receipts"
	}

	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = cfg.App.Name
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 12 * time.Hour
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.Telemetry.ProfilingEnabled && c.Telemetry.ProfilerServerAddress == "" {
		return fmt.Errorf("telemetry.profiler_server_address is required when profiling is enabled")
	}

	if c.Receipt.LabelWidth < 0 {
		return fmt.Errorf("receipt.label_width cannot be negative")
	}
	if c.Receipt.WidthInches < 0 || c.Receipt.MarginInches < 0 {
		return fmt.Errorf("receipt page width and margin cannot be negative")
	}
	if c.Receipt.WidthInches > 0 && 2*c.Receipt.MarginInches >= c.Receipt.WidthInches {
		return fmt.Errorf("receipt.margin_inches leaves no printable width")
	}

	switch c.Storage.Archive {
	case ArchiveNone, ArchiveFS:
	case ArchiveS3:
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("storage.s3_bucket is required for the s3 archive")
		}
	default:
		return fmt.Errorf("storage.archive must be none, fs or s3, got %q", c.Storage.Archive)
	}

	if c.Auth.Enabled && len(c.Auth.Secret) < 32 {
		return fmt.Errorf("auth.secret must be at least 32 characters when auth is enabled")
	}

	if c.App.Env == "production" {
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production")
		}
		if c.Database.Enabled && c.Database.Driver == "postgres" && c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
	}

	return nil
}

// DSN returns the postgres connection string with properly escaped values
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

// Addr returns the redis host:port
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
