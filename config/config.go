package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers understood by storage.Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// DefaultKeyPrefix is the prefix every record key is stored under.
const DefaultKeyPrefix = "record_"

// Config holds all application configuration
type Config struct {
	App     AppConfig
	Storage StorageConfig
	Photo   PhotoConfig
	HTTP    HTTPConfig
	Log     LogConfig
}

type AppConfig struct {
	Name string
	Env  string
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Driver    string // memory, sqlite, postgres, redis
	KeyPrefix string
	SQLite    SQLiteConfig
	Postgres  DatabaseConfig
	Redis     RedisConfig
}

type SQLiteConfig struct {
	Path string
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	Namespace string
}

// PhotoConfig points at the directory picked images are cached in.
type PhotoConfig struct {
	CacheDir string
}

// HTTPConfig holds settings for the local API server
type HTTPConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level     string // debug, info, warn, error
	Format    string // json, console
	Output    string // stdout, stderr, or file path
	GormLevel string // silent, error, warn, info
	// SlowQuery is the store query duration logged as slow. Zero disables it.
	SlowQuery time.Duration
}

// Load reads configuration. Priority (highest to lowest):
// 1. Environment variables with SUPPLIERS_ prefix (a .env file is loaded into the environment first)
// 2. configFile, or suppliers.yaml in the working directory or ~/.config/suppliers
// 3. Built-in defaults
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("suppliers")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "suppliers"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults and env vars apply
	}

	v.SetEnvPrefix("SUPPLIERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Set here rather than in applyDefaults so an explicit 0 can turn it off.
	v.SetDefault("log.slow_query", 200*time.Millisecond)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Storage: StorageConfig{
			Driver:    strings.ToLower(v.GetString("storage.driver")),
			KeyPrefix: v.GetString("storage.key_prefix"),
			SQLite: SQLiteConfig{
				Path: v.GetString("storage.sqlite.path"),
			},
			Postgres: DatabaseConfig{
				Host:     v.GetString("storage.postgres.host"),
				Port:     v.GetInt("storage.postgres.port"),
				User:     v.GetString("storage.postgres.user"),
				Password: v.GetString("storage.postgres.password"),
				DBName:   v.GetString("storage.postgres.dbname"),
				SSLMode:  v.GetString("storage.postgres.sslmode"),
			},
			Redis: RedisConfig{
				Host:      v.GetString("storage.redis.host"),
				Port:      v.GetInt("storage.redis.port"),
				Password:  v.GetString("storage.redis.password"),
				DB:        v.GetInt("storage.redis.db"),
				Namespace: v.GetString("storage.redis.namespace"),
			},
		},
		Photo: PhotoConfig{
			CacheDir: v.GetString("photo.cache_dir"),
		},
		HTTP: HTTPConfig{
			Addr:         v.GetString("http.addr"),
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			IdleTimeout:  v.GetDuration("http.idle_timeout"),
		},
		Log: LogConfig{
			Level:     v.GetString("log.level"),
			Format:    v.GetString("log.format"),
			Output:    v.GetString("log.output"),
			GormLevel: v.GetString("log.gorm_level"),
			SlowQuery: v.GetDuration("log.slow_query"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "suppliers"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverSQLite
	}
	if cfg.Storage.KeyPrefix == "" {
		cfg.Storage.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = "suppliers.db"
	}
	if cfg.Storage.Postgres.Host == "" {
		cfg.Storage.Postgres.Host = "localhost"
	}
	if cfg.Storage.Postgres.Port == 0 {
		cfg.Storage.Postgres.Port = 5432
	}
	if cfg.Storage.Postgres.User == "" {
		cfg.Storage.Postgres.User = "postgres"
	}
	if cfg.Storage.Postgres.DBName == "" {
		cfg.Storage.Postgres.DBName = "suppliers"
	}
	if cfg.Storage.Postgres.SSLMode == "" {
		cfg.Storage.Postgres.SSLMode = "disable"
	}
	if cfg.Storage.Redis.Host == "" {
		cfg.Storage.Redis.Host = "localhost"
	}
	if cfg.Storage.Redis.Port == 0 {
		cfg.Storage.Redis.Port = 6379
	}
	if cfg.Storage.Redis.Namespace == "" {
		cfg.Storage.Redis.Namespace = "suppliers:"
	}
	if cfg.Photo.CacheDir == "" {
		cfg.Photo.CacheDir = filepath.Join(".suppliers", "photos")
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = "127.0.0.1:8080"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.Log.GormLevel == "" {
		cfg.Log.GormLevel = "warn"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite, DriverPostgres, DriverRedis:
	default:
		return fmt.Errorf("storage.driver must be one of memory, sqlite, postgres, redis, got %q", c.Storage.Driver)
	}
	if c.Storage.Postgres.Port <= 0 || c.Storage.Postgres.Port > 65535 {
		return fmt.Errorf("storage.postgres.port out of range: %d", c.Storage.Postgres.Port)
	}
	if c.Storage.Redis.Port <= 0 || c.Storage.Redis.Port > 65535 {
		return fmt.Errorf("storage.redis.port out of range: %d", c.Storage.Redis.Port)
	}
	if c.Storage.Redis.DB < 0 {
		return fmt.Errorf("storage.redis.db cannot be negative")
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
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
