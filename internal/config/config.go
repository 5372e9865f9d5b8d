package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"weather-dashboard/internal/apiclient"
)

// ErrInvalidConfig is returned by Validate for missing or malformed settings.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Log         LogConfig
	OpenWeather OpenWeatherConfig
	Cache       CacheConfig
	Search      SearchConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port    int
	GinMode string // debug, release, test
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text

	// File enables a rotating log file next to stdout when set.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// OpenWeatherConfig holds the upstream weather provider settings
type OpenWeatherConfig struct {
	BaseURL    string
	GeoBaseURL string
	APIKey     string
	Timeout    time.Duration
	Retry      RetryConfig
}

// RetryConfig mirrors apiclient.RetryConfig
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// CacheConfig selects the location suggestion cache
type CacheConfig struct {
	Driver string // memory, redis, none
	TTL    time.Duration
	Redis  RedisConfig
}

// RedisConfig holds connection settings for the redis cache driver
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SearchConfig bounds location search queries
type SearchConfig struct {
	MinQueryLength int
	DefaultLimit   int
	MaxLimit       int
}

// Load reads configuration from .env, the config file and environment variables
func Load() (*Config, error) {
	// A .env file is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	// Set config file name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.weather-dashboard")

	setDefaults(v)

	// Read from environment variables, e.g. WEATHER_OPENWEATHER_APIKEY
	v.SetEnvPrefix("WEATHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.ginmode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.maxsizemb", 100)
	v.SetDefault("log.maxbackups", 3)
	v.SetDefault("log.maxagedays", 28)

	v.SetDefault("openweather.baseurl", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("openweather.geobaseurl", "https://api.openweathermap.org/geo/1.0")
	v.SetDefault("openweather.apikey", "")
	v.SetDefault("openweather.timeout", apiclient.DefaultTimeout)
	v.SetDefault("openweather.retry.maxretries", apiclient.DefaultMaxRetries)
	v.SetDefault("openweather.retry.basedelay", apiclient.DefaultBaseDelay)

	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.ttl", time.Minute)
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)

	v.SetDefault("search.minquerylength", 2)
	v.SetDefault("search.defaultlimit", 5)
	v.SetDefault("search.maxlimit", 10)
}

// Validate checks the settings that the process cannot start without
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.OpenWeather.BaseURL) == "" {
		problems = append(problems, "openweather.baseURL is required")
	}
	if strings.TrimSpace(c.OpenWeather.GeoBaseURL) == "" {
		problems = append(problems, "openweather.geoBaseURL is required")
	}
	if strings.TrimSpace(c.OpenWeather.APIKey) == "" {
		problems = append(problems, "openweather.apiKey is required")
	}
	switch strings.ToLower(c.Cache.Driver) {
	case "memory", "redis", "none", "":
	default:
		problems = append(problems, fmt.Sprintf("unknown cache.driver %q", c.Cache.Driver))
	}
	if c.Search.MaxLimit < 1 {
		problems = append(problems, "search.maxLimit must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// GetServerAddr returns the server address in the format ":port"
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// APIClientConfig builds the client configuration for the weather data API
func (c *Config) APIClientConfig() apiclient.Config {
	return c.clientConfig(c.OpenWeather.BaseURL)
}

// GeoClientConfig builds the client configuration for the geocoding API
func (c *Config) GeoClientConfig() apiclient.Config {
	return c.clientConfig(c.OpenWeather.GeoBaseURL)
}

func (c *Config) clientConfig(baseURL string) apiclient.Config {
	return apiclient.Config{
		BaseURL: baseURL,
		APIKey:  c.OpenWeather.APIKey,
		Timeout: c.OpenWeather.Timeout,
		Retry: &apiclient.RetryConfig{
			MaxRetries: c.OpenWeather.Retry.MaxRetries,
			BaseDelay:  c.OpenWeather.Retry.BaseDelay,
		},
		UserAgent: "weather-dashboard/1.0",
	}
}

// NewLogger creates a new slog.Logger based on the configuration
func (c *Config) NewLogger() *slog.Logger {
	return c.NewLoggerTo(os.Stdout)
}

// NewLoggerTo is NewLogger with a different console writer, e.g. stderr
// for commands that print results on stdout
func (c *Config) NewLoggerTo(w io.Writer) *slog.Logger {
	// Parse log level
	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// Create handler options
	opts := &slog.HandlerOptions{
		Level: level,
	}

	out := w
	if c.Log.File != "" {
		out = io.MultiWriter(w, &lumberjack.Logger{
			Filename:   c.Log.File,
			MaxSize:    c.Log.MaxSizeMB,
			MaxBackups: c.Log.MaxBackups,
			MaxAge:     c.Log.MaxAgeDays,
			Compress:   true,
		})
	}

	// Choose handler based on format
	var handler slog.Handler
	switch strings.ToLower(c.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(out, opts)
	default: // "text" or anything else
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}
