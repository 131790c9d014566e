package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendBolt  = "bolt"
	BackendRedis = "redis"
)

// Config is the resolved service configuration
type Config struct {
	// TMDB
	TMDBAPIKey       string
	TMDBBaseURL      string
	TMDBImageBaseURL string
	TMDBLanguage     string
	TMDBTimeout      time.Duration

	// Server
	ServerPort string

	// Preferences
	PreferencesBackend string // bolt or redis
	RedisAddr          string
	RedisPassword      string
	RedisDB            int

	// Paging
	ReviewsPageSize int // reviews revealed per "load more" (default: 5)
	BrowsePageSize  int // listing page size (default: 20)

	// Paths
	ConfigDir    string
	DatabaseFile string // $CONFIG_DIR/marquee.db

	// Logging
	LogLevel string
	LogFile  string
}

// Load reads the configuration from the environment and an optional .env file
// in the working directory, then validates it
func Load() (*Config, error) {
	v := viper.New()

	// Environment variables win over the optional .env file
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// A missing .env file is fine
	_ = v.ReadInConfig()

	v.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	v.SetDefault("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p")
	v.SetDefault("TMDB_LANGUAGE", "en-US")
	v.SetDefault("TMDB_TIMEOUT_SECONDS", 15)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("PREFERENCES_BACKEND", BackendBolt)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REVIEWS_PAGE_SIZE", 5)
	v.SetDefault("BROWSE_PAGE_SIZE", 20)
	v.SetDefault("LOG_LEVEL", "info")

	// CONFIG_DIR may come from .env, so it is resolved after ReadInConfig
	configDir := v.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "marquee")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	// The bolt preference file lives here
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		// TMDB
		TMDBAPIKey:       v.GetString("TMDB_API_KEY"),
		TMDBBaseURL:      strings.TrimRight(v.GetString("TMDB_BASE_URL"), "/"),
		TMDBImageBaseURL: strings.TrimRight(v.GetString("TMDB_IMAGE_BASE_URL"), "/"),
		TMDBLanguage:     v.GetString("TMDB_LANGUAGE"),
		TMDBTimeout:      time.Duration(v.GetInt("TMDB_TIMEOUT_SECONDS")) * time.Second,

		// Server
		ServerPort: v.GetString("SERVER_PORT"),

		// Preferences
		PreferencesBackend: strings.ToLower(v.GetString("PREFERENCES_BACKEND")),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),

		// Paging
		ReviewsPageSize: v.GetInt("REVIEWS_PAGE_SIZE"),
		BrowsePageSize:  v.GetInt("BROWSE_PAGE_SIZE"),

		// Paths
		ConfigDir:    configDir,
		DatabaseFile: filepath.Join(configDir, "marquee.db"),

		// Logging
		LogLevel: v.GetString("LOG_LEVEL"),
		LogFile:  v.GetString("LOG_FILE"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.TMDBAPIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	if c.TMDBTimeout <= 0 {
		return fmt.Errorf("TMDB_TIMEOUT_SECONDS must be positive")
	}
	switch c.PreferencesBackend {
	case BackendBolt:
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when PREFERENCES_BACKEND is redis")
		}
	default:
		return fmt.Errorf("unknown PREFERENCES_BACKEND %q", c.PreferencesBackend)
	}
	if c.ReviewsPageSize <= 0 {
		return fmt.Errorf("REVIEWS_PAGE_SIZE must be positive")
	}
	if c.BrowsePageSize <= 0 || c.BrowsePageSize > 100 {
		return fmt.Errorf("BROWSE_PAGE_SIZE must be between 1 and 100")
	}
	return nil
}
