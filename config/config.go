package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Extractor ExtractorConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	Storage   StorageConfig
	Matching  MatchingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExtractorConfig holds extraction API configuration
type ExtractorConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// CatalogConfig holds catalog index configuration. Mode selects the index
// implementation: "bolt" (persistent), "memory", or "fallback" (built-in
// read-only catalog).
type CatalogConfig struct {
	Mode      string `mapstructure:"mode"`
	StorePath string `mapstructure:"store_path"`
	WatchDir  string `mapstructure:"watch_dir"`
}

// CacheConfig holds quote-cache configuration. An empty path selects the
// in-memory cache.
type CacheConfig struct {
	Path string        `mapstructure:"path"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// StorageConfig holds uploaded-file storage configuration
type StorageConfig struct {
	UploadDir string `mapstructure:"upload_dir"`
}

// MatchingConfig holds match-pipeline configuration
type MatchingConfig struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	EnableDebugLogging  bool    `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/listafacil/")

	v.SetEnvPrefix("LISTAFACIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover the rest
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Extractor defaults
	v.SetDefault("extractor.base_url", "https://extract.listafacil.app")

	// Catalog defaults
	v.SetDefault("catalog.mode", "bolt")
	v.SetDefault("catalog.store_path", "data/catalog.db")
	v.SetDefault("catalog.watch_dir", "")

	// Cache defaults
	v.SetDefault("cache.path", "data/quotes.db")
	v.SetDefault("cache.ttl", "720h") // 30 days

	// Storage defaults
	v.SetDefault("storage.upload_dir", "data/uploads")

	// Matching defaults
	v.SetDefault("matching.confidence_threshold", 0.5)
	v.SetDefault("matching.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Mode {
	case "bolt":
		if config.Catalog.StorePath == "" {
			return fmt.Errorf("catalog store path is required when catalog mode is 'bolt'")
		}
	case "memory", "fallback":
	default:
		return fmt.Errorf("catalog mode must be 'bolt', 'memory' or 'fallback', got: %s", config.Catalog.Mode)
	}

	if config.Extractor.APIKey == "" {
		return fmt.Errorf("extractor API key is required (set LISTAFACIL_EXTRACTOR_API_KEY)")
	}

	if t := config.Matching.ConfidenceThreshold; t < 0 || t > 1 {
		return fmt.Errorf("matching confidence threshold must be within [0,1], got: %v", t)
	}

	return nil
}
