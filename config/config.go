package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cardscout/backend/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	Cache  CacheConfig
	Stores StoresConfig
	Search SearchConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CacheConfig holds offer-cache configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// StoresConfig holds per-store adapter configuration
type StoresConfig struct {
	Enabled             []string `mapstructure:"enabled"`
	FaceToFaceBaseURL   string   `mapstructure:"facetoface_base_url"`
	TopDeckHeroBaseURL  string   `mapstructure:"topdeckhero_base_url"`
	TopDeckHeroDiscount bool     `mapstructure:"topdeckhero_discount"`
	ProxyAllowFoil      bool     `mapstructure:"proxy_allow_foil"`
}

// SearchConfig holds defaults for deal resolution
type SearchConfig struct {
	DefaultStrategy   string `mapstructure:"default_strategy"`
	DefaultMinQuality string `mapstructure:"default_min_quality"`
	Debug             bool   `mapstructure:"debug"`
}

// KnownStores lists the store adapters this build ships.
var KnownStores = []string{"facetoface", "topdeckhero", "proxy"}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/cardscout/")

	v.SetEnvPrefix("CARDSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional: env vars and defaults are enough.
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
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")

	v.SetDefault("stores.enabled", []string{"facetoface", "topdeckhero"})
	v.SetDefault("stores.facetoface_base_url", "https://facetofacegames.com")
	v.SetDefault("stores.topdeckhero_base_url", "https://www.topdeckhero.com")
	v.SetDefault("stores.topdeckhero_discount", false)
	v.SetDefault("stores.proxy_allow_foil", false)

	v.SetDefault("search.default_strategy", "cheapest")
	v.SetDefault("search.default_min_quality", "none")
	v.SetDefault("search.debug", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}
	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("redis URL is required when cache type is 'redis'")
	}
	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}

	if len(config.Stores.Enabled) == 0 {
		return fmt.Errorf("at least one store must be enabled (known: %s)", strings.Join(KnownStores, ", "))
	}
	for _, store := range config.Stores.Enabled {
		if !isKnownStore(store) {
			return fmt.Errorf("unknown store %q (known: %s)", store, strings.Join(KnownStores, ", "))
		}
	}

	if _, err := domain.ParseStrategy(config.Search.DefaultStrategy); err != nil {
		return err
	}
	if quality := config.Search.DefaultMinQuality; quality != "" && quality != "none" {
		if domain.ParseQuality(quality) == domain.QualityUnknown {
			return fmt.Errorf("unknown minimum quality %q (options: %s, none)",
				quality, strings.Join(domain.QualityOptions, ", "))
		}
	}

	return nil
}

func isKnownStore(name string) bool {
	for _, known := range KnownStores {
		if name == known {
			return true
		}
	}
	return false
}

// MinQuality resolves the configured default quality floor; "none" or empty
// means no floor.
func (c SearchConfig) MinQuality() domain.CardQuality {
	if c.DefaultMinQuality == "" || c.DefaultMinQuality == "none" {
		return domain.QualityUnknown
	}
	return domain.ParseQuality(c.DefaultMinQuality)
}
