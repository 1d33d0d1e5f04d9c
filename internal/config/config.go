package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full server configuration. Every field has a working
// default, so the server starts with no config file at all.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Redis    RedisConfig    `mapstructure:"redis"`
	AI       AIConfig       `mapstructure:"ai"`
	Search   SearchConfig   `mapstructure:"search"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig locates the SQLite catalog
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// CatalogConfig controls snapshot refresh
type CatalogConfig struct {
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
}

// RedisConfig enables the optional catalog-change signal
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// AIConfig selects the AI provider. An empty provider disables the AI leg.
type AIConfig struct {
	Provider  string        `mapstructure:"provider"`
	APIKey    string        `mapstructure:"api_key"`
	CacheSize int           `mapstructure:"cache_size"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// SearchConfig tunes scoring
type SearchConfig struct {
	MinScore       float64 `mapstructure:"min_score"`
	ExactWeight    float64 `mapstructure:"exact_weight"`
	SynonymWeight  float64 `mapstructure:"synonym_weight"`
	SemanticWeight float64 `mapstructure:"semantic_weight"`
	FuzzyWeight    float64 `mapstructure:"fuzzy_weight"`
}

// LogConfig controls log output
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Load reads partsearch.yaml from the given path (or the working directory
// and /etc/partsearch when empty) plus PARTSEARCH_* environment variables.
// A missing config file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("partsearch")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/partsearch")

	v.SetEnvPrefix("PARTSEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "partsearch.db")

	v.SetDefault("catalog.refresh_ttl", "5m")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "partsearch:catalog-changed")

	v.SetDefault("ai.provider", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.cache_size", 10000)
	v.SetDefault("ai.timeout", "3s")

	v.SetDefault("search.min_score", 0.3)
	v.SetDefault("search.exact_weight", 1.0)
	v.SetDefault("search.synonym_weight", 0.9)
	v.SetDefault("search.semantic_weight", 0.85)
	v.SetDefault("search.fuzzy_weight", 0.6)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}
