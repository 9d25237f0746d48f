// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Registry  RegistryConfig  `yaml:"registry" mapstructure:"registry"`
	Jina      JinaConfig      `yaml:"jina" mapstructure:"jina"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Resolve   ResolveConfig   `yaml:"resolve" mapstructure:"resolve"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// RegistryConfig points at an optional origin-table override.
type RegistryConfig struct {
	SourcesPath string `yaml:"sources_path" mapstructure:"sources_path"`
}

// JinaConfig holds the web search and reader API settings.
type JinaConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
}

// SearchConfig tunes the hybrid retrieval behavior.
type SearchConfig struct {
	// FallbackMinResults is the local hit count below which a free-text
	// query triggers external discovery. Structured-only filters trigger
	// discovery only at zero local hits.
	FallbackMinResults int `yaml:"fallback_min_results" mapstructure:"fallback_min_results"`
	DefaultLimit       int `yaml:"default_limit" mapstructure:"default_limit"`
	// MaxExistingScan caps how many existing records a discovery run loads
	// for candidate resolution. Resolution scans this set linearly, which
	// holds up at professional-directory scale.
	MaxExistingScan int `yaml:"max_existing_scan" mapstructure:"max_existing_scan"`
}

// ResolveConfig tunes entity resolution.
type ResolveConfig struct {
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
}

// DiscoveryConfig configures the external discovery fallback path.
type DiscoveryConfig struct {
	MaxQueries       int     `yaml:"max_queries" mapstructure:"max_queries"`
	MaxPagesPerQuery int     `yaml:"max_pages_per_query" mapstructure:"max_pages_per_query"`
	Workers          int     `yaml:"workers" mapstructure:"workers"`
	RateLimit        float64 `yaml:"rate_limit" mapstructure:"rate_limit"`

	// Query building vocabulary.
	TargetRole    string   `yaml:"target_role" mapstructure:"target_role"`
	DomainNoun    string   `yaml:"domain_noun" mapstructure:"domain_noun"`
	ExcludeRole   string   `yaml:"exclude_role" mapstructure:"exclude_role"`
	KnownEntities []string `yaml:"known_entities" mapstructure:"known_entities"`
	Categories    []string `yaml:"categories" mapstructure:"categories"`

	// Content parsing vocabulary.
	RoleKeywords []string `yaml:"role_keywords" mapstructure:"role_keywords"`
	NameDenylist []string `yaml:"name_denylist" mapstructure:"name_denylist"`
	MinYear      int      `yaml:"min_year" mapstructure:"min_year"`

	// OriginID identifies discovery-sourced data in provenance.
	OriginID string `yaml:"origin_id" mapstructure:"origin_id"`
}

// ServerConfig configures the JSON search endpoint.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("EDITORSEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("registry.sources_path", "")
	v.SetDefault("store.database_url", "editorsearch.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("jina.search_base_url", "https://s.jina.ai")
	v.SetDefault("search.fallback_min_results", 2)
	v.SetDefault("search.default_limit", 20)
	v.SetDefault("search.max_existing_scan", 50000)
	v.SetDefault("resolve.fuzzy_threshold", 0.8)
	v.SetDefault("discovery.max_queries", 3)
	v.SetDefault("discovery.max_pages_per_query", 5)
	v.SetDefault("discovery.workers", 3)
	v.SetDefault("discovery.rate_limit", 2)
	v.SetDefault("discovery.target_role", "television editor")
	v.SetDefault("discovery.domain_noun", "television")
	v.SetDefault("discovery.exclude_role", "actor")
	v.SetDefault("discovery.known_entities", []string{
		"Margaret Sixel", "Thelma Schoonmaker", "Walter Murch", "Kirk Baxter",
	})
	v.SetDefault("discovery.categories", []string{
		"drama", "comedy", "documentary", "reality", "news",
		"sports", "talk show", "sitcom", "animation", "variety",
	})
	v.SetDefault("discovery.role_keywords", []string{
		"editor", "edited by", "editing", "picture editor",
		"supervising editor", "assistant editor", "ace",
	})
	v.SetDefault("discovery.name_denylist", []string{
		"Jane Doe", "John Doe", "John Smith", "Lorem Ipsum",
		"Firstname Lastname", "Your Name",
		// Famous same-domain, wrong-role figures that scraped pages
		// surface constantly.
		"Tom Cruise", "Jennifer Aniston", "Steven Spielberg", "Oprah Winfrey",
	})
	v.SetDefault("discovery.min_year", 1950)
	v.SetDefault("discovery.origin_id", "web-discovery")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
