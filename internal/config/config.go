package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// DefaultWorkers is the default number of chapters parsed concurrently.
	DefaultWorkers = 4

	// DefaultSummaryMinWords is the smallest section body worth summarizing.
	DefaultSummaryMinWords = 20

	// DefaultSummaryInputBudget caps the tokens of section text sent for summarizing.
	DefaultSummaryInputBudget = 1500
)

// Config holds all configuration for docmeta.
type Config struct {
	Project ProjectConfig `mapstructure:"project"`
	Meta    MetaConfig    `mapstructure:"meta"`
	Logging LoggingConfig `mapstructure:"logging"`
	API     APIConfig     `mapstructure:"api"`
	Claude  ClaudeConfig  `mapstructure:"claude"`
	Summary SummaryConfig `mapstructure:"summary"`
	Graph   GraphConfig   `mapstructure:"graph"`
}

// ProjectConfig locates the documentation project.
type ProjectConfig struct {
	ConfigFile string `mapstructure:"config_file"`
	SrcDir     string `mapstructure:"src_dir"`
}

// MetaConfig holds metadata index generation settings.
type MetaConfig struct {
	Filename       string `mapstructure:"filename"`
	Workers        int    `mapstructure:"workers"`
	SkipCodeFences bool   `mapstructure:"skip_code_fences"`

	// Seeds maps metadata keys to templates planted by the seed command.
	// Keys are lowercased by viper.
	Seeds map[string]string `mapstructure:"seeds"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	AuthToken  string `mapstructure:"auth_token"`
}

// ClaudeConfig holds Anthropic Claude API settings.
type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// String returns a safe representation of ClaudeConfig with the API key masked.
func (c ClaudeConfig) String() string {
	return fmt.Sprintf("ClaudeConfig{APIKey:%s, Model:%s}", maskSecret(c.APIKey), c.Model)
}

// SummaryConfig tunes section summarization.
type SummaryConfig struct {
	MinWords    int `mapstructure:"min_words"`
	MaxTokens   int `mapstructure:"max_tokens"`
	InputBudget int `mapstructure:"input_budget"`
}

// GraphConfig holds Neo4j connection settings for graph export.
type GraphConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// String returns a safe representation of GraphConfig with the password masked.
func (g GraphConfig) String() string {
	return fmt.Sprintf("GraphConfig{URI:%s, Username:%s, Password:%s, Database:%s}",
		g.URI, g.Username, maskSecret(g.Password), g.Database)
}

// maskSecret shows first 4 + last 4 chars, replacing the middle with asterisks.
func maskSecret(key string) string {
	const visible = 4
	if len(key) <= visible*2 {
		return "***"
	}
	return key[:visible] + "****" + key[len(key)-visible:]
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("project.config_file", "foliant.yml")
	v.SetDefault("project.src_dir", "src")

	v.SetDefault("meta.filename", "meta.yml")
	v.SetDefault("meta.workers", DefaultWorkers)
	v.SetDefault("meta.skip_code_fences", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("api.listen_addr", ":8080")
	v.SetDefault("api.auth_token", "")

	v.SetDefault("claude.model", "claude-haiku-4-5-20251001")

	v.SetDefault("summary.min_words", DefaultSummaryMinWords)
	v.SetDefault("summary.max_tokens", 256)
	v.SetDefault("summary.input_budget", DefaultSummaryInputBudget)

	v.SetDefault("graph.uri", "neo4j://localhost:7687")
	v.SetDefault("graph.username", "neo4j")
	v.SetDefault("graph.password", "")
	v.SetDefault("graph.database", "")

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(homeDir(), ".docmeta"))
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("DOCMETA")
	v.AutomaticEnv()

	_ = v.BindEnv("claude.api_key", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("api.listen_addr", "DOCMETA_API_LISTEN_ADDR")
	_ = v.BindEnv("api.auth_token", "DOCMETA_API_AUTH_TOKEN")
	_ = v.BindEnv("graph.uri", "DOCMETA_GRAPH_URI")
	_ = v.BindEnv("graph.password", "DOCMETA_GRAPH_PASSWORD")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	if c.Project.ConfigFile == "" {
		return fmt.Errorf("project.config_file must not be empty")
	}
	if c.Meta.Filename == "" {
		return fmt.Errorf("meta.filename must not be empty")
	}
	if c.Meta.Workers <= 0 {
		return fmt.Errorf("meta.workers must be greater than 0")
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	if c.Summary.MinWords < 0 {
		return fmt.Errorf("summary.min_words must be >= 0")
	}
	if c.Summary.MaxTokens <= 0 {
		return fmt.Errorf("summary.max_tokens must be greater than 0")
	}
	if c.Summary.InputBudget <= 0 {
		return fmt.Errorf("summary.input_budget must be greater than 0")
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
