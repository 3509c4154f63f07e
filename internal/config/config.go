// Package config loads settings for the feature extraction binaries from
// an optional YAML file with FEATURES_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "FEATURES"

type Config struct {
	Lexicon LexiconConfig `mapstructure:"lexicon" yaml:"lexicon"`
	Batch   BatchConfig   `mapstructure:"batch"   yaml:"batch"`
	Server  ServerConfig  `mapstructure:"server"  yaml:"server"`
	Fetch   FetchConfig   `mapstructure:"fetch"   yaml:"fetch"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// LexiconConfig points at optional replacements for the built-in word lists.
type LexiconConfig struct {
	StopwordsFile        string `mapstructure:"stopwords_file"         yaml:"stopwords_file"`
	SentimentLexiconFile string `mapstructure:"sentiment_lexicon_file" yaml:"sentiment_lexicon_file"`
}

type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"` // 0 = GOMAXPROCS
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"           yaml:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"   yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"  yaml:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"   yaml:"idle_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
	MaxBatch     int           `mapstructure:"max_batch"      yaml:"max_batch"`
	CORSOrigins  []string      `mapstructure:"cors_origins"   yaml:"cors_origins"`
}

type FetchConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"        yaml:"timeout"`
	DialTimeout   time.Duration `mapstructure:"dial_timeout"   yaml:"dial_timeout"`
	SizeCap       int64         `mapstructure:"size_cap"       yaml:"size_cap"`
	UserAgent     string        `mapstructure:"user_agent"     yaml:"user_agent"`
	HostInterval  time.Duration `mapstructure:"host_interval"  yaml:"host_interval"`
	RespectRobots bool          `mapstructure:"respect_robots" yaml:"respect_robots"`
	AllowPrivate  bool          `mapstructure:"allow_private"  yaml:"allow_private"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads ./config/config.yaml or ~/.fakenews-features/config.yaml if
// present; a missing file is not an error. Environment variables such as
// FEATURES_BATCH_CONCURRENCY override file values.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".fakenews-features"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("lexicon.stopwords_file", "")
	v.SetDefault("lexicon.sentiment_lexicon_file", "")

	v.SetDefault("batch.concurrency", 0)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.max_body_bytes", 32<<20)
	v.SetDefault("server.max_batch", 10000)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("fetch.timeout", 15*time.Second)
	v.SetDefault("fetch.dial_timeout", 5*time.Second)
	v.SetDefault("fetch.size_cap", 5*1024*1024)
	v.SetDefault("fetch.user_agent", "fakenews-features/1.0")
	v.SetDefault("fetch.host_interval", 500*time.Millisecond)
	v.SetDefault("fetch.respect_robots", true)
	v.SetDefault("fetch.allow_private", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate rejects settings the binaries cannot run with.
func (c *Config) Validate() error {
	if c.Batch.Concurrency < 0 {
		return fmt.Errorf("batch.concurrency must be >= 0, got %d", c.Batch.Concurrency)
	}
	if c.Server.MaxBatch <= 0 {
		return fmt.Errorf("server.max_batch must be > 0, got %d", c.Server.MaxBatch)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be > 0, got %d", c.Server.MaxBodyBytes)
	}
	if c.Fetch.HostInterval < 0 {
		return fmt.Errorf("fetch.host_interval must be >= 0, got %s", c.Fetch.HostInterval)
	}
	if c.Fetch.SizeCap <= 0 {
		return fmt.Errorf("fetch.size_cap must be > 0, got %d", c.Fetch.SizeCap)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
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
