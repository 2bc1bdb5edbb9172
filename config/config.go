package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pevans/ussdcodes/dataset"
	"github.com/pevans/ussdcodes/discovery"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, as in
// USSDCODES_SCRAPER_TIMEOUT.
const EnvPrefix = "USSDCODES"

// Config is the run configuration for the scraper and exporter.
type Config struct {
	Scraper  ScraperConfig  `mapstructure:"scraper" validate:"required"`
	Output   OutputConfig   `mapstructure:"output" validate:"required"`
	Profiles ProfilesConfig `mapstructure:"profiles"`
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Log      LogConfig      `mapstructure:"log" validate:"required"`
}

type ScraperConfig struct {
	Timeout          time.Duration `mapstructure:"timeout" validate:"required,min=1s,max=2m"`
	UserAgent        string        `mapstructure:"user_agent" validate:"required,min=10"`
	RequestDelay     time.Duration `mapstructure:"request_delay" validate:"min=0s,max=1m"`
	Concurrency      int           `mapstructure:"concurrency" validate:"required,min=1,max=16"`
	Live             bool          `mapstructure:"live"`
	CloudflareBypass bool          `mapstructure:"cloudflare_bypass"`
}

type OutputConfig struct {
	Dir       string   `mapstructure:"dir" validate:"required"`
	Formats   []string `mapstructure:"formats" validate:"required,min=1,dive,oneof=json xlsx sqlite"`
	Timestamp string   `mapstructure:"timestamp" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

type ProfilesConfig struct {
	Dir string `mapstructure:"dir"`
}

// ServerConfig configures the read-only dataset API.
type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required,hostname_port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// setDefaults configures default values for viper
func setDefaults(v *viper.Viper) {
	// Scraper defaults
	v.SetDefault("scraper.timeout", discovery.DefaultTimeout.String())
	v.SetDefault("scraper.user_agent", discovery.DefaultUserAgent)
	v.SetDefault("scraper.request_delay", "1s")
	v.SetDefault("scraper.concurrency", 1)
	v.SetDefault("scraper.live", true)
	v.SetDefault("scraper.cloudflare_bypass", false)

	// Output defaults
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.formats", []string{dataset.FormatJSON})
	v.SetDefault("output.timestamp", dataset.DefaultTimestamp)

	v.SetDefault("profiles.dir", "")

	v.SetDefault("server.addr", "localhost:8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration from defaults, an optional YAML file,
// USSDCODES_* environment variables and finally overrides, which are keyed
// like "output.dir". With an empty path, ussdcodes.yaml is looked up in the
// working directory and ./config; a missing file there is not an error.
func Load(path string, overrides map[string]any) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("ussdcodes")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}
