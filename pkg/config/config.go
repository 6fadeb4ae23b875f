package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "SNSQA"

// Config holds everything the CLI needs to reach and render the service.
type Config struct {
	// Host is the deployment host; loopback hosts use the local dev origin.
	Host string `mapstructure:"host"`
	// BaseURL overrides the host rule when set.
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	Output     string        `mapstructure:"output"`
	NoColor    bool          `mapstructure:"no_color"`
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"host":        "host",
	"base-url":    "base_url",
	"timeout":     "timeout",
	"max-retries": "max_retries",
	"output":      "output",
	"no-color":    "no_color",
}

// Load reads configuration from defaults, a .env file, SNSQA_* environment
// variables, the config file and finally any flags that were set. An
// explicit path must exist; the default file is optional.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("host", "localhost")
	v.SetDefault("base_url", "")
	v.SetDefault("timeout", "60s")
	v.SetDefault("max_retries", 0)
	v.SetDefault("output", "human")
	v.SetDefault("no_color", false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".sns-qa"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the client cannot work with.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries)
	}
	switch c.Output {
	case "human", "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format %q (supported: human, json, yaml)", c.Output)
	}
	return nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
