package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultAPIBaseURL  = "http://localhost:8000/api/v1"
	DefaultTokenDBPath = "scholarscout.db"
	DefaultLogLevel    = "info"
)

// Config holds runtime settings for the ScholarScout CLI.
//
// RequestTimeout bounds every API call; zero disables the limit.
type Config struct {
	APIBaseURL     string        `env:"API_BASE_URL"`
	TokenDBPath    string        `env:"TOKEN_DB_PATH"`
	LogLevel       string        `env:"LOG_LEVEL"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// LoadDefaults populates c with the built-in defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.TokenDBPath = DefaultTokenDBPath
	c.LogLevel = DefaultLogLevel
	c.RequestTimeout = 0
}

// LoadConfig builds a Config from defaults, the optional config file, the
// optional .env file, the environment and the command line. Later sources
// take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings can be used to start the client.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api base url %q", c.APIBaseURL)
	}
	if strings.TrimSpace(c.TokenDBPath) == "" {
		return fmt.Errorf("token db path is empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative")
	}
	return nil
}
