package common

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL    = "https://ark.cn-beijing.volces.com/api/v3"
	DefaultImageModel = "doubao-seedream-3-0-t2i-250415"
	DefaultI2VModel   = "doubao-seedance-1-0-lite-i2v-250428"
	DefaultT2VModel   = "doubao-seedance-1-0-lite-t2v-250428"
)

// ErrMissingAPIKey is reported by Validate when DOUBAO_API_KEY is unset.
var ErrMissingAPIKey = errors.New("DOUBAO_API_KEY environment variable is required")

type Config struct {
	// Ark API Configuration
	APIKey          string        `env:"DOUBAO_API_KEY"`
	BaseURL         string        `env:"DOUBAO_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	HTTPTimeout     time.Duration `env:"DOUBAO_HTTP_TIMEOUT" envDefault:"60s"`
	PollInterval    time.Duration `env:"DOUBAO_POLL_INTERVAL" envDefault:"5s"`
	PollMaxAttempts int           `env:"DOUBAO_POLL_MAX_ATTEMPTS" envDefault:"60"`

	// Default models per tool
	ImageModel string `env:"DOUBAO_IMAGE_MODEL" envDefault:"doubao-seedream-3-0-t2i-250415"`
	I2VModel   string `env:"DOUBAO_I2V_MODEL" envDefault:"doubao-seedance-1-0-lite-i2v-250428"`
	T2VModel   string `env:"DOUBAO_T2V_MODEL" envDefault:"doubao-seedance-1-0-lite-t2v-250428"`

	// Server Configuration
	Port      string `env:"PORT" envDefault:"8080"`
	Transport string `env:"TRANSPORT" envDefault:"stdio"` // stdio or http; sse is an alias of http
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"` // json or console
	ImageDir  string `env:"IMAGE_DIR"`                    // base dir for relative image paths

	// Authentication Configuration (HTTP transport only)
	ServiceTokens []string `env:"SERVICE_TOKENS" envSeparator:","`
	AuthEnabled   bool     `env:"-"`

	// S3 image source
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3Bucket          string `env:"S3_BUCKET" envDefault:"doubao-media"`
	S3Region          string `env:"S3_REGION" envDefault:"us-east-1"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3UseSSL          bool   `env:"S3_USE_SSL" envDefault:"true"`
	S3Enabled         bool   `env:"-"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	config.APIKey = strings.TrimSpace(config.APIKey)
	config.NormalizeTransport()
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	config.ServiceTokens = cleanTokens(config.ServiceTokens)
	config.AuthEnabled = len(config.ServiceTokens) > 0
	config.S3Enabled = config.S3Endpoint != "" &&
		config.S3AccessKeyID != "" &&
		config.S3SecretAccessKey != ""

	return config, nil
}

func cleanTokens(tokens []string) []string {
	var result []string
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t != "" {
			result = append(result, t)
		}
	}
	return result
}

// NormalizeTransport lowercases the transport and maps the legacy "sse" name
// to "http", which serves streamable HTTP.
func (c *Config) NormalizeTransport() {
	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	if c.Transport == "sse" {
		c.Transport = "http"
	}
}

// APIKeySet reports whether a vendor credential is configured.
func (c *Config) APIKeySet() bool {
	return c.APIKey != ""
}

// Validate checks transport and polling settings. The API key is checked by
// CheckCredential.
func (c *Config) Validate() error {
	var errs []error
	switch c.Transport {
	case "stdio", "http":
	default:
		errs = append(errs, fmt.Errorf("unsupported transport %q", c.Transport))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("DOUBAO_POLL_INTERVAL must be positive, got %s", c.PollInterval))
	}
	if c.PollMaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("DOUBAO_POLL_MAX_ATTEMPTS must be positive, got %d", c.PollMaxAttempts))
	}
	return errors.Join(errs...)
}

func (c *Config) CheckCredential() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
