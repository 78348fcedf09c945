// File: config/config.go

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/autopromptix/autopromptix/utils"
)

const (
	ScoringHeuristic = "heuristic"
	ScoringRubric    = "rubric"

	LanguageEnglish = "en"
	LanguageKorean  = "ko"
)

// Config holds everything the oracle client, scorer selection and optimizer
// need. Values come from defaults, then the environment, then an optional
// YAML file.
type Config struct {
	APIKey      string  `env:"OPENAI_API_KEY" yaml:"api_key"`
	Model       string  `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo" yaml:"model" validate:"required"`
	BaseURL     string  `env:"OPENAI_BASE_URL" yaml:"base_url" validate:"omitempty,url"`
	Temperature float32 `env:"AUTOPROMPTIX_TEMPERATURE" envDefault:"0.3" yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `env:"AUTOPROMPTIX_MAX_TOKENS" envDefault:"500" yaml:"max_tokens" validate:"gte=1"`

	Timeout    time.Duration `env:"AUTOPROMPTIX_TIMEOUT" envDefault:"30s" yaml:"timeout" validate:"gte=0"`
	MaxRetries int           `env:"AUTOPROMPTIX_MAX_RETRIES" envDefault:"2" yaml:"max_retries" validate:"gte=0,lte=10"`
	RetryDelay time.Duration `env:"AUTOPROMPTIX_RETRY_DELAY" envDefault:"1s" yaml:"retry_delay" validate:"gte=0"`

	// RateLimit is in requests per second; zero disables limiting.
	RateLimit float64 `env:"AUTOPROMPTIX_RATE_LIMIT" envDefault:"0" yaml:"rate_limit" validate:"gte=0"`
	RateBurst int     `env:"AUTOPROMPTIX_RATE_BURST" envDefault:"1" yaml:"rate_burst" validate:"gte=1"`

	BreakerMaxRequests  uint32        `env:"AUTOPROMPTIX_BREAKER_MAX_REQUESTS" envDefault:"3" yaml:"breaker_max_requests"`
	BreakerInterval     time.Duration `env:"AUTOPROMPTIX_BREAKER_INTERVAL" envDefault:"60s" yaml:"breaker_interval"`
	BreakerTimeout      time.Duration `env:"AUTOPROMPTIX_BREAKER_TIMEOUT" envDefault:"30s" yaml:"breaker_timeout"`
	BreakerMinRequests  uint32        `env:"AUTOPROMPTIX_BREAKER_MIN_REQUESTS" envDefault:"5" yaml:"breaker_min_requests"`
	BreakerFailureRatio float64       `env:"AUTOPROMPTIX_BREAKER_FAILURE_RATIO" envDefault:"0.5" yaml:"breaker_failure_ratio" validate:"gte=0,lte=1"`

	Language string         `env:"AUTOPROMPTIX_LANGUAGE" envDefault:"en" yaml:"language" validate:"oneof=en ko"`
	Scoring  string         `env:"AUTOPROMPTIX_SCORING" envDefault:"heuristic" yaml:"scoring" validate:"oneof=heuristic rubric"`
	LogLevel utils.LogLevel `env:"AUTOPROMPTIX_LOG_LEVEL" envDefault:"WARN" yaml:"log_level"`

	JaegerEndpoint string `env:"AUTOPROMPTIX_JAEGER_ENDPOINT" yaml:"jaeger_endpoint"`
	ServiceName    string `env:"AUTOPROMPTIX_SERVICE_NAME" envDefault:"autopromptix" yaml:"service_name"`

	// Logger overrides the logger built from LogLevel.
	Logger utils.Logger `env:"-" yaml:"-" validate:"-"`
}

var validate = validator.New()

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile reads the environment first and then overlays the YAML file
// at path. Keys present in the file win over the environment.
func LoadConfigFile(path string) (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

type ConfigOption func(*Config)

// NewConfig returns the defaults without consulting the environment.
func NewConfig() *Config {
	return &Config{
		Model:               "gpt-3.5-turbo",
		Temperature:         0.3,
		MaxTokens:           500,
		Timeout:             30 * time.Second,
		MaxRetries:          2,
		RetryDelay:          time.Second,
		RateBurst:           1,
		BreakerMaxRequests:  3,
		BreakerInterval:     60 * time.Second,
		BreakerTimeout:      30 * time.Second,
		BreakerMinRequests:  5,
		BreakerFailureRatio: 0.5,
		Language:            LanguageEnglish,
		Scoring:             ScoringHeuristic,
		LogLevel:            utils.LogLevelWarn,
		ServiceName:         "autopromptix",
	}
}

func SetAPIKey(apiKey string) ConfigOption {
	return func(c *Config) {
		c.APIKey = apiKey
	}
}

func SetModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

func SetBaseURL(baseURL string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = baseURL
	}
}

func SetTemperature(temperature float32) ConfigOption {
	return func(c *Config) {
		c.Temperature = temperature
	}
}

func SetMaxTokens(maxTokens int) ConfigOption {
	return func(c *Config) {
		if maxTokens < 1 {
			maxTokens = 1
		}
		c.MaxTokens = maxTokens
	}
}

func SetTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

func SetMaxRetries(maxRetries int) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = maxRetries
	}
}

func SetRetryDelay(retryDelay time.Duration) ConfigOption {
	return func(c *Config) {
		c.RetryDelay = retryDelay
	}
}

func SetRateLimit(perSecond float64, burst int) ConfigOption {
	return func(c *Config) {
		c.RateLimit = perSecond
		c.RateBurst = burst
	}
}

func SetLanguage(language string) ConfigOption {
	return func(c *Config) {
		c.Language = language
	}
}

func SetScoring(strategy string) ConfigOption {
	return func(c *Config) {
		c.Scoring = strategy
	}
}

func SetLogLevel(level utils.LogLevel) ConfigOption {
	return func(c *Config) {
		c.LogLevel = level
	}
}

func SetLogger(logger utils.Logger) ConfigOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

func SetJaegerEndpoint(endpoint string) ConfigOption {
	return func(c *Config) {
		c.JaegerEndpoint = endpoint
	}
}

func ApplyOptions(cfg *Config, options ...ConfigOption) {
	for _, option := range options {
		option(cfg)
	}
}
