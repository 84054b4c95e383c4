// Package config reads process configuration from the environment. Only the
// binaries under cmd/ call it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	ProviderGroq    = "groq"
	ProviderMiniMax = "minimax"
	ProviderOpenAI  = "openai"
)

type Config struct {
	Provider string `envconfig:"CHAT_PROVIDER" default:"groq"`

	GroqAPIKey    string `envconfig:"GROQ_API_KEY"`
	MiniMaxAPIKey string `envconfig:"MINIMAX_API_KEY"`
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`

	// APIKeyParameter names an SSM parameter consulted when the provider's
	// key variable is empty.
	APIKeyParameter string `envconfig:"API_KEY_PARAMETER"`

	VendorBaseURL string        `envconfig:"VENDOR_BASE_URL"`
	VendorTimeout time.Duration `envconfig:"VENDOR_TIMEOUT" default:"30s"`

	KnowledgePath     string `envconfig:"KNOWLEDGE_PATH" default:"knowledge.json"`
	KnowledgeS3Bucket string `envconfig:"KNOWLEDGE_S3_BUCKET"`
	KnowledgeS3Key    string `envconfig:"KNOWLEDGE_S3_KEY"`

	ExchangeTable string `envconfig:"EXCHANGE_TABLE"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`
}

func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderGroq, ProviderMiniMax, ProviderOpenAI:
	default:
		return fmt.Errorf("config: unsupported CHAT_PROVIDER %q", c.Provider)
	}
	if c.VendorTimeout <= 0 {
		return errors.New("config: VENDOR_TIMEOUT must be positive")
	}
	if (c.KnowledgeS3Bucket == "") != (c.KnowledgeS3Key == "") {
		return errors.New("config: KNOWLEDGE_S3_BUCKET and KNOWLEDGE_S3_KEY must be set together")
	}
	return nil
}

// APIKeyName is the environment variable holding the selected provider's key.
func (c *Config) APIKeyName() string {
	switch c.Provider {
	case ProviderMiniMax:
		return "MINIMAX_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return "GROQ_API_KEY"
	}
}

// APIKey is the selected provider's key as read from the environment; it may be empty.
func (c *Config) APIKey() string {
	switch c.Provider {
	case ProviderMiniMax:
		return c.MiniMaxAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	default:
		return c.GroqAPIKey
	}
}

func (c *Config) KnowledgeFromS3() bool {
	return c.KnowledgeS3Bucket != "" && c.KnowledgeS3Key != ""
}

// LoadDotEnv exports variables from an env file without overriding ones
// already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}
