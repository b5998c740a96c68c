package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	FilterKeyword = "keyword"
	FilterModel   = "model"
)

type Config struct {
	Server  ServerConfig
	Gemini  GeminiConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Port        string `envconfig:"PORT" default:"5002"`
	AppName     string `envconfig:"APP_NAME" default:"Dream Analyzer"`
	Version     string `envconfig:"APP_VERSION" default:"dev"`
	Environment string `envconfig:"ENV" default:"development"`
	DreamFilter string `envconfig:"DREAM_FILTER" default:"keyword"`
}

type GeminiConfig struct {
	// APIKey may be empty; the analyzer reports it to the user per request.
	APIKey string `envconfig:"GEMINI_API_KEY"`
	Model  string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
}

type LoggingConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

// HasAPIKey reports whether a Gemini key was provided.
func (c *Config) HasAPIKey() bool {
	return strings.TrimSpace(c.Gemini.APIKey) != ""
}

// Load reads dotenv files, if any, and decodes the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env", ".env.dev"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			logrus.Debugf("env file %s not loaded: %v", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	switch cfg.Server.DreamFilter {
	case FilterKeyword, FilterModel:
	default:
		return nil, fmt.Errorf("unknown DREAM_FILTER %q", cfg.Server.DreamFilter)
	}
	return &cfg, nil
}
