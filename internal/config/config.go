// Package config holds the process configuration. It is built once at
// startup and passed into each component by reference; components report a
// ConfigError on first use when a value they need is unset.
package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Shared secret expected in the x-api-key header on inbound requests.
	APIKey string `env:"RELAY_API_KEY"`

	Slack  SlackConfig
	GitHub GitHubConfig
}

type SlackConfig struct {
	BotToken string `env:"SLACK_BOT_TOKEN"`
}

type GitHubConfig struct {
	Token string `env:"GITHUB_TOKEN"`
	Owner string `env:"GITHUB_OWNER"`
	Repo  string `env:"GITHUB_REPO"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
