// Package config loads the TUI configuration from an optional YAML file,
// with defaults suitable for a locally running backend and environment
// variable overrides on top.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API    APIConfig    `yaml:"api"`
	Stream StreamConfig `yaml:"stream"`
	Log    LogConfig    `yaml:"log"`
}

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

type StreamConfig struct {
	BaseURL string `yaml:"base_url"`
	// Path is the stream path template. A ":sessionId" token is substituted
	// with the session id; without the token the id is appended as a path
	// suffix.
	Path string `yaml:"path"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
		},
		Stream: StreamConfig{
			BaseURL: "http://localhost:8000",
			Path:    "/api/stream/:sessionId",
		},
		Log: LogConfig{
			File:  "blitz-tui.log",
			Level: "info",
		},
	}
}

// Load reads the config file at path, falling back to defaults when the file
// does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file is fine; defaults plus env cover local development.
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("BLITZ_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("BLITZ_STREAM_URL"); v != "" {
		c.Stream.BaseURL = v
	}
	if v := os.Getenv("BLITZ_STREAM_PATH"); v != "" {
		c.Stream.Path = v
	}
	if v := os.Getenv("BLITZ_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("BLITZ_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}
