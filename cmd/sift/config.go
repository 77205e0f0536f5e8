package main

import (
	"fmt"
	"os"
	"time"

	"github.com/poiesic/sift/ai"
	"gopkg.in/yaml.v3"
)

// fileConfig is the optional YAML configuration file shape.
type fileConfig struct {
	DBPath string `yaml:"db_path"`
	AI     struct {
		Host           string `yaml:"host"`
		Model          string `yaml:"model"`
		APIKey         string `yaml:"api_key"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"ai"`
}

// loadFileConfig reads a YAML config file. A missing path returns an
// empty config; flags and env vars still apply.
func loadFileConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// resolveDBPath picks the database path: flag, then config file, then
// SIFT_DB_PATH, then the default.
func resolveDBPath(flagValue string, cfg *fileConfig) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg.DBPath != "" {
		return cfg.DBPath
	}
	if env := os.Getenv("SIFT_DB_PATH"); env != "" {
		return env
	}
	return "./sift_db"
}

// resolveAIConfig builds the AI configuration from the config file with
// env var fallbacks (SIFT_AI_HOST, SIFT_AI_MODEL, SIFT_AI_KEY).
func resolveAIConfig(cfg *fileConfig) *ai.Config {
	var opts []ai.ConfigOption

	host := cfg.AI.Host
	if host == "" {
		host = os.Getenv("SIFT_AI_HOST")
	}
	if host != "" {
		opts = append(opts, ai.WithHost(host))
	}

	model := cfg.AI.Model
	if model == "" {
		model = os.Getenv("SIFT_AI_MODEL")
	}
	if model != "" {
		opts = append(opts, ai.WithModel(model))
	}

	key := cfg.AI.APIKey
	if key == "" {
		key = os.Getenv("SIFT_AI_KEY")
	}
	if key != "" {
		opts = append(opts, ai.WithAPIKey(key))
	}

	if cfg.AI.TimeoutSeconds > 0 {
		opts = append(opts, ai.WithRequestTimeout(time.Duration(cfg.AI.TimeoutSeconds)*time.Second))
	}

	return ai.NewConfig(opts...)
}
