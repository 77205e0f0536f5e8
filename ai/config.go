// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for the reasoning service provider.
type Config struct {
	// Host is the base URL for the OpenAI-compatible chat API.
	// Example: "https://api.x.ai/v1" or "http://localhost:11434/v1"
	Host string

	// Model is the chat model identifier used for enhancement,
	// annotation, and summarization.
	// Example: "grok-3-latest", "qwen2.5:3b", "gpt-4o-mini"
	Model string

	// APIKey authenticates with the service. Use "none" for local
	// OpenAI-compatible services that don't require authentication.
	APIKey string

	// RequestTimeout bounds every single call to the service.
	// Default: 30s
	RequestTimeout time.Duration

	// MaxAttempts is the number of tries for degradable calls
	// (query enhancement) before falling back to the default analysis.
	// Default: 3
	MaxAttempts int

	// BaseDelay is the initial retry delay; it doubles on each attempt
	// up to MaxDelay. Default: 500ms
	BaseDelay time.Duration

	// MaxDelay caps the exponential retry delay. Default: 10s
	MaxDelay time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the reasoning service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the chat model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithRequestTimeout sets the per-call timeout.
func WithRequestTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.RequestTimeout = d
	}
}

// WithMaxAttempts sets the retry attempt bound for degradable calls.
func WithMaxAttempts(n int) ConfigOption {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// WithBaseDelay sets the initial retry backoff delay.
func WithBaseDelay(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.BaseDelay = d
	}
}

// WithMaxDelay sets the retry backoff delay cap.
func WithMaxDelay(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.MaxDelay = d
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services.
func DefaultConfig() *Config {
	return &Config{
		Host:           "http://localhost:11434/v1",
		Model:          "qwen2.5:3b",
		APIKey:         "none",
		RequestTimeout: 30 * time.Second,
		MaxAttempts:    3,
		BaseDelay:      500 * time.Millisecond,
		MaxDelay:       10 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options. This is the recommended way to create a Config.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("https://api.x.ai"),
//	    WithModel("grok-3-latest"),
//	    WithAPIKey(os.Getenv("XAI_API_KEY")),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to the host if missing, which is
// required by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
	if c.APIKey == "" {
		c.APIKey = "none"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("ai config: Host is required")
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("ai config: RequestTimeout must be positive")
	}
	if c.MaxAttempts < 1 {
		return errors.New("ai config: MaxAttempts must be at least 1")
	}
	if c.BaseDelay <= 0 {
		return errors.New("ai config: BaseDelay must be positive")
	}
	if c.MaxDelay < c.BaseDelay {
		return errors.New("ai config: MaxDelay must be at least BaseDelay")
	}
	return nil
}
