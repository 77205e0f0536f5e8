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


package openai

import (
	"log/slog"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/embedding"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider implements ai.Provider using OpenAI-compatible chat services.
// The embedder is always the local deterministic one: embeddings must be
// a pure function of post text, so no remote model is involved.
//
// The query enhancer is pre-wrapped in ai.ResilientEnhancer, making
// degradation to the default analysis part of the provider contract.
type Provider struct {
	config     *ai.Config
	embedder   *embedding.Embedder
	enhancer   *ai.ResilientEnhancer
	summarizer *Summarizer
	annotator  *Annotator
	logger     *slog.Logger
}

// NewProvider creates a new AI provider backed by an OpenAI-compatible
// chat API. The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newClient(config)
	if err != nil {
		return nil, err
	}

	enhancer, err := ai.NewResilientEnhancer(newQueryEnhancer(client), config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:     config,
		embedder:   embedding.NewEmbedder(),
		enhancer:   enhancer,
		summarizer: newSummarizer(client),
		annotator:  newAnnotator(client),
		logger:     slog.Default().With("component", "openai-provider"),
	}, nil
}

// newClient creates the shared chat client.
// Use "none" as token for local OpenAI-compatible services that don't
// require authentication.
func newClient(config *ai.Config) (llms.Model, error) {
	return openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.Model),
	)
}

// Embedder returns the deterministic local embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// QueryEnhancer returns the resilient query enhancement service.
func (p *Provider) QueryEnhancer() ai.QueryEnhancer {
	return p.enhancer
}

// Summarizer returns the result summarization service.
func (p *Provider) Summarizer() ai.Summarizer {
	return p.summarizer
}

// Annotator returns the post annotation service.
func (p *Provider) Annotator() ai.Annotator {
	return p.annotator
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying client doesn't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
