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
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/core"
	"github.com/tmc/langchaingo/llms"
)

// QueryEnhancer implements ai.QueryEnhancer using an OpenAI-compatible
// chat API. It performs a single attempt per call; retries, backoff, and
// degradation live in ai.ResilientEnhancer.
type QueryEnhancer struct {
	client llms.Model
	logger *slog.Logger
}

// queryAnalysis is the wire shape of the enhancer's JSON response.
type queryAnalysis struct {
	EnhancedQuery         string            `json:"enhanced_query"`
	Intent                string            `json:"intent"`
	Keywords              []string          `json:"keywords"`
	ExpandedTerms         []string          `json:"expanded_terms"`
	Filters               map[string]string `json:"filters"`
	ClarificationNeeded   bool              `json:"clarification_needed"`
	ClarificationQuestion string            `json:"clarification_question"`
}

// newQueryEnhancer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newQueryEnhancer(client llms.Model) *QueryEnhancer {
	return &QueryEnhancer{
		client: client,
		logger: slog.Default().With("component", "openai-enhancer"),
	}
}

// NewQueryEnhancer creates a query enhancer using the provided configuration.
//
// Returns ai.QueryEnhancer interface to enforce abstraction. Most callers
// want the resilient wrapper from NewProvider instead.
func NewQueryEnhancer(config *ai.Config) (ai.QueryEnhancer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := newClient(config)
	if err != nil {
		return nil, err
	}
	return newQueryEnhancer(client), nil
}

// EnhanceQuery asks the reasoning service to analyze a raw query.
// A transport failure or a response that cannot be decoded is returned
// as an error; the caller decides whether to retry or degrade.
func (e *QueryEnhancer) EnhanceQuery(ctx context.Context, query string) (*core.QueryAnalysis, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildEnhancementPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(fmt.Sprintf("Analyze this search query: %s", query)),
			},
		},
	}

	response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.3), llms.WithJSONMode())
	if err != nil {
		e.logger.Debug("enhancement call failed", "query", query, "err", err)
		return nil, err
	}
	if len(response.Choices) < 1 {
		return nil, ai.ErrEmptyResponse
	}

	var decoded queryAnalysis
	if err := decodeResponse(response.Choices[0].Content, &decoded); err != nil {
		e.logger.Warn("error parsing enhancer response",
			"query", query,
			"response", truncate(response.Choices[0].Content, 200),
			"err", err)
		return nil, err
	}

	analysis := &core.QueryAnalysis{
		EnhancedQuery:         decoded.EnhancedQuery,
		Intent:                decoded.Intent,
		Keywords:              decoded.Keywords,
		ExpandedTerms:         decoded.ExpandedTerms,
		Filters:               decoded.Filters,
		ClarificationNeeded:   decoded.ClarificationNeeded,
		ClarificationQuestion: decoded.ClarificationQuestion,
	}
	if analysis.EnhancedQuery == "" {
		analysis.EnhancedQuery = query
	}
	if analysis.Intent == "" {
		analysis.Intent = core.IntentUnknown
	}

	e.logger.Debug("enhanced query",
		"query", query,
		"intent", analysis.Intent,
		"keywords", len(analysis.Keywords),
		"expanded", len(analysis.ExpandedTerms))
	return analysis, nil
}
