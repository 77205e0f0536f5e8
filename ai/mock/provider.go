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


package mock

import "github.com/poiesic/sift/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates mock instances of every service.
type MockProvider struct {
	embedder   *MockEmbedder
	enhancer   *MockQueryEnhancer
	summarizer *MockSummarizer
	annotator  *MockAnnotator
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use the GetMock* accessors to reach concrete types for test assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		embedder:   NewMockEmbedder(),
		enhancer:   NewMockQueryEnhancer(),
		summarizer: NewMockSummarizer(),
		annotator:  NewMockAnnotator(),
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// QueryEnhancer returns the mock query enhancer.
func (p *MockProvider) QueryEnhancer() ai.QueryEnhancer {
	return p.enhancer
}

// Summarizer returns the mock summarizer.
func (p *MockProvider) Summarizer() ai.Summarizer {
	return p.summarizer
}

// Annotator returns the mock annotator.
func (p *MockProvider) Annotator() ai.Annotator {
	return p.annotator
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockEnhancer returns the underlying mock enhancer for test assertions.
func (p *MockProvider) GetMockEnhancer() *MockQueryEnhancer {
	return p.enhancer
}

// GetMockSummarizer returns the underlying mock summarizer for test assertions.
func (p *MockProvider) GetMockSummarizer() *MockSummarizer {
	return p.summarizer
}

// GetMockAnnotator returns the underlying mock annotator for test assertions.
func (p *MockProvider) GetMockAnnotator() *MockAnnotator {
	return p.annotator
}
