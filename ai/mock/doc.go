// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder,
// ai.QueryEnhancer, ai.Summarizer, ai.Annotator, and ai.Provider for use
// in unit tests. The mocks allow tests to run without external AI service
// dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	analysis, err := mockProvider.QueryEnhancer().EnhanceQuery(ctx, "test")
//
//	// Custom behavior injection
//	mockEnhancer := mock.NewMockQueryEnhancer()
//	mockEnhancer.EnhanceQueryFunc = func(ctx context.Context, query string) (*core.QueryAnalysis, error) {
//	    return nil, errors.New("service down")
//	}
//
//	// Check call counts
//	count := mockEnhancer.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic unit vectors based on text hash
//   - MockQueryEnhancer: Echoes the query with intent "general_search"
//   - MockSummarizer: Returns a fixed summary referencing the query
//   - MockAnnotator: Returns a neutral annotation derived from the content
//   - MockProvider: Aggregates all of the above
package mock
