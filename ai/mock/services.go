package mock

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/sift/core"
)

// MockQueryEnhancer is a test double for ai.QueryEnhancer.
// It allows custom behavior injection via function fields.
type MockQueryEnhancer struct {
	// EnhanceQueryFunc is called by EnhanceQuery if set.
	// If nil, uses default echo behavior.
	EnhanceQueryFunc func(ctx context.Context, query string) (*core.QueryAnalysis, error)

	callCount int
}

// NewMockQueryEnhancer creates a mock enhancer with default echo behavior.
// Note: Returns concrete type to allow test assertions via GetMockEnhancer().
func NewMockQueryEnhancer() *MockQueryEnhancer {
	return &MockQueryEnhancer{}
}

// EnhanceQuery returns an analysis that echoes the query. The default
// derives keywords from the query's words, so the resulting expression is
// exercised end to end without a real model.
func (m *MockQueryEnhancer) EnhanceQuery(ctx context.Context, query string) (*core.QueryAnalysis, error) {
	m.callCount++

	if m.EnhanceQueryFunc != nil {
		return m.EnhanceQueryFunc(ctx, query)
	}

	return &core.QueryAnalysis{
		EnhancedQuery: query,
		Intent:        "general_search",
		Keywords:      strings.Fields(strings.ToLower(query)),
	}, nil
}

// CallCount returns the number of times EnhanceQuery was called.
func (m *MockQueryEnhancer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockQueryEnhancer) Reset() {
	m.callCount = 0
	m.EnhanceQueryFunc = nil
}

// MockSummarizer is a test double for ai.Summarizer.
// It allows custom behavior injection via function fields.
type MockSummarizer struct {
	// SummarizeResultsFunc is called by SummarizeResults if set.
	SummarizeResultsFunc func(ctx context.Context, query string, posts []*core.Post, intent string) (*core.Summary, error)

	// AnswerQuestionFunc is called by AnswerQuestion if set.
	AnswerQuestionFunc func(ctx context.Context, question string, posts []*core.Post) (string, error)

	callCount int
}

// NewMockSummarizer creates a mock summarizer with default fixed output.
// Note: Returns concrete type to allow test assertions via GetMockSummarizer().
func NewMockSummarizer() *MockSummarizer {
	return &MockSummarizer{}
}

// SummarizeResults returns a fixed summary referencing the query.
func (m *MockSummarizer) SummarizeResults(ctx context.Context, query string, posts []*core.Post, intent string) (*core.Summary, error) {
	m.callCount++

	if m.SummarizeResultsFunc != nil {
		return m.SummarizeResultsFunc(ctx, query, posts, intent)
	}

	return &core.Summary{
		Text:   fmt.Sprintf("Found %d posts matching %q.", len(posts), query),
		Themes: []string{"general"},
	}, nil
}

// AnswerQuestion returns a fixed answer referencing the question.
func (m *MockSummarizer) AnswerQuestion(ctx context.Context, question string, posts []*core.Post) (string, error) {
	m.callCount++

	if m.AnswerQuestionFunc != nil {
		return m.AnswerQuestionFunc(ctx, question, posts)
	}

	return fmt.Sprintf("Based on %d posts: no strong signal for %q.", len(posts), question), nil
}

// CallCount returns the number of times any method was called.
func (m *MockSummarizer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockSummarizer) Reset() {
	m.callCount = 0
	m.SummarizeResultsFunc = nil
	m.AnswerQuestionFunc = nil
}

// MockAnnotator is a test double for ai.Annotator.
// It allows custom behavior injection via function fields.
type MockAnnotator struct {
	// AnnotatePostFunc is called by AnnotatePost if set.
	AnnotatePostFunc func(ctx context.Context, content string, author string) (*core.PostAnnotation, error)

	callCount int
}

// NewMockAnnotator creates a mock annotator with default neutral output.
// Note: Returns concrete type to allow test assertions via GetMockAnnotator().
func NewMockAnnotator() *MockAnnotator {
	return &MockAnnotator{}
}

// AnnotatePost returns a neutral annotation derived from the content.
// Topics are the first few lowercase words, which is enough for index
// and filter tests to have something to match on.
func (m *MockAnnotator) AnnotatePost(ctx context.Context, content string, author string) (*core.PostAnnotation, error) {
	m.callCount++

	if m.AnnotatePostFunc != nil {
		return m.AnnotatePostFunc(ctx, content, author)
	}

	words := strings.Fields(strings.ToLower(content))
	if len(words) > 3 {
		words = words[:3]
	}
	return &core.PostAnnotation{
		Description: fmt.Sprintf("Post by @%s", author),
		Topics:      words,
		Sentiment:   core.SentimentNeutral,
		ContentType: "other",
	}, nil
}

// CallCount returns the number of times AnnotatePost was called.
func (m *MockAnnotator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockAnnotator) Reset() {
	m.callCount = 0
	m.AnnotatePostFunc = nil
}
