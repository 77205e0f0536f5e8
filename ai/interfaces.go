package ai

import (
	"context"

	"github.com/poiesic/sift/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// QueryEnhancer asks the reasoning service to analyze a raw search query:
// classify its intent, extract keywords, expand related terms, and surface
// implicit filter hints.
// Implementations must be thread-safe for concurrent use.
type QueryEnhancer interface {
	// EnhanceQuery analyzes a free-text query. A malformed or unparsable
	// service response is reported as an error; callers decide whether to
	// retry or degrade to core.DefaultQueryAnalysis.
	EnhanceQuery(ctx context.Context, query string) (*core.QueryAnalysis, error)
}

// Summarizer synthesizes narrative output over a set of matching posts.
// Implementations must be thread-safe for concurrent use.
type Summarizer interface {
	// SummarizeResults produces a short narrative, key insights, themes,
	// and follow-up queries for a page of search results. Post indices in
	// the summary refer to positions in the posts slice.
	SummarizeResults(ctx context.Context, query string, posts []*core.Post, intent string) (*core.Summary, error)

	// AnswerQuestion answers a free-text question grounded in the given posts.
	AnswerQuestion(ctx context.Context, question string, posts []*core.Post) (string, error)
}

// Annotator generates the AI annotation block for a post: description,
// topics, sentiment, and entities.
// Implementations must be thread-safe for concurrent use.
type Annotator interface {
	// AnnotatePost analyzes post content and returns its annotation block.
	// Returns an error if the service call or response decoding fails.
	AnnotatePost(ctx context.Context, content, author string) (*core.PostAnnotation, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages the service
// instances, ensuring they share configuration and resources.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// QueryEnhancer returns the query enhancement service.
	QueryEnhancer() QueryEnhancer

	// Summarizer returns the result summarization service.
	Summarizer() Summarizer

	// Annotator returns the post annotation service.
	Annotator() Annotator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
