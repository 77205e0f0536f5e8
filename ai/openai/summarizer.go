package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/core"
	"github.com/tmc/langchaingo/llms"
)

// Context size limits for prompt assembly.
const (
	maxSummaryPosts = 10
	maxAnswerPosts  = 15
	maxContextChars = 500
)

// Summarizer implements ai.Summarizer using an OpenAI-compatible chat API.
type Summarizer struct {
	client llms.Model
	logger *slog.Logger
}

// summary is the wire shape of the summarizer's JSON response.
type summary struct {
	Summary          string   `json:"summary"`
	KeyInsights      []string `json:"key_insights"`
	Themes           []string `json:"themes"`
	NotablePosts     []int    `json:"notable_posts"`
	SuggestedQueries []string `json:"suggested_queries"`
}

// newSummarizer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newSummarizer(client llms.Model) *Summarizer {
	return &Summarizer{
		client: client,
		logger: slog.Default().With("component", "openai-summarizer"),
	}
}

// NewSummarizer creates a summarizer using the provided configuration.
//
// Returns ai.Summarizer interface to enforce abstraction.
func NewSummarizer(config *ai.Config) (ai.Summarizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := newClient(config)
	if err != nil {
		return nil, err
	}
	return newSummarizer(client), nil
}

// SummarizeResults synthesizes a narrative over a page of results.
// Post indices returned by the model are bounds-checked against the
// actual result count; out-of-range references are dropped.
func (s *Summarizer) SummarizeResults(ctx context.Context, query string, posts []*core.Post, intent string) (*core.Summary, error) {
	if intent == "" {
		intent = core.IntentUnknown
	}

	userContent := fmt.Sprintf("Search Query: %s\nUser Intent: %s\n\nMatching Posts:\n%s",
		query, intent, formatPosts(posts, maxSummaryPosts, false))

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(summaryPromptTemplate),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userContent),
			},
		},
	}

	response, err := s.client.GenerateContent(ctx, content, llms.WithTemperature(0.5), llms.WithJSONMode())
	if err != nil {
		s.logger.Debug("summarization call failed", "query", query, "err", err)
		return nil, err
	}
	if len(response.Choices) < 1 {
		return nil, ai.ErrEmptyResponse
	}

	var decoded summary
	if err := decodeResponse(response.Choices[0].Content, &decoded); err != nil {
		s.logger.Warn("error parsing summarizer response",
			"response", truncate(response.Choices[0].Content, 200),
			"err", err)
		return nil, err
	}

	notable := make([]int, 0, len(decoded.NotablePosts))
	for _, idx := range decoded.NotablePosts {
		if idx >= 0 && idx < len(posts) {
			notable = append(notable, idx)
		}
	}

	return &core.Summary{
		Text:             decoded.Summary,
		KeyInsights:      decoded.KeyInsights,
		Themes:           decoded.Themes,
		NotablePosts:     notable,
		SuggestedQueries: decoded.SuggestedQueries,
	}, nil
}

// AnswerQuestion answers a free-text question grounded in the given posts.
func (s *Summarizer) AnswerQuestion(ctx context.Context, question string, posts []*core.Post) (string, error) {
	userContent := fmt.Sprintf("Question: %s\n\nRelevant posts:\n%s",
		question, formatPosts(posts, maxAnswerPosts, true))

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(answerSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userContent),
			},
		},
	}

	response, err := s.client.GenerateContent(ctx, content, llms.WithTemperature(0.7))
	if err != nil {
		s.logger.Debug("answer call failed", "question", question, "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", ai.ErrEmptyResponse
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}

// formatPosts renders posts as prompt context, bounding both the post
// count and per-post length.
func formatPosts(posts []*core.Post, limit int, withDates bool) string {
	if len(posts) > limit {
		posts = posts[:limit]
	}
	lines := make([]string, 0, len(posts))
	for _, post := range posts {
		if withDates && !post.PostedAt.IsZero() {
			lines = append(lines, fmt.Sprintf("[@%s - %s]: %s",
				post.AuthorUsername,
				post.PostedAt.Format("2006-01-02"),
				truncate(post.Content, maxContextChars)))
			continue
		}
		lines = append(lines, fmt.Sprintf("[@%s]: %s",
			post.AuthorUsername, truncate(post.Content, maxContextChars)))
	}
	return strings.Join(lines, "\n\n")
}
