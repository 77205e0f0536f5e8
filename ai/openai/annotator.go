package openai

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/core"
	"github.com/tmc/langchaingo/llms"
)

// Annotator implements ai.Annotator using an OpenAI-compatible chat API.
type Annotator struct {
	client llms.Model
	logger *slog.Logger
}

// annotation is the wire shape of the annotator's JSON response.
type annotation struct {
	Description string   `json:"description"`
	Topics      []string `json:"topics"`
	Sentiment   string   `json:"sentiment"`
	Entities    []string `json:"entities"`
	ContentType string   `json:"content_type"`
}

// newAnnotator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAnnotator(client llms.Model) *Annotator {
	return &Annotator{
		client: client,
		logger: slog.Default().With("component", "openai-annotator"),
	}
}

// NewAnnotator creates an annotator using the provided configuration.
//
// Returns ai.Annotator interface to enforce abstraction.
func NewAnnotator(config *ai.Config) (ai.Annotator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := newClient(config)
	if err != nil {
		return nil, err
	}
	return newAnnotator(client), nil
}

// AnnotatePost derives a structured annotation for a single post.
// A sentiment or content type outside the known sets is coerced to the
// unknown/other value rather than rejected; the model output is advisory.
func (a *Annotator) AnnotatePost(ctx context.Context, content string, author string) (*core.PostAnnotation, error) {
	userContent := fmt.Sprintf("Author: @%s\n\nPost:\n%s", author, truncate(content, 2000))

	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildAnnotationPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userContent),
			},
		},
	}

	response, err := a.client.GenerateContent(ctx, messages, llms.WithTemperature(0.2), llms.WithJSONMode())
	if err != nil {
		a.logger.Debug("annotation call failed", "author", author, "err", err)
		return nil, err
	}
	if len(response.Choices) < 1 {
		return nil, ai.ErrEmptyResponse
	}

	var decoded annotation
	if err := decodeResponse(response.Choices[0].Content, &decoded); err != nil {
		a.logger.Warn("error parsing annotator response",
			"author", author,
			"response", truncate(response.Choices[0].Content, 200),
			"err", err)
		return nil, err
	}

	if !slices.Contains(core.Sentiments, decoded.Sentiment) {
		a.logger.Debug("coercing unknown sentiment", "sentiment", decoded.Sentiment)
		decoded.Sentiment = core.SentimentUnknown
	}
	if !slices.Contains(ai.ContentTypes, decoded.ContentType) {
		decoded.ContentType = ai.ContentTypeOther
	}

	return &core.PostAnnotation{
		Description: decoded.Description,
		Topics:      decoded.Topics,
		Sentiment:   decoded.Sentiment,
		Entities:    decoded.Entities,
		ContentType: decoded.ContentType,
	}, nil
}
