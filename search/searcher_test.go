package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/sift/ai/mock"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/embedding"
	"github.com/poiesic/sift/storage"
	"github.com/poiesic/sift/storage/badger"
)

// searchFixture wires a searcher over in-memory storage with a handful
// of seeded posts spanning authors, sentiments, dates, and engagement.
type searchFixture struct {
	searcher  *Searcher
	posts     storage.PostRepository
	queryLogs storage.QueryLogRepository
	provider  *mock.MockProvider
}

func newSearchFixture(t *testing.T) *searchFixture {
	t.Helper()

	postRepo, queryLogRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		postRepo.Close()
		queryLogRepo.Close()
		backend.Close()
	})

	lexical, err := NewLexicalIndex()
	require.NoError(t, err)
	t.Cleanup(func() { lexical.Close() })
	semantic := NewSemanticIndex()

	provider := mock.NewMockProvider().(*mock.MockProvider)
	// Embed queries the same way the seeded post vectors were embedded,
	// so semantic scores reflect shared tokens.
	provider.GetMockEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return embedding.Embed(text), nil
	}

	searcher, err := NewSearcher(postRepo, queryLogRepo, lexical, semantic, provider)
	require.NoError(t, err)

	f := &searchFixture{
		searcher:  searcher,
		posts:     postRepo,
		queryLogs: queryLogRepo,
		provider:  provider,
	}

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	seed := []*core.Post{
		{
			PostID: "t1", AuthorUsername: "alice", Content: "AI tools are transforming software development",
			Likes: 120, PostedAt: now.Add(-1 * time.Hour),
			Annotation: &core.PostAnnotation{Sentiment: core.SentimentPositive, Topics: []string{"ai"}},
		},
		{
			PostID: "t2", AuthorUsername: "bob", Content: "AI hype is out of control and the tools disappoint",
			Likes: 40, PostedAt: now.Add(-2 * time.Hour),
			Annotation: &core.PostAnnotation{Sentiment: core.SentimentNegative, Topics: []string{"ai"}},
		},
		{
			PostID: "t3", AuthorUsername: "alice", Content: "Sourdough baking is the best weekend hobby",
			Likes: 300, PostedAt: now.Add(-48 * time.Hour),
			Annotation: &core.PostAnnotation{Sentiment: core.SentimentPositive, Topics: []string{"baking"}},
		},
		{
			PostID: "t4", AuthorUsername: "carol", Content: "Hybrid search combines lexical and vector retrieval",
			Likes: 15, PostedAt: now.Add(-3 * time.Hour),
		},
	}
	stored, err := postRepo.AddPosts(ctx, seed...)
	require.NoError(t, err)
	for _, post := range stored {
		require.NoError(t, lexical.Index(post))
		semantic.Upsert(post.Id, embedding.Embed(embedding.EmbeddingText(post)))
	}

	return f
}

func TestNewSearcher(t *testing.T) {
	lexical, err := NewLexicalIndex()
	require.NoError(t, err)
	defer lexical.Close()
	semantic := NewSemanticIndex()
	provider := mock.NewMockProvider()

	postRepo, queryLogRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		postRepo.Close()
		queryLogRepo.Close()
		backend.Close()
	}()

	t.Run("requires post repository", func(t *testing.T) {
		_, err := NewSearcher(nil, queryLogRepo, lexical, semantic, provider)
		assert.ErrorIs(t, err, ErrPostRepositoryRequired)
	})

	t.Run("requires lexical index", func(t *testing.T) {
		_, err := NewSearcher(postRepo, queryLogRepo, nil, semantic, provider)
		assert.ErrorIs(t, err, ErrLexicalIndexRequired)
	})

	t.Run("requires semantic index", func(t *testing.T) {
		_, err := NewSearcher(postRepo, queryLogRepo, lexical, nil, provider)
		assert.ErrorIs(t, err, ErrSemanticIndexRequired)
	})

	t.Run("requires provider", func(t *testing.T) {
		_, err := NewSearcher(postRepo, queryLogRepo, lexical, semantic, nil)
		assert.ErrorIs(t, err, ErrAIProviderRequired)
	})

	t.Run("query logs are optional", func(t *testing.T) {
		s, err := NewSearcher(postRepo, nil, lexical, semantic, provider)
		require.NoError(t, err)
		assert.NotNil(t, s)
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("hybrid ranks matching posts", func(t *testing.T) {
		f := newSearchFixture(t)

		result, err := f.searcher.Search(ctx, core.NewSearchRequest("AI tools"))
		require.NoError(t, err)
		require.NotEmpty(t, result.Posts)

		// Both AI posts should surface; the baking post should not lead.
		assert.Contains(t, []string{"t1", "t2"}, result.Posts[0].Post.PostID)
		assert.Positive(t, result.Posts[0].Score)
		assert.Equal(t, result.TotalCount, len(result.Posts))
	})

	t.Run("invalid request is rejected", func(t *testing.T) {
		f := newSearchFixture(t)

		req := core.NewSearchRequest("anything")
		req.Mode = "psychic"
		_, err := f.searcher.Search(ctx, req)
		assert.ErrorIs(t, err, core.ErrInvalidSearchMode)
	})

	t.Run("hybrid union covers both channels", func(t *testing.T) {
		f := newSearchFixture(t)

		req := core.NewSearchRequest("AI tools")
		req.Mode = core.ModeKeyword
		keyword, err := f.searcher.Search(ctx, req)
		require.NoError(t, err)

		req.Mode = core.ModeHybrid
		hybrid, err := f.searcher.Search(ctx, req)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, hybrid.TotalCount, keyword.TotalCount)
	})

	t.Run("semantic mode carries no lexical scores", func(t *testing.T) {
		f := newSearchFixture(t)

		req := core.NewSearchRequest("vector retrieval")
		req.Mode = core.ModeSemantic
		result, err := f.searcher.Search(ctx, req)
		require.NoError(t, err)
		require.NotEmpty(t, result.Posts)
		for _, sp := range result.Posts {
			assert.Zero(t, sp.LexicalScore)
		}
	})

	t.Run("degraded enhancement still returns results", func(t *testing.T) {
		f := newSearchFixture(t)
		f.provider.GetMockEnhancer().EnhanceQueryFunc = func(ctx context.Context, query string) (*core.QueryAnalysis, error) {
			return nil, errors.New("model unavailable")
		}

		result, err := f.searcher.Search(ctx, core.NewSearchRequest("AI tools"))
		require.NoError(t, err)
		assert.Equal(t, core.IntentUnknown, result.Analysis.Intent)
		assert.Equal(t, "AI tools", result.EnhancedQuery)
		assert.NotEmpty(t, result.Posts)
	})

	t.Run("enhancement disabled skips the enhancer", func(t *testing.T) {
		f := newSearchFixture(t)

		req := core.NewSearchRequest("AI tools")
		req.EnhanceQuery = false
		result, err := f.searcher.Search(ctx, req)
		require.NoError(t, err)
		assert.Zero(t, f.provider.GetMockEnhancer().CallCount())
		assert.Equal(t, core.IntentUnknown, result.Analysis.Intent)
	})

	t.Run("author filter", func(t *testing.T) {
		f := newSearchFixture(t)

		req := core.NewSearchRequest("AI tools")
		req.Filters.Author = "ALICE"
		result, err := f.searcher.Search(ctx, req)
		require.NoError(t, err)
		require.NotEmpty(t, result.Posts)
		for _, sp := range result.Posts {
			assert.Equal(t, "alice", sp.Post.AuthorUsername)
		}
	})

	t.Run("sentiment filter", func(t *testing.T) {
		f := newSearchFixture(t)

		req := core.NewSearchRequest("AI tools")
		req.Filters.Sentiment = core.SentimentNegative
		result, err := f.searcher.Search(ctx, req)
		require.NoError(t, err)
		require.NotEmpty(t, result.Posts)
		for _, sp := range result.Posts {
			require.NotNil(t, sp.Post.Annotation)
			assert.Equal(t, core.SentimentNegative, sp.Post.Annotation.Sentiment)
		}
	})

	t.Run("unknown sentiment filter is dropped alone", func(t *testing.T) {
		f := newSearchFixture(t)

		req := core.NewSearchRequest("AI tools")
		req.Filters.Sentiment = "ecstatic"
		req.Filters.Author = "bob"
		result, err := f.searcher.Search(ctx, req)
		require.NoError(t, err)
		// The author filter still applies even though the sentiment
		// label was unrecognized.
		require.NotEmpty(t, result.Posts)
		for _, sp := range result.Posts {
			assert.Equal(t, "bob", sp.Post.AuthorUsername)
		}
	})

	t.Run("min likes filter", func(t *testing.T) {
		f := newSearchFixture(t)

		req := core.NewSearchRequest("AI tools")
		req.Filters.MinLikes = 100
		result, err := f.searcher.Search(ctx, req)
		require.NoError(t, err)
		for _, sp := range result.Posts {
			assert.GreaterOrEqual(t, sp.Post.Likes, 100)
		}
	})

	t.Run("date range filter", func(t *testing.T) {
		f := newSearchFixture(t)

		req := core.NewSearchRequest("sourdough baking")
		req.Filters.DateFrom = time.Now().Add(-24 * time.Hour)
		result, err := f.searcher.Search(ctx, req)
		require.NoError(t, err)
		// The only baking post is two days old.
		for _, sp := range result.Posts {
			assert.NotEqual(t, "t3", sp.Post.PostID)
		}
	})

	t.Run("pagination pages are disjoint", func(t *testing.T) {
		f := newSearchFixture(t)

		req := core.NewSearchRequest("AI tools search")
		req.Limit = 1
		first, err := f.searcher.Search(ctx, req)
		require.NoError(t, err)
		require.Len(t, first.Posts, 1)

		req.Offset = 1
		second, err := f.searcher.Search(ctx, req)
		require.NoError(t, err)

		if len(second.Posts) > 0 {
			assert.NotEqual(t, first.Posts[0].Post.Id, second.Posts[0].Post.Id)
		}
		assert.Equal(t, first.TotalCount, second.TotalCount)
	})

	t.Run("sort by likes descending", func(t *testing.T) {
		f := newSearchFixture(t)

		req := core.NewSearchRequest("AI tools")
		req.SortBy = core.SortByLikes
		result, err := f.searcher.Search(ctx, req)
		require.NoError(t, err)
		for i := 1; i < len(result.Posts); i++ {
			assert.GreaterOrEqual(t, result.Posts[i-1].Post.Likes, result.Posts[i].Post.Likes)
		}
	})

	t.Run("sort by date ascending", func(t *testing.T) {
		f := newSearchFixture(t)

		req := core.NewSearchRequest("AI tools")
		req.SortBy = core.SortByDate
		req.SortOrder = core.SortAsc
		result, err := f.searcher.Search(ctx, req)
		require.NoError(t, err)
		for i := 1; i < len(result.Posts); i++ {
			prev, cur := result.Posts[i-1].Post.PostedAt, result.Posts[i].Post.PostedAt
			assert.False(t, prev.After(cur))
		}
	})

	t.Run("summary included on request", func(t *testing.T) {
		f := newSearchFixture(t)

		req := core.NewSearchRequest("AI tools")
		req.IncludeSummary = true
		result, err := f.searcher.Search(ctx, req)
		require.NoError(t, err)
		require.NotNil(t, result.Summary)
		assert.NotEmpty(t, result.Summary.Text)
	})

	t.Run("summary degradation is silent", func(t *testing.T) {
		f := newSearchFixture(t)
		f.provider.GetMockSummarizer().SummarizeResultsFunc = func(ctx context.Context, query string, posts []*core.Post, intent string) (*core.Summary, error) {
			return nil, errors.New("model unavailable")
		}

		result, err := f.searcher.Search(ctx, core.NewSearchRequest("AI tools"))
		require.NoError(t, err)
		assert.Nil(t, result.Summary)
		assert.NotEmpty(t, result.Posts)
	})

	t.Run("every search writes an audit row", func(t *testing.T) {
		f := newSearchFixture(t)

		_, err := f.searcher.Search(ctx, core.NewSearchRequest("AI tools"))
		require.NoError(t, err)
		_, err = f.searcher.Search(ctx, core.NewSearchRequest("sourdough"))
		require.NoError(t, err)

		count, err := f.queryLogs.CountQueryLogs(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		logs, err := f.queryLogs.RecentQueryLogs(ctx, 10)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, "sourdough", logs[0].OriginalQuery)
	})

	t.Run("empty query is a recency listing", func(t *testing.T) {
		f := newSearchFixture(t)

		result, err := f.searcher.Search(ctx, core.NewSearchRequest("  "))
		require.NoError(t, err)
		require.Len(t, result.Posts, 4)
		// Most recent first, no scores.
		assert.Equal(t, "t1", result.Posts[0].Post.PostID)
		assert.Zero(t, result.Posts[0].Score)

		// Listings are not audited and not enhanced.
		count, err := f.queryLogs.CountQueryLogs(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Zero(t, f.provider.GetMockEnhancer().CallCount())
	})

	t.Run("recency listing honors filters and sorts", func(t *testing.T) {
		f := newSearchFixture(t)

		req := core.NewSearchRequest("")
		req.Filters.Author = "alice"
		req.SortBy = core.SortByLikes
		result, err := f.searcher.Search(ctx, req)
		require.NoError(t, err)
		require.Len(t, result.Posts, 2)
		assert.Equal(t, "t3", result.Posts[0].Post.PostID)
	})

	t.Run("stop-word query is a recency listing", func(t *testing.T) {
		f := newSearchFixture(t)

		req := core.NewSearchRequest("the of and")
		req.Mode = core.ModeKeyword
		result, err := f.searcher.Search(ctx, req)
		require.NoError(t, err)
		require.Len(t, result.Posts, 4)
		assert.Equal(t, "t1", result.Posts[0].Post.PostID)
		assert.Zero(t, result.Posts[0].Score)
	})

	t.Run("recency listing drops unknown sentiment filter alone", func(t *testing.T) {
		f := newSearchFixture(t)

		req := core.NewSearchRequest("")
		req.Filters.Sentiment = "grumpy"
		req.Filters.Author = "alice"
		result, err := f.searcher.Search(ctx, req)
		require.NoError(t, err)
		require.Len(t, result.Posts, 2)
		for _, sp := range result.Posts {
			assert.Equal(t, "alice", sp.Post.AuthorUsername)
		}
	})

	t.Run("no matches", func(t *testing.T) {
		f := newSearchFixture(t)

		req := core.NewSearchRequest("xylophone maintenance")
		req.Mode = core.ModeKeyword
		result, err := f.searcher.Search(ctx, req)
		require.NoError(t, err)
		assert.Empty(t, result.Posts)
		assert.Zero(t, result.TotalCount)
	})
}

func TestSearchWithMonitor(t *testing.T) {
	f := newSearchFixture(t)

	var stages []string
	monitor := &recordingMonitor{stages: &stages}

	_, err := f.searcher.SearchWithMonitor(context.Background(), core.NewSearchRequest("AI tools"), monitor)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"start", "enhancement", "lexical", "semantic",
		"fusion", "hydration", "filtering", "finish",
	}, stages)
}

type recordingMonitor struct {
	stages *[]string
}

func (m *recordingMonitor) record(stage string) { *m.stages = append(*m.stages, stage) }

func (m *recordingMonitor) Start(query string)                     { m.record("start") }
func (m *recordingMonitor) AfterEnhancement(a *core.QueryAnalysis) { m.record("enhancement") }
func (m *recordingMonitor) AfterLexicalSearch(hits []Scored)       { m.record("lexical") }
func (m *recordingMonitor) AfterSemanticSearch(hits []Scored)      { m.record("semantic") }
func (m *recordingMonitor) AfterFusion(fused []Fused)              { m.record("fusion") }
func (m *recordingMonitor) AfterHydration(posts []*core.Post)      { m.record("hydration") }
func (m *recordingMonitor) AfterFiltering(count int)               { m.record("filtering") }
func (m *recordingMonitor) Finish(result *core.SearchResult)       { m.record("finish") }

func TestAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("answers with sources", func(t *testing.T) {
		f := newSearchFixture(t)

		answer, err := f.searcher.Ask(ctx, "what do people think about AI tools")
		require.NoError(t, err)
		assert.NotEmpty(t, answer.Answer)
		assert.NotEmpty(t, answer.Sources)
		assert.LessOrEqual(t, len(answer.Sources), askSourceLimit)
	})

	t.Run("no relevant posts", func(t *testing.T) {
		postRepo, queryLogRepo, backend, err := badger.NewMemoryRepositories()
		require.NoError(t, err)
		defer func() {
			postRepo.Close()
			queryLogRepo.Close()
			backend.Close()
		}()

		lexical, err := NewLexicalIndex()
		require.NoError(t, err)
		defer lexical.Close()

		s, err := NewSearcher(postRepo, queryLogRepo, lexical, NewSemanticIndex(), mock.NewMockProvider())
		require.NoError(t, err)

		answer, err := s.Ask(ctx, "what do people think about AI tools")
		require.NoError(t, err)
		assert.Equal(t, "I couldn't find any posts relevant to that question.", answer.Answer)
		assert.Empty(t, answer.Sources)
	})

	t.Run("degrades when synthesis fails", func(t *testing.T) {
		f := newSearchFixture(t)
		f.provider.GetMockSummarizer().AnswerQuestionFunc = func(ctx context.Context, question string, posts []*core.Post) (string, error) {
			return "", errors.New("model unavailable")
		}

		answer, err := f.searcher.Ask(ctx, "what do people think about AI tools")
		require.NoError(t, err)
		assert.Equal(t, "I found relevant posts but couldn't synthesize an answer right now.", answer.Answer)
		assert.NotEmpty(t, answer.Sources)
	})
}

func TestSuggest(t *testing.T) {
	ctx := context.Background()

	t.Run("returns matching past queries", func(t *testing.T) {
		f := newSearchFixture(t)

		for _, q := range []string{"AI tools", "AI safety", "baking tips"} {
			_, err := f.searcher.Search(ctx, core.NewSearchRequest(q))
			require.NoError(t, err)
		}

		suggestions, err := f.searcher.Suggest(ctx, "ai", 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"AI safety", "AI tools"}, suggestions)
	})

	t.Run("nil query logs disable suggestions", func(t *testing.T) {
		f := newSearchFixture(t)

		lexical, err := NewLexicalIndex()
		require.NoError(t, err)
		defer lexical.Close()

		s, err := NewSearcher(f.posts, nil, lexical, NewSemanticIndex(), mock.NewMockProvider())
		require.NoError(t, err)

		suggestions, err := s.Suggest(ctx, "ai", 10)
		require.NoError(t, err)
		assert.Nil(t, suggestions)
	})
}

func TestWithWeights(t *testing.T) {
	f := newSearchFixture(t)

	lexical, err := NewLexicalIndex()
	require.NoError(t, err)
	defer lexical.Close()

	s, err := NewSearcher(f.posts, nil, lexical, NewSemanticIndex(), mock.NewMockProvider(),
		WithWeights(Weights{Lexical: 0.9, Semantic: 0.1}))
	require.NoError(t, err)
	assert.Equal(t, Weights{Lexical: 0.9, Semantic: 0.1}, s.weights)
}
