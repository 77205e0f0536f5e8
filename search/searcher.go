package search

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/storage"
)

// minCandidatePool is the floor for per-channel retrieval depth.
// Fusion and filtering both shrink the candidate set, so each channel
// fetches well past the requested page.
const minCandidatePool = 200

// askSourceLimit caps how many sources a question answer cites.
const askSourceLimit = 5

// askSearchLimit is how many posts ground a question answer.
const askSearchLimit = 15

// Searcher provides hybrid lexical and semantic search over posts.
type Searcher struct {
	postRepository storage.PostRepository
	queryLogs      storage.QueryLogRepository
	lexical        *LexicalIndex
	semantic       *SemanticIndex
	embedder       ai.Embedder
	enhancer       ai.QueryEnhancer
	summarizer     ai.Summarizer
	weights        Weights
	logger         *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithWeights sets the channel fusion weights for hybrid mode.
// Default is equal weighting.
func WithWeights(w Weights) Option {
	return func(s *Searcher) error {
		s.weights = w
		return nil
	}
}

// NewSearcher creates a new searcher.
// The query log repository may be nil; auditing and suggestions are then
// disabled.
func NewSearcher(
	postRepository storage.PostRepository,
	queryLogs storage.QueryLogRepository,
	lexical *LexicalIndex,
	semantic *SemanticIndex,
	provider ai.Provider,
	opts ...Option,
) (*Searcher, error) {
	if postRepository == nil {
		return nil, ErrPostRepositoryRequired
	}
	if lexical == nil {
		return nil, ErrLexicalIndexRequired
	}
	if semantic == nil {
		return nil, ErrSemanticIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		postRepository: postRepository,
		queryLogs:      queryLogs,
		lexical:        lexical,
		semantic:       semantic,
		embedder:       provider.Embedder(),
		enhancer:       provider.QueryEnhancer(),
		summarizer:     provider.Summarizer(),
		weights:        DefaultWeights(),
		logger:         slog.Default().With("component", "searcher"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search runs a search request through the full retrieval flow.
func (s *Searcher) Search(ctx context.Context, req core.SearchRequest) (*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, req, nil)
}

// SearchWithMonitor runs a search request with stage callbacks.
// The monitor receives intermediate hits, the fused ranking, and the
// final result.
func (s *Searcher) SearchWithMonitor(ctx context.Context, req core.SearchRequest, monitor SearchMonitor) (*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	monitor.Start(req.Query)

	// A query with no content is a recency listing, not an error.
	// Stop-word-only queries normalize to nothing and degrade the same way.
	if len(tokenizeAndFilter(req.Query)) == 0 {
		return s.listRecent(ctx, req, monitor)
	}

	analysis := s.analyzeQuery(ctx, req)
	monitor.AfterEnhancement(analysis)

	lexHits, semHits := s.retrieve(ctx, req, analysis, monitor)

	fused := Fuse(lexHits, semHits, s.weightsFor(req.Mode))
	monitor.AfterFusion(fused)

	posts, byID := s.hydrate(ctx, fused)
	monitor.AfterHydration(posts)

	filtered := s.applyFilters(fused, byID, req.Filters)
	monitor.AfterFiltering(len(filtered))

	s.sortCandidates(filtered, byID, req.SortBy, req.SortOrder)

	total := len(filtered)
	page := paginate(filtered, req.Offset, req.Limit)

	scored := make([]*core.ScoredPost, 0, len(page))
	for _, f := range page {
		scored = append(scored, &core.ScoredPost{
			Post:          byID[f.Id],
			Score:         f.Combined,
			LexicalScore:  f.Lexical,
			SemanticScore: f.Semantic,
		})
	}

	result := &core.SearchResult{
		Query:         req.Query,
		EnhancedQuery: analysis.EnhancedQuery,
		Analysis:      analysis,
		Posts:         scored,
		TotalCount:    total,
		Limit:         req.Limit,
		Offset:        req.Offset,
	}

	s.audit(ctx, req.Query, analysis, total)

	if req.IncludeSummary && len(scored) > 0 {
		result.Summary = s.summarize(ctx, req.Query, scored, analysis.Intent)
	}

	s.logger.Info("search completed",
		"query", req.Query,
		"mode", req.Mode,
		"total", total,
		"returned", len(scored))
	monitor.Finish(result)
	return result, nil
}

// Ask answers a free-text question grounded in matching posts.
// AI outages degrade to a canned answer; Ask never fails because the
// reasoning service is down.
func (s *Searcher) Ask(ctx context.Context, question string) (*core.QuestionAnswer, error) {
	req := core.NewSearchRequest(question)
	req.Limit = askSearchLimit
	req.IncludeSummary = false

	result, err := s.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	answer := &core.QuestionAnswer{
		Question: question,
		Analysis: result.Analysis,
	}

	if len(result.Posts) == 0 {
		answer.Answer = "I couldn't find any posts relevant to that question."
		return answer, nil
	}

	sources := result.Posts
	if len(sources) > askSourceLimit {
		sources = sources[:askSourceLimit]
	}
	answer.Sources = sources

	posts := make([]*core.Post, 0, len(result.Posts))
	for _, sp := range result.Posts {
		posts = append(posts, sp.Post)
	}

	text, err := s.summarizer.AnswerQuestion(ctx, question, posts)
	if err != nil {
		s.logger.Warn("answer synthesis degraded", "question", question, "err", err)
		answer.Answer = "I found relevant posts but couldn't synthesize an answer right now."
		return answer, nil
	}

	answer.Answer = text
	return answer, nil
}

// Suggest returns past query strings matching the partial input, most
// recent first. Without a query log repository it returns nothing.
func (s *Searcher) Suggest(ctx context.Context, partial string, limit int) ([]string, error) {
	if s.queryLogs == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	return s.queryLogs.MatchingQueries(ctx, partial, limit)
}

// analyzeQuery runs query enhancement, degrading to the identity
// analysis when enhancement is disabled or unavailable.
func (s *Searcher) analyzeQuery(ctx context.Context, req core.SearchRequest) *core.QueryAnalysis {
	if !req.EnhanceQuery || s.enhancer == nil {
		return core.DefaultQueryAnalysis(req.Query)
	}

	analysis, err := s.enhancer.EnhanceQuery(ctx, req.Query)
	if err != nil || analysis == nil {
		// ResilientEnhancer degrades internally; this path covers bare enhancers.
		s.logger.Warn("query enhancement degraded", "query", req.Query, "err", err)
		return core.DefaultQueryAnalysis(req.Query)
	}
	return analysis
}

// retrieve runs the channels the request's mode asks for. In hybrid
// mode both channels run concurrently.
func (s *Searcher) retrieve(ctx context.Context, req core.SearchRequest, analysis *core.QueryAnalysis, monitor SearchMonitor) (lexHits, semHits []Scored) {
	pool := req.Offset + req.Limit
	if pool < minCandidatePool {
		pool = minCandidatePool
	}

	runLexical := req.Mode == core.ModeKeyword || req.Mode == core.ModeHybrid
	runSemantic := req.Mode == core.ModeSemantic || req.Mode == core.ModeHybrid

	var wg sync.WaitGroup
	if runLexical {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lexHits = s.lexicalHits(analysis, pool)
		}()
	}
	if runSemantic {
		wg.Add(1)
		go func() {
			defer wg.Done()
			semHits = s.semanticHits(ctx, analysis, pool)
		}()
	}
	wg.Wait()

	if runLexical {
		monitor.AfterLexicalSearch(lexHits)
	}
	if runSemantic {
		monitor.AfterSemanticSearch(semHits)
	}
	return lexHits, semHits
}

// lexicalHits queries the full-text index with the analysis expression.
func (s *Searcher) lexicalHits(analysis *core.QueryAnalysis, pool int) []Scored {
	expr := buildExpression(analysis.EnhancedQuery, analysis.Keywords, analysis.ExpandedTerms)
	hits, err := s.lexical.Query(expr, pool)
	if err != nil {
		if !errors.Is(err, core.ErrEmptyQuery) {
			s.logger.Warn("lexical channel failed", "expr", expr, "err", err)
		}
		return nil
	}
	return hits
}

// semanticHits embeds the enhanced query and queries the vector index.
func (s *Searcher) semanticHits(ctx context.Context, analysis *core.QueryAnalysis, pool int) []Scored {
	vector, err := s.embedder.EmbedText(ctx, analysis.EnhancedQuery)
	if err != nil {
		s.logger.Warn("semantic channel failed", "err", err)
		return nil
	}
	return s.semantic.Query(vector, pool)
}

// weightsFor picks the fusion weights for a mode. Single-channel modes
// give that channel full weight so normalized scores pass through.
func (s *Searcher) weightsFor(mode core.SearchMode) Weights {
	switch mode {
	case core.ModeKeyword:
		return Weights{Lexical: 1}
	case core.ModeSemantic:
		return Weights{Semantic: 1}
	default:
		return s.weights
	}
}

// hydrate loads the posts behind the fused candidates. IDs with no
// backing post (index ahead of the store) are dropped with a warning.
func (s *Searcher) hydrate(ctx context.Context, fused []Fused) ([]*core.Post, map[core.ID]*core.Post) {
	ids := make([]core.ID, 0, len(fused))
	for _, f := range fused {
		ids = append(ids, f.Id)
	}

	posts, err := s.postRepository.GetPosts(ctx, ids...)
	if err != nil {
		s.logger.Error("error retrieving posts", "count", len(ids), "err", err)
		return nil, nil
	}
	if len(posts) < len(ids) {
		s.logger.Warn("dropping candidates with no backing post",
			"requested", len(ids), "found", len(posts))
	}

	byID := make(map[core.ID]*core.Post, len(posts))
	for _, post := range posts {
		byID[post.Id] = post
	}
	return posts, byID
}

// sanitizeFilters drops an unrecognized sentiment label with a warning
// so the rest of the filters still apply. Both the scored path and the
// recency listing filter through this.
func (s *Searcher) sanitizeFilters(filters core.SearchFilters) core.SearchFilters {
	if filters.Sentiment != "" && !slices.Contains(core.Sentiments, filters.Sentiment) {
		s.logger.Warn("ignoring unrecognized sentiment filter", "sentiment", filters.Sentiment)
		filters.Sentiment = ""
	}
	return filters
}

// applyFilters narrows fused candidates by the request filters.
func (s *Searcher) applyFilters(fused []Fused, byID map[core.ID]*core.Post, filters core.SearchFilters) []Fused {
	filters = s.sanitizeFilters(filters)

	result := make([]Fused, 0, len(fused))
	for _, f := range fused {
		post, ok := byID[f.Id]
		if !ok {
			continue
		}
		if !matchesFilters(post, filters) {
			continue
		}
		result = append(result, f)
	}
	return result
}

// matchesFilters reports whether a post passes every set filter.
func matchesFilters(post *core.Post, filters core.SearchFilters) bool {
	if filters.Author != "" && !strings.EqualFold(post.AuthorUsername, filters.Author) {
		return false
	}
	if filters.Sentiment != "" {
		if post.Annotation == nil || post.Annotation.Sentiment != filters.Sentiment {
			return false
		}
	}
	if !filters.DateFrom.IsZero() && post.PostedAt.Before(filters.DateFrom) {
		return false
	}
	if !filters.DateTo.IsZero() && post.PostedAt.After(filters.DateTo) {
		return false
	}
	if filters.MinLikes > 0 && post.Likes < filters.MinLikes {
		return false
	}
	return true
}

// sortCandidates orders the filtered set in place. Relevance keeps the
// fused order refined by recency; field sorts honor the requested
// direction. Every sort breaks ties by score, then recency, then id, so
// pagination is stable.
func (s *Searcher) sortCandidates(fused []Fused, byID map[core.ID]*core.Post, sortBy core.SortField, order core.SortOrder) {
	fieldOf := func(post *core.Post) int {
		switch sortBy {
		case core.SortByLikes:
			return post.Likes
		case core.SortByRetweets:
			return post.Retweets
		case core.SortByReplies:
			return post.Replies
		case core.SortByViews:
			return post.Views
		default:
			return 0
		}
	}

	slices.SortFunc(fused, func(a, b Fused) int {
		pa, pb := byID[a.Id], byID[b.Id]

		switch sortBy {
		case core.SortByRelevance:
			if a.Combined != b.Combined {
				if a.Combined > b.Combined {
					return -1
				}
				return 1
			}
		case core.SortByDate:
			if !pa.PostedAt.Equal(pb.PostedAt) {
				if pa.PostedAt.After(pb.PostedAt) == (order == core.SortDesc) {
					return -1
				}
				return 1
			}
		default:
			fa, fb := fieldOf(pa), fieldOf(pb)
			if fa != fb {
				if (fa > fb) == (order == core.SortDesc) {
					return -1
				}
				return 1
			}
		}

		// Shared tie break: score, then recency, then id
		if a.Combined != b.Combined {
			if a.Combined > b.Combined {
				return -1
			}
			return 1
		}
		if !pa.PostedAt.Equal(pb.PostedAt) {
			if pa.PostedAt.After(pb.PostedAt) {
				return -1
			}
			return 1
		}
		if a.Id < b.Id {
			return -1
		}
		if a.Id > b.Id {
			return 1
		}
		return 0
	})
}

// paginate slices the candidate set by offset and limit.
func paginate(fused []Fused, offset, limit int) []Fused {
	if offset >= len(fused) {
		return nil
	}
	end := offset + limit
	if end > len(fused) {
		end = len(fused)
	}
	return fused[offset:end]
}

// listRecent serves an empty query as an unscored recency listing.
func (s *Searcher) listRecent(ctx context.Context, req core.SearchRequest, monitor SearchMonitor) (*core.SearchResult, error) {
	pool := req.Offset + req.Limit
	if pool < minCandidatePool {
		pool = minCandidatePool
	}

	posts, err := s.postRepository.GetRecentPosts(ctx, pool)
	if err != nil {
		return nil, err
	}
	monitor.AfterHydration(posts)

	filters := s.sanitizeFilters(req.Filters)
	byID := make(map[core.ID]*core.Post, len(posts))
	fused := make([]Fused, 0, len(posts))
	for _, post := range posts {
		if !matchesFilters(post, filters) {
			continue
		}
		byID[post.Id] = post
		fused = append(fused, Fused{Id: post.Id})
	}
	monitor.AfterFiltering(len(fused))

	if req.SortBy != core.SortByRelevance {
		s.sortCandidates(fused, byID, req.SortBy, req.SortOrder)
	}

	total := len(fused)
	page := paginate(fused, req.Offset, req.Limit)

	scored := make([]*core.ScoredPost, 0, len(page))
	for _, f := range page {
		scored = append(scored, &core.ScoredPost{Post: byID[f.Id]})
	}

	result := &core.SearchResult{
		Query:      req.Query,
		Posts:      scored,
		TotalCount: total,
		Limit:      req.Limit,
		Offset:     req.Offset,
	}
	monitor.Finish(result)
	return result, nil
}

// summarize asks the AI service for a narrative over the result page.
// Failure is not an error: the result simply ships without a summary.
func (s *Searcher) summarize(ctx context.Context, query string, scored []*core.ScoredPost, intent string) *core.Summary {
	if s.summarizer == nil {
		return nil
	}

	posts := make([]*core.Post, 0, len(scored))
	for _, sp := range scored {
		posts = append(posts, sp.Post)
	}

	summary, err := s.summarizer.SummarizeResults(ctx, query, posts, intent)
	if err != nil {
		s.logger.Warn("summary degraded", "query", query, "err", err)
		return nil
	}
	return summary
}

// audit writes a query log row for a completed search.
// Logging failures are warned and swallowed; auditing never fails a search.
func (s *Searcher) audit(ctx context.Context, query string, analysis *core.QueryAnalysis, total int) {
	if s.queryLogs == nil {
		return
	}

	entry := &core.QueryLog{
		OriginalQuery: query,
		EnhancedQuery: analysis.EnhancedQuery,
		Intent:        analysis.Intent,
		ResultCount:   total,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := s.queryLogs.AddQueryLog(ctx, entry); err != nil {
		s.logger.Warn("failed to record query log", "query", query, "err", err)
	}
}
