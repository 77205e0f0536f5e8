package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Sentiment labels a post's overall tone, as classified by the annotator.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
	SentimentMixed    = "mixed"
	SentimentUnknown  = "unknown"
)

// Sentiments lists the valid sentiment labels.
var Sentiments = []string{
	SentimentPositive,
	SentimentNegative,
	SentimentNeutral,
	SentimentMixed,
	SentimentUnknown,
}

// PostAnnotation is the AI-generated metadata block for a post.
// It is nil on a Post until the annotation processor has run.
type PostAnnotation struct {
	Description string   // Brief searchable description of the post
	Topics      []string // Main topics and themes
	Sentiment   string   // One of the Sentiment* labels
	Entities    []string // Named entities (people, companies, products)
	ContentType string   // Coarse kind: opinion, news, tutorial, question, ...
}

// Post represents a single short social post.
// It may be enriched with an annotation block and an embedding during processing.
type Post struct {
	Id                ID
	PostID            string // External post identifier, unique
	AuthorUsername    string
	AuthorDisplayName string
	Content           string
	Likes             int
	Retweets          int
	Replies           int
	Views             int
	PostedAt          time.Time // When the post was originally published
	ScrapedAt         time.Time // When the post was collected
	InsertedAt        time.Time // When the record was inserted into the database
	UpdatedAt         time.Time // When the record was last updated
	Annotation        *PostAnnotation
	Vector            []float32 // Embedding vector for semantic search (populated by the pipeline)
	HasMedia          bool
	MediaURLs         []string
}

// QueryLog is the audit record emitted for every completed search.
// The statistics collaborator aggregates these; the search core only writes them.
type QueryLog struct {
	Id            ID
	OriginalQuery string
	EnhancedQuery string
	Intent        string
	ResultCount   int
	CreatedAt     time.Time
}

// QueryAnalysis is the structured result of AI query enhancement.
// It is ephemeral, produced once per request and never persisted
// beyond the QueryLog audit fields.
type QueryAnalysis struct {
	EnhancedQuery         string
	Intent                string
	Keywords              []string
	ExpandedTerms         []string
	Filters               map[string]string // Implicit filter hints, e.g. {"date": "recent"}
	ClarificationNeeded   bool
	ClarificationQuestion string
}

// IntentUnknown is the intent reported when query enhancement was
// skipped or degraded.
const IntentUnknown = "unknown"

// DefaultQueryAnalysis returns the analysis used when enhancement is
// unavailable: the raw query passes through unchanged and every
// downstream component must work with it.
func DefaultQueryAnalysis(query string) *QueryAnalysis {
	return &QueryAnalysis{
		EnhancedQuery: query,
		Intent:        IntentUnknown,
	}
}

// Summary is the AI-generated narrative over a page of search results.
type Summary struct {
	Text             string // Concise narrative of what the results show
	KeyInsights      []string
	Themes           []string
	NotablePosts     []int // Indices into the result page, bounds-checked on receipt
	SuggestedQueries []string
}

// ScoredPost pairs a post with its relevance scores for one query.
type ScoredPost struct {
	Post          *Post
	Score         float64 // Combined score used for ranking
	LexicalScore  float64 // Normalized lexical channel score, 0 if absent
	SemanticScore float64 // Normalized semantic channel score, 0 if absent
}

// SearchResult is the ordered, paginated outcome of one search request.
type SearchResult struct {
	Query         string
	EnhancedQuery string
	Analysis      *QueryAnalysis
	Posts         []*ScoredPost
	TotalCount    int // Post-filter, pre-pagination candidate count
	Limit         int
	Offset        int
	Summary       *Summary // nil when not requested or degraded
}

// QuestionAnswer is the outcome of answering a free-text question over posts.
type QuestionAnswer struct {
	Question string
	Answer   string
	Sources  []*ScoredPost
	Analysis *QueryAnalysis
}
