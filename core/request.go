package core

import (
	"fmt"
	"time"
)

// SearchMode selects which retrieval channels serve a request.
type SearchMode string

const (
	// ModeKeyword uses only the lexical index.
	ModeKeyword SearchMode = "keyword"
	// ModeSemantic uses only the semantic index.
	ModeSemantic SearchMode = "semantic"
	// ModeHybrid merges both channels. This is the default.
	ModeHybrid SearchMode = "hybrid"
)

// SortField names the field a result listing is ordered by.
type SortField string

const (
	SortByRelevance SortField = "relevance"
	SortByDate      SortField = "date"
	SortByLikes     SortField = "likes"
	SortByRetweets  SortField = "retweets"
	SortByReplies   SortField = "replies"
	SortByViews     SortField = "views"
)

// SortOrder is the listing direction for non-relevance sorts.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SearchFilters narrows a candidate set after scoring and before pagination.
// Zero values mean "not set".
type SearchFilters struct {
	Author    string    // Exact author username, matched case-insensitively
	Sentiment string    // Exact annotation sentiment label
	DateFrom  time.Time // Posts at or after this instant
	DateTo    time.Time // Posts at or before this instant
	MinLikes  int       // Posts with at least this many likes
}

// IsZero reports whether no filter is set.
func (f SearchFilters) IsZero() bool {
	return f.Author == "" && f.Sentiment == "" &&
		f.DateFrom.IsZero() && f.DateTo.IsZero() && f.MinLikes == 0
}

// Search request defaults and bounds.
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// SearchRequest carries everything the searcher needs for one query,
// as parsed by the transport collaborator.
type SearchRequest struct {
	Query          string
	Mode           SearchMode
	SortBy         SortField
	SortOrder      SortOrder
	Filters        SearchFilters
	Limit          int
	Offset         int
	EnhanceQuery   bool // Ask the reasoning service to enhance the query
	IncludeSummary bool // Synthesize a narrative summary over the result page
}

// NewSearchRequest returns a request with defaults: hybrid mode,
// relevance sort descending, enhancement and summary enabled.
func NewSearchRequest(query string) SearchRequest {
	return SearchRequest{
		Query:          query,
		Mode:           ModeHybrid,
		SortBy:         SortByRelevance,
		SortOrder:      SortDesc,
		Limit:          DefaultSearchLimit,
		EnhanceQuery:   true,
		IncludeSummary: true,
	}
}

// Normalize fills unset enum fields with defaults and caps the limit.
// It does not touch invalid values; Validate rejects those.
func (r *SearchRequest) Normalize() {
	if r.Mode == "" {
		r.Mode = ModeHybrid
	}
	if r.SortBy == "" {
		r.SortBy = SortByRelevance
	}
	if r.SortOrder == "" {
		r.SortOrder = SortDesc
	}
	if r.Limit == 0 {
		r.Limit = DefaultSearchLimit
	}
	if r.Limit > MaxSearchLimit {
		r.Limit = MaxSearchLimit
	}
}

// Validate checks the request for programming-contract violations.
// A failing request must not be executed.
func (r *SearchRequest) Validate() error {
	if r.Limit <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, r.Limit)
	}
	if r.Offset < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidOffset, r.Offset)
	}
	switch r.Mode {
	case ModeKeyword, ModeSemantic, ModeHybrid:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSearchMode, r.Mode)
	}
	switch r.SortBy {
	case SortByRelevance, SortByDate, SortByLikes, SortByRetweets, SortByReplies, SortByViews:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSortField, r.SortBy)
	}
	switch r.SortOrder {
	case SortAsc, SortDesc:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSortOrder, r.SortOrder)
	}
	return nil
}
