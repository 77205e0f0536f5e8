package storage

import (
	"context"
	"time"

	"github.com/poiesic/sift/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// PostRepository provides operations for managing posts.
type PostRepository interface {
	Repository
	// AddPosts adds one or more posts to storage.
	// For posts with Id=0, derives a content ID from the platform PostID.
	// Sets InsertedAt timestamp if not already set.
	// Returns the posts with IDs and timestamps populated.
	AddPosts(ctx context.Context, posts ...*core.Post) ([]*core.Post, error)

	// UpdatePosts updates existing posts.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any post doesn't exist.
	UpdatePosts(ctx context.Context, posts ...*core.Post) ([]*core.Post, error)

	// DeletePosts removes posts by their IDs.
	// Also removes associated indices.
	// Returns ErrNotFound if any post doesn't exist.
	DeletePosts(ctx context.Context, ids ...core.ID) error

	// GetPost retrieves a single post by ID.
	// Returns ErrNotFound if the post doesn't exist.
	GetPost(ctx context.Context, id core.ID) (*core.Post, error)

	// GetPostByPostID retrieves a single post by its platform post ID.
	// Returns ErrNotFound if the post doesn't exist.
	GetPostByPostID(ctx context.Context, postID string) (*core.Post, error)

	// GetPosts retrieves multiple posts by their IDs.
	// Returns only the posts that exist (no error for missing posts).
	GetPosts(ctx context.Context, ids ...core.ID) ([]*core.Post, error)

	// ListPosts iterates over every stored post in key order, calling fn
	// for each. Iteration stops if fn returns an error, which is
	// propagated to the caller.
	ListPosts(ctx context.Context, fn func(post *core.Post) error) error

	// GetPostsByAuthor retrieves posts written by the given username,
	// ordered by posted time descending.
	GetPostsByAuthor(ctx context.Context, username string) ([]*core.Post, error)

	// GetPostsByDateRange retrieves posts within a time range.
	// Returns posts where start <= PostedAt < end, ordered by posted time.
	GetPostsByDateRange(ctx context.Context, start, end time.Time) ([]*core.Post, error)

	// GetRecentPosts retrieves the N most recently posted posts.
	// Returns up to limit posts, with the most recent first.
	GetRecentPosts(ctx context.Context, limit int) ([]*core.Post, error)

	// CountPosts returns the total number of stored posts.
	CountPosts(ctx context.Context) (int, error)

	// CountAuthors returns the number of distinct post authors.
	CountAuthors(ctx context.Context) (int, error)
}

// QueryLogRepository provides operations for the search audit log.
type QueryLogRepository interface {
	Repository
	// AddQueryLog records an executed search.
	// For entries with Id=0, generates a new ID from sequence.
	AddQueryLog(ctx context.Context, entry *core.QueryLog) (*core.QueryLog, error)

	// RecentQueryLogs retrieves the N most recent log entries,
	// most recent first.
	RecentQueryLogs(ctx context.Context, limit int) ([]*core.QueryLog, error)

	// MatchingQueries returns distinct past query strings containing the
	// given prefix or fragment, most recent first, up to limit.
	MatchingQueries(ctx context.Context, fragment string, limit int) ([]string, error)

	// CountQueryLogs returns the total number of log entries.
	CountQueryLogs(ctx context.Context) (int, error)
}
