// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package sift

import (
	"context"
	"log/slog"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/ai/openai"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/ingestion"
	"github.com/poiesic/sift/search"
	"github.com/poiesic/sift/storage"
	"github.com/poiesic/sift/storage/badger"
)

// Database bundles the post store, both search indexes, and the AI
// provider behind one handle. Posts and vectors are durable in badger;
// the indexes are in-memory projections rebuilt at open.
type Database struct {
	backend      *badger.Backend
	postRepo     storage.PostRepository
	queryLogRepo storage.QueryLogRepository
	lexical      *search.LexicalIndex
	semantic     *search.SemanticIndex
	provider     ai.Provider
	logger       *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig sets the configuration for the default OpenAI-compatible
// provider.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithProvider supplies a pre-built AI provider, replacing the default
// OpenAI-compatible one. Used by tests to inject mocks.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemory opens the post store in memory; nothing survives Close.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// Stats summarizes the database contents.
type Stats struct {
	Posts    int
	Authors  int
	Queries  int
	Indexed  uint64
	Semantic int
}

// NewDatabase opens the database at filePath and rebuilds both search
// indexes from the stored posts.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	postRepo, err := badger.NewPostRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	queryLogRepo, err := badger.NewQueryLogRepository(backend)
	if err != nil {
		postRepo.Close()
		backend.Close()
		return nil, err
	}

	lexical, err := search.NewLexicalIndex()
	if err != nil {
		queryLogRepo.Close()
		postRepo.Close()
		backend.Close()
		return nil, err
	}
	semantic := search.NewSemanticIndex()

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			lexical.Close()
			queryLogRepo.Close()
			postRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	db := &Database{
		backend:      backend,
		postRepo:     postRepo,
		queryLogRepo: queryLogRepo,
		lexical:      lexical,
		semantic:     semantic,
		provider:     provider,
		logger:       slog.Default().With("component", "database"),
	}

	if err := db.rebuildIndexes(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// rebuildIndexes projects every stored post into the lexical and
// semantic indexes.
func (db *Database) rebuildIndexes(ctx context.Context) error {
	count := 0
	err := db.postRepo.ListPosts(ctx, func(post *core.Post) error {
		if err := db.lexical.Index(post); err != nil {
			return err
		}
		db.semantic.Upsert(post.Id, post.Vector)
		count++
		return nil
	})
	if err != nil {
		return err
	}
	if count > 0 {
		db.logger.Info("rebuilt search indexes", "posts", count)
	}
	return nil
}

// Close shuts down the provider, indexes, repositories, and backend.
func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.lexical.Close(); err != nil {
		db.logger.Error("error closing lexical index", "err", err)
	}

	if err := db.queryLogRepo.Close(); err != nil {
		db.logger.Error("error closing query log repository", "err", err)
		return err
	}
	if err := db.postRepo.Close(); err != nil {
		db.logger.Error("error closing post repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// PostRepository exposes the underlying post store.
func (db *Database) PostRepository() storage.PostRepository {
	return db.postRepo
}

// QueryLogRepository exposes the search audit log.
func (db *Database) QueryLogRepository() storage.QueryLogRepository {
	return db.queryLogRepo
}

// NewSearcher builds a searcher over this database's store and indexes.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.postRepo, db.queryLogRepo, db.lexical, db.semantic, db.provider, opts...)
}

// NewIngestionPipeline builds an ingestion pipeline over this database.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.postRepo, db.lexical, db.semantic, db.provider, opts...)
}

// Stats reports database contents.
func (db *Database) Stats(ctx context.Context) (*Stats, error) {
	posts, err := db.postRepo.CountPosts(ctx)
	if err != nil {
		return nil, err
	}
	authors, err := db.postRepo.CountAuthors(ctx)
	if err != nil {
		return nil, err
	}
	queries, err := db.queryLogRepo.CountQueryLogs(ctx)
	if err != nil {
		return nil, err
	}
	indexed, err := db.lexical.Count()
	if err != nil {
		return nil, err
	}

	return &Stats{
		Posts:    posts,
		Authors:  authors,
		Queries:  queries,
		Indexed:  indexed,
		Semantic: db.semantic.Len(),
	}, nil
}
