package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/embedding"
	"github.com/poiesic/sift/search"
	"github.com/poiesic/sift/storage"
)

// Pipeline orchestrates the ingestion and processing of posts.
// It stores and indexes posts synchronously and annotates them on a
// worker pool.
type Pipeline struct {
	postRepository storage.PostRepository
	lexical        *search.LexicalIndex
	semantic       *search.SemanticIndex
	embedder       ai.Embedder
	annotator      ai.Annotator
	annotatePool   *ants.Pool
	logger         *slog.Logger

	// mu serializes post mutation and index updates so readers never
	// observe a partially indexed post.
	mu sync.Mutex
	// inflight tracks submitted annotation jobs for Flush.
	inflight sync.WaitGroup
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for annotation processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.annotatePool != nil {
			p.annotatePool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.annotatePool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	postRepository storage.PostRepository,
	lexical *search.LexicalIndex,
	semantic *search.SemanticIndex,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
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

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		postRepository: postRepository,
		lexical:        lexical,
		semantic:       semantic,
		embedder:       provider.Embedder(),
		annotator:      provider.Annotator(),
		annotatePool:   pool,
		logger:         slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestPosts validates, stores, and indexes posts, then schedules
// annotation for each. Posts already in the store are skipped, so
// re-running an ingest over the same corpus is safe.
// Returns the number of posts actually added.
func (p *Pipeline) IngestPosts(ctx context.Context, posts ...*core.Post) (int, error) {
	added := 0
	for _, post := range posts {
		if err := core.ValidatePost(post); err != nil {
			return added, err
		}

		vector, err := p.embedder.EmbedText(ctx, embedding.EmbeddingText(post))
		if err != nil {
			return added, err
		}
		post.Vector = vector

		stored, err := p.storeAndIndex(ctx, post)
		if err != nil {
			return added, err
		}
		if !stored {
			p.logger.Debug("skipping duplicate post", "postID", post.PostID)
			continue
		}
		added++

		if p.annotator != nil && post.Annotation == nil {
			p.scheduleAnnotation(post.Id)
		}
	}

	p.logger.Info("ingested posts", "received", len(posts), "added", added)
	return added, nil
}

// storeAndIndex writes a post and both index entries under the mutation
// lock. Returns false when the post was already stored.
func (p *Pipeline) storeAndIndex(ctx context.Context, post *core.Post) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.postRepository.AddPosts(ctx, post); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return false, nil
		}
		return false, err
	}

	if err := p.lexical.Index(post); err != nil {
		return false, err
	}
	p.semantic.Upsert(post.Id, post.Vector)
	return true, nil
}

// scheduleAnnotation submits one post for background annotation.
func (p *Pipeline) scheduleAnnotation(id core.ID) {
	p.inflight.Add(1)
	err := p.annotatePool.Submit(func() {
		defer p.inflight.Done()
		if err := p.annotatePost(context.Background(), id); err != nil {
			p.logger.Warn("annotation failed, post stays unannotated", "id", id, "err", err)
		}
	})
	if err != nil {
		p.inflight.Done()
		p.logger.Warn("could not schedule annotation", "id", id, "err", err)
	}
}

// annotatePost annotates a stored post, re-embeds it, and reindexes
// both channels.
func (p *Pipeline) annotatePost(ctx context.Context, id core.ID) error {
	post, err := p.postRepository.GetPost(ctx, id)
	if err != nil {
		return err
	}

	annotation, err := p.annotator.AnnotatePost(ctx, post.Content, post.AuthorUsername)
	if err != nil {
		return err
	}
	post.Annotation = annotation

	// Annotation feeds the embedding text, so the vector changes too
	vector, err := p.embedder.EmbedText(ctx, embedding.EmbeddingText(post))
	if err != nil {
		return err
	}
	post.Vector = vector

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.postRepository.UpdatePosts(ctx, post); err != nil {
		return err
	}
	if err := p.lexical.Reindex(post); err != nil {
		return err
	}
	p.semantic.Upsert(post.Id, post.Vector)

	p.logger.Debug("annotated post",
		"id", post.Id,
		"sentiment", annotation.Sentiment,
		"topics", len(annotation.Topics))
	return nil
}

// DeletePost removes a post from storage and both indexes.
func (p *Pipeline) DeletePost(ctx context.Context, id core.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.postRepository.DeletePosts(ctx, id); err != nil {
		return err
	}
	if err := p.lexical.Remove(id); err != nil {
		return err
	}
	p.semantic.Remove(id)
	return nil
}

// Flush blocks until all scheduled annotation work has finished.
func (p *Pipeline) Flush() {
	p.inflight.Wait()
}

// Release drains pending work and releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	p.Flush()
	if p.annotatePool != nil {
		p.annotatePool.Release()
	}
}
