package search

import (
	"slices"
	"sync"

	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/embedding"
)

// SemanticIndex holds post vectors in memory for nearest-neighbor
// queries. Vectors are expected to be unit length, so dot product is
// cosine similarity. Read-mostly: queries take a read lock.
type SemanticIndex struct {
	mu      sync.RWMutex
	vectors map[core.ID][]float32
}

// NewSemanticIndex creates an empty semantic index.
func NewSemanticIndex() *SemanticIndex {
	return &SemanticIndex{
		vectors: make(map[core.ID][]float32),
	}
}

// Upsert adds or replaces a post's vector.
// Zero-length vectors are stored too; they never score above zero.
func (s *SemanticIndex) Upsert(id core.ID, vector []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors[id] = slices.Clone(vector)
}

// Remove deletes a post's vector.
func (s *SemanticIndex) Remove(id core.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vectors, id)
}

// Len returns the number of indexed vectors.
func (s *SemanticIndex) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

// Query returns up to topK post IDs scored by dot product against the
// query vector, best first with ties broken by id ascending.
func (s *SemanticIndex) Query(vector []float32, topK int) []Scored {
	if topK <= 0 {
		return nil
	}

	s.mu.RLock()
	scored := make([]Scored, 0, len(s.vectors))
	for id, candidate := range s.vectors {
		scored = append(scored, Scored{
			Id:    id,
			Score: float64(embedding.Dot(vector, candidate)),
		})
	}
	s.mu.RUnlock()

	slices.SortFunc(scored, compareScored)
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}
