package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/embedding"
)

func TestSemanticIndex(t *testing.T) {
	t.Run("top hit is the query's own vector", func(t *testing.T) {
		idx := NewSemanticIndex()
		idx.Upsert(1, embedding.Embed("distributed consensus algorithms"))
		idx.Upsert(2, embedding.Embed("weekend hiking trip photos"))

		hits := idx.Query(embedding.Embed("distributed consensus algorithms"), 10)
		require.Len(t, hits, 2)
		assert.Equal(t, core.ID(1), hits[0].Id)
		assert.InDelta(t, 1.0, hits[0].Score, 1e-5)
		assert.Less(t, hits[1].Score, hits[0].Score)
	})

	t.Run("topK truncates", func(t *testing.T) {
		idx := NewSemanticIndex()
		for i := 1; i <= 5; i++ {
			idx.Upsert(core.ID(i), embedding.Embed("post number"))
		}
		assert.Len(t, idx.Query(embedding.Embed("post number"), 3), 3)
	})

	t.Run("ties break id ascending", func(t *testing.T) {
		idx := NewSemanticIndex()
		v := embedding.Embed("identical text")
		idx.Upsert(9, v)
		idx.Upsert(3, v)
		idx.Upsert(6, v)

		hits := idx.Query(v, 10)
		require.Len(t, hits, 3)
		assert.Equal(t, core.ID(3), hits[0].Id)
		assert.Equal(t, core.ID(6), hits[1].Id)
		assert.Equal(t, core.ID(9), hits[2].Id)
	})

	t.Run("upsert replaces", func(t *testing.T) {
		idx := NewSemanticIndex()
		idx.Upsert(1, embedding.Embed("old topic"))
		idx.Upsert(1, embedding.Embed("new topic"))

		assert.Equal(t, 1, idx.Len())
		hits := idx.Query(embedding.Embed("new topic"), 1)
		require.Len(t, hits, 1)
		assert.InDelta(t, 1.0, hits[0].Score, 1e-5)
	})

	t.Run("remove", func(t *testing.T) {
		idx := NewSemanticIndex()
		idx.Upsert(1, embedding.Embed("anything"))
		idx.Remove(1)
		assert.Zero(t, idx.Len())
		assert.Empty(t, idx.Query(embedding.Embed("anything"), 10))
	})

	t.Run("non-positive topK", func(t *testing.T) {
		idx := NewSemanticIndex()
		idx.Upsert(1, embedding.Embed("anything"))
		assert.Nil(t, idx.Query(embedding.Embed("anything"), 0))
	})

	t.Run("stored vector is cloned", func(t *testing.T) {
		idx := NewSemanticIndex()
		v := embedding.Embed("mutation check")
		idx.Upsert(1, v)
		for i := range v {
			v[i] = 0
		}
		hits := idx.Query(embedding.Embed("mutation check"), 1)
		require.Len(t, hits, 1)
		assert.InDelta(t, 1.0, hits[0].Score, 1e-5)
	})
}
