package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/sift/core"
)

func TestEmbed(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := Embed("hybrid search over social posts")
		b := Embed("hybrid search over social posts")
		assert.Equal(t, a, b)
	})

	t.Run("fixed dimensionality", func(t *testing.T) {
		assert.Len(t, Embed("hello"), Dim)
		assert.Len(t, Embed(""), Dim)
	})

	t.Run("unit norm", func(t *testing.T) {
		v := Embed("the quick brown fox jumps over the lazy dog")
		var sum float64
		for _, x := range v {
			sum += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
	})

	t.Run("empty and whitespace yield zero vector", func(t *testing.T) {
		for _, text := range []string{"", "   ", "\t\n"} {
			v := Embed(text)
			for _, x := range v {
				require.Zero(t, x)
			}
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t, Embed("Quantum Computing"), Embed("quantum computing"))
	})

	t.Run("different texts diverge", func(t *testing.T) {
		a := Embed("machine learning")
		b := Embed("sourdough baking")
		assert.NotEqual(t, a, b)
	})
}

func TestEmbedder(t *testing.T) {
	embedder := NewEmbedder()
	ctx := context.Background()

	t.Run("embed text matches Embed", func(t *testing.T) {
		v, err := embedder.EmbedText(ctx, "distributed systems")
		require.NoError(t, err)
		assert.Equal(t, Embed("distributed systems"), v)
	})

	t.Run("embed texts preserves order", func(t *testing.T) {
		texts := []string{"first", "second", "third"}
		vectors, err := embedder.EmbedTexts(ctx, texts)
		require.NoError(t, err)
		require.Len(t, vectors, 3)
		for i, text := range texts {
			assert.Equal(t, Embed(text), vectors[i])
		}
	})
}

func TestEmbeddingText(t *testing.T) {
	post := &core.Post{Content: "shipping a new release today"}

	t.Run("content only without annotation", func(t *testing.T) {
		assert.Equal(t, post.Content, EmbeddingText(post))
	})

	t.Run("annotation changes the vector", func(t *testing.T) {
		plain := Embed(EmbeddingText(post))

		annotated := *post
		annotated.Annotation = &core.PostAnnotation{
			Description: "announcement of a software release",
			Topics:      []string{"software", "releases"},
			Entities:    []string{"acme"},
		}
		enriched := Embed(EmbeddingText(&annotated))
		assert.NotEqual(t, plain, enriched)
	})
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("self similarity is one", func(t *testing.T) {
		v := Embed("graph databases")
		assert.InDelta(t, 1.0, float64(CosineSimilarity(v, v)), 1e-5)
	})

	t.Run("zero vector yields zero", func(t *testing.T) {
		zero := make([]float32, Dim)
		v := Embed("anything")
		assert.Zero(t, CosineSimilarity(zero, v))
		assert.Zero(t, CosineSimilarity(v, zero))
	})

	t.Run("bounded", func(t *testing.T) {
		a := Embed("rust is fast")
		b := Embed("go is simple")
		sim := float64(CosineSimilarity(a, b))
		assert.LessOrEqual(t, sim, 1.0+1e-5)
		assert.GreaterOrEqual(t, sim, -1.0-1e-5)
	})
}

func TestDot(t *testing.T) {
	// For unit vectors dot equals cosine similarity.
	a := Embed("vector search")
	b := Embed("lexical search")
	assert.InDelta(t, float64(CosineSimilarity(a, b)), float64(Dot(a, b)), 1e-4)
}
