package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuse(t *testing.T) {
	t.Run("min-max normalizes each channel", func(t *testing.T) {
		lexical := []Scored{{Id: 1, Score: 10}, {Id: 2, Score: 5}, {Id: 3, Score: 0}}
		fused := Fuse(lexical, nil, Weights{Lexical: 1})

		require.Len(t, fused, 3)
		assert.Equal(t, uint64(1), uint64(fused[0].Id))
		assert.InDelta(t, 1.0, fused[0].Lexical, 1e-9)
		assert.InDelta(t, 0.5, fused[1].Lexical, 1e-9)
		assert.InDelta(t, 0.0, fused[2].Lexical, 1e-9)
	})

	t.Run("single candidate maps to one", func(t *testing.T) {
		fused := Fuse([]Scored{{Id: 7, Score: 0.003}}, nil, DefaultWeights())
		require.Len(t, fused, 1)
		assert.InDelta(t, 1.0, fused[0].Lexical, 1e-9)
		assert.InDelta(t, 0.5, fused[0].Combined, 1e-9)
	})

	t.Run("uniform scores map to one", func(t *testing.T) {
		lexical := []Scored{{Id: 1, Score: 2}, {Id: 2, Score: 2}}
		fused := Fuse(lexical, nil, Weights{Lexical: 1})
		for _, f := range fused {
			assert.InDelta(t, 1.0, f.Lexical, 1e-9)
		}
	})

	t.Run("union of channels", func(t *testing.T) {
		lexical := []Scored{{Id: 1, Score: 3}, {Id: 2, Score: 2}, {Id: 4, Score: 1}}
		semantic := []Scored{{Id: 2, Score: 0.9}, {Id: 3, Score: 0.5}, {Id: 4, Score: 0.1}}
		fused := Fuse(lexical, semantic, DefaultWeights())

		require.Len(t, fused, 4)
		byID := make(map[uint64]Fused, len(fused))
		for _, f := range fused {
			byID[uint64(f.Id)] = f
		}

		// Post 1 appears only lexically, post 3 only semantically.
		assert.Zero(t, byID[1].Semantic)
		assert.Zero(t, byID[3].Lexical)
		// Post 2 scores in both channels. Posts 1 and 4 anchor the
		// channel extremes, so post 2 normalizes strictly inside (0, 1).
		assert.Positive(t, byID[2].Lexical)
		assert.Positive(t, byID[2].Semantic)
		assert.Less(t, byID[2].Lexical, 1.0)
	})

	t.Run("combined is the weighted sum", func(t *testing.T) {
		lexical := []Scored{{Id: 1, Score: 4}, {Id: 2, Score: 2}}
		semantic := []Scored{{Id: 1, Score: 0.2}, {Id: 2, Score: 0.8}}
		fused := Fuse(lexical, semantic, Weights{Lexical: 0.7, Semantic: 0.3})

		for _, f := range fused {
			assert.InDelta(t, 0.7*f.Lexical+0.3*f.Semantic, f.Combined, 1e-9)
		}
	})

	t.Run("sorted combined desc then id asc", func(t *testing.T) {
		lexical := []Scored{{Id: 5, Score: 1}, {Id: 3, Score: 1}, {Id: 9, Score: 1}}
		fused := Fuse(lexical, nil, Weights{Lexical: 1})

		require.Len(t, fused, 3)
		assert.Equal(t, uint64(3), uint64(fused[0].Id))
		assert.Equal(t, uint64(5), uint64(fused[1].Id))
		assert.Equal(t, uint64(9), uint64(fused[2].Id))
	})

	t.Run("empty channels yield empty ranking", func(t *testing.T) {
		assert.Empty(t, Fuse(nil, nil, DefaultWeights()))
	})

	t.Run("does not mutate inputs", func(t *testing.T) {
		lexical := []Scored{{Id: 2, Score: 1}, {Id: 1, Score: 9}}
		Fuse(lexical, nil, DefaultWeights())
		assert.Equal(t, uint64(2), uint64(lexical[0].Id))
		assert.Equal(t, float64(1), lexical[0].Score)
	})
}
