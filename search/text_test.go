package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeAndFilter(t *testing.T) {
	t.Run("lowercases and strips punctuation", func(t *testing.T) {
		assert.Equal(t, []string{"hello", "world"}, tokenizeAndFilter("Hello, World!"))
	})

	t.Run("removes stop words", func(t *testing.T) {
		assert.Equal(t, []string{"cat", "sat", "mat"}, tokenizeAndFilter("the cat sat on a mat"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, tokenizeAndFilter(""))
		assert.Empty(t, tokenizeAndFilter("the a an"))
	})
}

func TestBuildExpression(t *testing.T) {
	t.Run("base clause only", func(t *testing.T) {
		expr := buildExpression("quantum computing", nil, nil)
		assert.Equal(t, "quantum computing", expr)
	})

	t.Run("keywords become an alternative clause", func(t *testing.T) {
		expr := buildExpression("quantum computing", []string{"qubits"}, nil)
		assert.Equal(t, "quantum computing OR qubits", expr)
	})

	t.Run("keywords identical to base are skipped", func(t *testing.T) {
		expr := buildExpression("quantum computing", []string{"quantum", "computing"}, nil)
		assert.Equal(t, "quantum computing", expr)
	})

	t.Run("multi-word expansions are quoted", func(t *testing.T) {
		expr := buildExpression("ml", nil, []string{"machine learning", "AI"})
		assert.Equal(t, `ml OR "machine learning" OR ai`, expr)
	})

	t.Run("blank expansions are dropped", func(t *testing.T) {
		expr := buildExpression("ml", nil, []string{"", "  "})
		assert.Equal(t, "ml", expr)
	})

	t.Run("all empty yields empty expression", func(t *testing.T) {
		assert.Empty(t, buildExpression("", nil, nil))
	})
}

func TestParseExpression(t *testing.T) {
	t.Run("single clause of terms", func(t *testing.T) {
		clauses := parseExpression("quantum computing")
		require.Len(t, clauses, 1)
		assert.Equal(t, []string{"quantum", "computing"}, clauses[0].terms)
		assert.Empty(t, clauses[0].phrases)
	})

	t.Run("multiple clauses", func(t *testing.T) {
		clauses := parseExpression("quantum computing OR qubits")
		require.Len(t, clauses, 2)
		assert.Equal(t, []string{"qubits"}, clauses[1].terms)
	})

	t.Run("quoted spans become phrases", func(t *testing.T) {
		clauses := parseExpression(`ml OR "machine learning"`)
		require.Len(t, clauses, 2)
		assert.Equal(t, []string{"machine learning"}, clauses[1].phrases)
		assert.Empty(t, clauses[1].terms)
	})

	t.Run("phrase mixed with terms in one clause", func(t *testing.T) {
		clauses := parseExpression(`"neural networks" training`)
		require.Len(t, clauses, 1)
		assert.Equal(t, []string{"neural networks"}, clauses[0].phrases)
		assert.Equal(t, []string{"training"}, clauses[0].terms)
	})

	t.Run("empty clauses are dropped", func(t *testing.T) {
		assert.Empty(t, parseExpression(""))
		assert.Empty(t, parseExpression(" OR "))
	})
}
