package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/sift/core"
)

// funcEnhancer adapts a function to the QueryEnhancer interface.
type funcEnhancer func(ctx context.Context, query string) (*core.QueryAnalysis, error)

func (f funcEnhancer) EnhanceQuery(ctx context.Context, query string) (*core.QueryAnalysis, error) {
	return f(ctx, query)
}

func fastRetryConfig() *Config {
	return NewConfig(
		WithMaxAttempts(2),
		WithBaseDelay(time.Millisecond),
		WithMaxDelay(5*time.Millisecond),
		WithRequestTimeout(time.Second),
	)
}

func TestNewResilientEnhancer(t *testing.T) {
	t.Run("requires an inner enhancer", func(t *testing.T) {
		_, err := NewResilientEnhancer(nil, fastRetryConfig())
		assert.ErrorIs(t, err, ErrEnhancerRequired)
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		inner := funcEnhancer(func(ctx context.Context, query string) (*core.QueryAnalysis, error) {
			return core.DefaultQueryAnalysis(query), nil
		})
		_, err := NewResilientEnhancer(inner, NewConfig(WithModel("")))
		assert.Error(t, err)
	})
}

func TestResilientEnhanceQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("passes through success", func(t *testing.T) {
		inner := funcEnhancer(func(ctx context.Context, query string) (*core.QueryAnalysis, error) {
			return &core.QueryAnalysis{
				EnhancedQuery: query + " expanded",
				Intent:        "general_search",
				Keywords:      []string{"ai"},
			}, nil
		})
		r, err := NewResilientEnhancer(inner, fastRetryConfig())
		require.NoError(t, err)

		analysis, err := r.EnhanceQuery(ctx, "ai tools")
		require.NoError(t, err)
		assert.Equal(t, "ai tools expanded", analysis.EnhancedQuery)
		assert.Equal(t, "general_search", analysis.Intent)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		calls := 0
		inner := funcEnhancer(func(ctx context.Context, query string) (*core.QueryAnalysis, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("transient")
			}
			return &core.QueryAnalysis{EnhancedQuery: query, Intent: "general_search"}, nil
		})
		r, err := NewResilientEnhancer(inner, fastRetryConfig())
		require.NoError(t, err)

		analysis, err := r.EnhanceQuery(ctx, "ai tools")
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, "general_search", analysis.Intent)
	})

	t.Run("degrades on persistent failure without erroring", func(t *testing.T) {
		inner := funcEnhancer(func(ctx context.Context, query string) (*core.QueryAnalysis, error) {
			return nil, errors.New("service down")
		})
		r, err := NewResilientEnhancer(inner, fastRetryConfig())
		require.NoError(t, err)

		analysis, err := r.EnhanceQuery(ctx, "ai tools")
		require.NoError(t, err)
		assert.Equal(t, "ai tools", analysis.EnhancedQuery)
		assert.Equal(t, core.IntentUnknown, analysis.Intent)
	})

	t.Run("degrades on cancellation", func(t *testing.T) {
		inner := funcEnhancer(func(ctx context.Context, query string) (*core.QueryAnalysis, error) {
			return &core.QueryAnalysis{EnhancedQuery: query}, nil
		})
		r, err := NewResilientEnhancer(inner, fastRetryConfig())
		require.NoError(t, err)

		canceled, cancel := context.WithCancel(ctx)
		cancel()
		analysis, err := r.EnhanceQuery(canceled, "ai tools")
		require.NoError(t, err)
		assert.Equal(t, core.IntentUnknown, analysis.Intent)
	})

	t.Run("degrades on nil analysis without erroring", func(t *testing.T) {
		inner := funcEnhancer(func(ctx context.Context, query string) (*core.QueryAnalysis, error) {
			return nil, nil
		})
		r, err := NewResilientEnhancer(inner, fastRetryConfig())
		require.NoError(t, err)

		analysis, err := r.EnhanceQuery(ctx, "ai tools")
		require.NoError(t, err)
		require.NotNil(t, analysis)
		assert.Equal(t, "ai tools", analysis.EnhancedQuery)
		assert.Equal(t, core.IntentUnknown, analysis.Intent)
	})

	t.Run("fills empty contract fields on success", func(t *testing.T) {
		inner := funcEnhancer(func(ctx context.Context, query string) (*core.QueryAnalysis, error) {
			return &core.QueryAnalysis{}, nil
		})
		r, err := NewResilientEnhancer(inner, fastRetryConfig())
		require.NoError(t, err)

		analysis, err := r.EnhanceQuery(ctx, "ai tools")
		require.NoError(t, err)
		assert.Equal(t, "ai tools", analysis.EnhancedQuery)
		assert.Equal(t, core.IntentUnknown, analysis.Intent)
	})
}
