package ai

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"github.com/poiesic/sift/core"
)

// enhanceState tracks where one enhancement request is in its lifecycle.
// The transitions are idle -> attempting(n) -> succeeded | degraded;
// cancellation moves directly to degraded.
type enhanceState int

const (
	stateIdle enhanceState = iota
	stateAttempting
	stateSucceeded
	stateDegraded
)

func (s enhanceState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateAttempting:
		return "attempting"
	case stateSucceeded:
		return "succeeded"
	case stateDegraded:
		return "degraded"
	default:
		return "invalid"
	}
}

// ResilientEnhancer wraps a QueryEnhancer with bounded retries,
// exponential backoff, and a circuit breaker. It is the resilience
// boundary of the search path: EnhanceQuery never returns an error and
// never blocks past its timeout budget. When the inner enhancer is
// exhausted, the breaker is open, or the context is canceled, it returns
// core.DefaultQueryAnalysis for the raw query, which every downstream
// component must accept.
type ResilientEnhancer struct {
	inner       QueryEnhancer
	breaker     *gobreaker.CircuitBreaker
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	timeout     time.Duration
	logger      *slog.Logger
}

// ResilientOption configures a ResilientEnhancer.
type ResilientOption func(*ResilientEnhancer)

// WithResilientLogger sets a custom logger.
// Default is slog.Default().
func WithResilientLogger(logger *slog.Logger) ResilientOption {
	return func(r *ResilientEnhancer) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// NewResilientEnhancer wraps inner with the retry and breaker policy
// from config.
func NewResilientEnhancer(inner QueryEnhancer, config *Config, opts ...ResilientOption) (*ResilientEnhancer, error) {
	if inner == nil {
		return nil, ErrEnhancerRequired
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "resilient-enhancer")

	settings := gobreaker.Settings{
		Name:    "query-enhancer",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	}

	r := &ResilientEnhancer{
		inner:       inner,
		breaker:     gobreaker.NewCircuitBreaker(settings),
		maxAttempts: config.MaxAttempts,
		baseDelay:   config.BaseDelay,
		maxDelay:    config.MaxDelay,
		timeout:     config.RequestTimeout,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// EnhanceQuery analyzes the query through the wrapped enhancer.
// It never fails: on exhaustion or cancellation the returned analysis is
// the pass-through default and the error is nil.
func (r *ResilientEnhancer) EnhanceQuery(ctx context.Context, query string) (*core.QueryAnalysis, error) {
	state := stateAttempting

	var analysis *core.QueryAnalysis
	err := RetryWithBackoff(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		result, err := r.breaker.Execute(func() (any, error) {
			return r.inner.EnhanceQuery(callCtx, query)
		})
		if err != nil {
			return err
		}
		analysis = result.(*core.QueryAnalysis)
		return nil
	}, r.maxAttempts, r.baseDelay, r.maxDelay)

	if err != nil {
		state = stateDegraded
		r.logger.Warn("query enhancement degraded",
			"query", query,
			"state", state.String(),
			"err", err)
		return core.DefaultQueryAnalysis(query), nil
	}

	if analysis == nil {
		// A nil analysis with a nil error still violates the contract.
		r.logger.Warn("query enhancement returned no analysis", "query", query)
		return core.DefaultQueryAnalysis(query), nil
	}

	state = stateSucceeded
	r.logger.Debug("query enhancement complete",
		"query", query,
		"state", state.String(),
		"intent", analysis.Intent)

	// Guard the contract even on success: downstream always gets a
	// usable query and an intent label.
	if analysis.EnhancedQuery == "" {
		analysis.EnhancedQuery = query
	}
	if analysis.Intent == "" {
		analysis.Intent = core.IntentUnknown
	}
	return analysis, nil
}
