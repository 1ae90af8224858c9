package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/jonathan/resume-tailor/internal/observability"
)

// ProviderError reports a failure from a single provider in the chain.
type ProviderError struct {
	Provider string
	Cause    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ChainError reports that every provider in the chain failed.
type ChainError struct {
	Errors []error
}

func (e *ChainError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		parts = append(parts, err.Error())
	}
	return "all providers failed: " + strings.Join(parts, "; ")
}

// Chain is an ordered list of provider clients tried in sequence until one
// succeeds. Each provider is guarded by its own circuit breaker so a flapping
// primary stops consuming its timeout budget and traffic moves to the
// fallback quickly.
type Chain struct {
	providers []Client
	breakers  []*gobreaker.CircuitBreaker[string]
	tracer    *observability.Tracer
	metrics   *observability.Metrics
}

// NewChain builds a fallback chain over the given providers in order.
func NewChain(providers []Client, tracer *observability.Tracer, metrics *observability.Metrics) *Chain {
	chain := &Chain{
		providers: providers,
		tracer:    tracer,
		metrics:   metrics,
	}
	for _, provider := range providers {
		chain.breakers = append(chain.breakers, gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:    provider.Name(),
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}))
	}
	return chain
}

// NewChainFromConfig constructs the configured providers and wraps them in a
// chain. Providers that fail to initialize are skipped with a warning entry.
func NewChainFromConfig(ctx context.Context, cfg *Config, tracer *observability.Tracer, metrics *observability.Metrics) (*Chain, error) {
	var providers []Client
	for _, pc := range cfg.Providers {
		switch pc.Provider {
		case ProviderGemini:
			client, err := NewGeminiClient(ctx, pc.APIKey, pc.Model)
			if err != nil {
				tracer.Emit(observability.Record{Name: "provider_init", Err: err, Metadata: map[string]any{"provider": string(pc.Provider)}})
				continue
			}
			providers = append(providers, client)
		case ProviderOllama:
			providers = append(providers, NewOllamaClient(pc.BaseURL, pc.Model))
		default:
			return nil, fmt.Errorf("unknown provider: %s", pc.Provider)
		}
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no usable providers configured")
	}

	return NewChain(providers, tracer, metrics), nil
}

// Name identifies the chain for tracing.
func (c *Chain) Name() string {
	return "chain"
}

// GenerateContent tries each provider in order until one succeeds.
func (c *Chain) GenerateContent(ctx context.Context, prompt string, opts Options) (string, error) {
	return c.generate(ctx, prompt, opts, Client.GenerateContent)
}

// GenerateJSON tries each provider in order until one succeeds.
func (c *Chain) GenerateJSON(ctx context.Context, prompt string, opts Options) (string, error) {
	return c.generate(ctx, prompt, opts, Client.GenerateJSON)
}

// Close closes every provider, returning the first error encountered.
func (c *Chain) Close() error {
	var firstErr error
	for _, provider := range c.providers {
		if err := provider.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// generate runs one call through the chain with breaker, tracing, and
// metrics around each provider attempt.
func (c *Chain) generate(ctx context.Context, prompt string, opts Options, call func(Client, context.Context, string, Options) (string, error)) (string, error) {
	var errs []error

	for i, provider := range c.providers {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		start := time.Now()
		done := c.tracer.Span("generation", prompt, map[string]any{
			"provider":    provider.Name(),
			"temperature": opts.Temperature,
		})

		text, err := c.breakers[i].Execute(func() (string, error) {
			return call(provider, ctx, prompt, opts)
		})
		done(text, err)

		if err != nil {
			c.metrics.ObserveProviderCall(provider.Name(), "error", time.Since(start))
			errs = append(errs, &ProviderError{Provider: provider.Name(), Cause: err})
			continue
		}

		c.metrics.ObserveProviderCall(provider.Name(), "ok", time.Since(start))
		return text, nil
	}

	return "", &ChainError{Errors: errs}
}
