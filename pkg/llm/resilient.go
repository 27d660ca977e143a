package llm

import (
	"context"
	"time"

	"convo-commerce-be/pkg/breaker"
)

// ResilientProvider routes every call through a shared circuit breaker
// and bounds it with the configured dependency timeout. A timeout counts
// as a failure for breaker accounting.
type ResilientProvider struct {
	inner   Provider
	breaker *breaker.Breaker
	timeout time.Duration
}

var _ Provider = &ResilientProvider{}

func NewResilientProvider(inner Provider, b *breaker.Breaker, timeout time.Duration) *ResilientProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ResilientProvider{
		inner:   inner,
		breaker: b,
		timeout: timeout,
	}
}

func (p *ResilientProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	var result *GenerateResult
	err := p.breaker.Do(ctx, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		res, err := p.inner.Generate(callCtx, req)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (p *ResilientProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	var vector []float32
	err := p.breaker.Do(ctx, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		vec, err := p.inner.Embed(callCtx, text)
		if err != nil {
			return err
		}
		vector = vec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vector, nil
}
