// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// breakerProvider skips a provider that keeps failing so a dead primary does
// not cost a full race on every chunk.
type breakerProvider struct {
	Provider
	cb *gobreaker.CircuitBreaker
}

// WithBreaker wraps p in a circuit breaker that opens after failures
// consecutive errors and probes again after timeout. A zero failures
// threshold returns p unchanged. Wrap only providers that have a fallback
// behind them: an open circuit skips the provider entirely.
func WithBreaker(p Provider, failures uint32, timeout time.Duration, log zerolog.Logger) Provider {
	if failures == 0 {
		return p
	}
	name := p.Name()
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up is not the provider's fault.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			log.Warn().
				Str("provider", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("provider circuit changed state")
		},
	})
	return &breakerProvider{Provider: p, cb: cb}
}

// unwrapBreaker returns the provider behind a circuit breaker, or p itself.
func unwrapBreaker(p Provider) Provider {
	if b, ok := p.(*breakerProvider); ok {
		return b.Provider
	}
	return p
}

func (b *breakerProvider) Translate(ctx context.Context, text string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.Provider.Translate(ctx, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", &ProviderError{Provider: b.Name(), Err: err}
		}
		return "", err
	}
	return out.(string), nil
}
