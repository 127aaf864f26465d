package audio

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// breakerCooldown is how long an open breaker rejects calls before probing again
const breakerCooldown = 30 * time.Second

// BreakerSynthesizer short-circuits a provider after repeated consecutive
// failures so a dead endpoint is not hammered once per vocabulary item
type BreakerSynthesizer struct {
	Synthesizer
	cb *gobreaker.CircuitBreaker
}

// NewBreakerSynthesizer wraps s in a circuit breaker that opens after
// failures consecutive errors
func NewBreakerSynthesizer(s Synthesizer, failures int) *BreakerSynthesizer {
	threshold := uint32(failures)
	return &BreakerSynthesizer{
		Synthesizer: s,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    s.Name(),
			Timeout: breakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			IsSuccessful: func(err error) bool {
				// Blank input and cancellation say nothing about the endpoint
				return err == nil ||
					errors.Is(err, ErrEmptyText) ||
					errors.Is(err, context.Canceled)
			},
		}),
	}
}

// Synthesize forwards to the wrapped provider unless the breaker is open
func (b *BreakerSynthesizer) Synthesize(ctx context.Context, text, lang, accent string) ([]byte, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.Synthesizer.Synthesize(ctx, text, lang, accent)
	})
	if err != nil {
		return nil, synthesisError(b.Name(), text, err)
	}
	return result.([]byte), nil
}

// IsOpen reports whether the breaker currently rejects calls
func (b *BreakerSynthesizer) IsOpen() bool {
	return b.cb.State() == gobreaker.StateOpen
}

// IsShortCircuit reports whether err is a rejection by an open breaker
// rather than a real provider call
func IsShortCircuit(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
