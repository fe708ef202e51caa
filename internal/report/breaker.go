package report

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/alakhotiya/dhtmon/internal/model"
)

type BreakerConfig struct {
	Interval    time.Duration
	Timeout     time.Duration
	MaxFailures uint32
}

// Breaker wraps a reporter in a circuit breaker. When the sink keeps
// failing (broker down, network gone) the breaker opens and readings are
// dropped cheaply until the timeout expires; the polling loop is never
// held up waiting on a dead dependency.
type Breaker struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped Reporter
}

func NewBreaker(name string, cfg BreakerConfig, wrapped Reporter) *Breaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
	}
	return &Breaker{
		name:    name,
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *Breaker) Start(ctx context.Context) error {
	return b.wrapped.Start(ctx)
}

func (b *Breaker) Report(ctx context.Context, r model.Reading) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.wrapped.Report(ctx, r)
	})
	if err != nil {
		return fmt.Errorf("%s unavailable: %w", b.name, err)
	}
	return nil
}

func (b *Breaker) ReadError(ctx context.Context) error {
	return b.wrapped.ReadError(ctx)
}
