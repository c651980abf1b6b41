package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// ErrUnavailable is returned while the breaker is open and calls are
// short-circuited.
var ErrUnavailable = errors.New("advice generator unavailable")

// BreakerConfig tunes BreakerGenerator.
type BreakerConfig struct {
	// Consecutive failures that open the breaker.
	MaxFailures uint32
	// How long the breaker stays open before a trial call.
	Cooldown time.Duration
	// Per-call deadline; zero leaves the caller's deadline alone.
	CallTimeout time.Duration
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{MaxFailures: 3, Cooldown: 30 * time.Second, CallTimeout: 60 * time.Second}
}

// BreakerGenerator guards a Generator with a circuit breaker so a dead model
// server fails requests immediately instead of holding each one until its
// deadline.
type BreakerGenerator struct {
	next        Generator
	cb          *gobreaker.CircuitBreaker[string]
	callTimeout time.Duration
}

func NewBreakerGenerator(next Generator, cfg BreakerConfig, logger zerolog.Logger) *BreakerGenerator {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = DefaultBreakerConfig().MaxFailures
	}
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "advice-generator",
		MaxRequests: 1,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= cfg.MaxFailures
		},
		// A client that hung up says nothing about the model server.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})
	return &BreakerGenerator{next: next, cb: cb, callTimeout: cfg.CallTimeout}
}

func (g *BreakerGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := g.cb.Execute(func() (string, error) {
		callCtx := ctx
		if g.callTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, g.callTimeout)
			defer cancel()
		}
		return g.next.Generate(callCtx, prompt)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return out, err
}

// State reports the breaker state, for logs and tests.
func (g *BreakerGenerator) State() gobreaker.State {
	return g.cb.State()
}
