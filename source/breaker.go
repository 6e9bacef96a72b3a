package source

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/theoremus-urban-solutions/fleet-tracks/internal"
)

// BreakerSettings configures BreakerSource.
type BreakerSettings struct {
	Name                string
	MaxFailures         uint32
	OpenTimeout         time.Duration
	HalfOpenMaxRequests uint32
}

// BreakerSource stops calling a failing source until the open timeout
// elapses; calls meanwhile fail with gobreaker.ErrOpenState.
type BreakerSource struct {
	inner Source
	cb    *gobreaker.CircuitBreaker[struct{}]
}

func NewBreakerSource(inner Source, s BreakerSettings) *BreakerSource {
	if s.MaxFailures == 0 {
		s.MaxFailures = 3
	}
	settings := gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.HalfOpenMaxRequests,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.MaxFailures
		},
		// callers stopping early or going away are not source failures
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrStop) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			internal.Logger().Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("record source breaker state changed")
		},
	}
	return &BreakerSource{inner: inner, cb: gobreaker.NewCircuitBreaker[struct{}](settings)}
}

func (b *BreakerSource) Records(ctx context.Context, start, end time.Time, fn func(Record) error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.inner.Records(ctx, start, end, fn)
	})
	return err
}

// State reports the breaker state for health checks.
func (b *BreakerSource) State() string {
	return b.cb.State().String()
}
