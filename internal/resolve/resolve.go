package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/location-api/geocode"
)

// ErrExhausted means every backend in a chain was skipped or failed.
var ErrExhausted = errors.New("all backends failed")

// Backend is one candidate provider for a capability. Available is checked
// before any network call so missing credentials are skipped for free; a nil
// Available means always eligible.
type Backend[T any] struct {
	Name      string
	Available func() bool
	Fetch     func(ctx context.Context, coords geocode.Coordinates) (T, error)
}

// Chain tries backends in fixed configured order and returns the first
// success plus the name of the backend that answered. Order never changes at
// runtime; there is no cost- or latency-based reordering.
type Chain[T any] struct {
	capability string
	logger     *slog.Logger
	backends   []Backend[T]
}

func NewChain[T any](capability string, logger *slog.Logger, backends ...Backend[T]) *Chain[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain[T]{capability: capability, logger: logger, backends: backends}
}

func (c *Chain[T]) Resolve(ctx context.Context, coords geocode.Coordinates) (T, string, error) {
	var zero T
	for _, b := range c.backends {
		if b.Available != nil && !b.Available() {
			c.logger.Debug("backend skipped", "capability", c.capability, "backend", b.Name)
			continue
		}
		v, err := b.Fetch(ctx, coords)
		if err != nil {
			c.logger.Warn("backend failed, falling back",
				"capability", c.capability, "backend", b.Name, "error", err)
			continue
		}
		return v, b.Name, nil
	}
	return zero, "", fmt.Errorf("%s: %w", c.capability, ErrExhausted)
}
