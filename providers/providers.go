package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrProviderUnavailable covers everything that makes one provider unusable
// for one request: missing credential, network failure, non-2xx status, or a
// payload that doesn't match the provider's schema. Callers recover by
// falling back or omitting the corresponding card; it never reaches the
// aggregator's caller.
var ErrProviderUnavailable = errors.New("provider unavailable")

// Fetcher is the gateway's fetch surface. Every adapter goes through it so
// caching, rate limiting, and cost tracking apply uniformly.
type Fetcher interface {
	Fetch(ctx context.Context, provider, rawURL string, header http.Header) ([]byte, error)
}

func unavailable(provider string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrProviderUnavailable, provider, err)
}

func unavailablef(provider, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrProviderUnavailable, provider, fmt.Sprintf(format, args...))
}
