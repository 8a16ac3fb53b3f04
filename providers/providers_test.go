package providers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/yourorg/location-api/geocode"
)

var seattle = geocode.Coordinates{Lat: 47.6062, Lng: -122.3321}

// fakeFetcher serves canned payloads keyed by URL substring and records
// every request it sees. FetchAmenities calls it from concurrent
// goroutines, so the call log is mutex-guarded.
type fakeFetcher struct {
	responses map[string]string
	err       error

	mu    sync.Mutex
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string, rawURL string, _ http.Header) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, rawURL)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for k, v := range f.responses {
		if strings.Contains(rawURL, k) {
			return []byte(v), nil
		}
	}
	return nil, errors.New("no canned response for " + rawURL)
}
