package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/yourorg/location-api/internal/cache"
)

// ErrUpstream means the provider call failed and no cached value exists.
var ErrUpstream = errors.New("upstream fetch failed")

var (
	upstreamCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "location_upstream_calls_total",
		Help: "Billable upstream HTTP calls per provider.",
	}, []string{"provider"})
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "location_cache_hits_total",
		Help: "Gateway cache hits per provider.",
	}, []string{"provider"})
)

// CostLedger is satisfied by internal/ledger.
type CostLedger interface {
	Add(provider string, amount float64) float64
}

// SnapshotWriter is satisfied by internal/store; nil disables archiving.
type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, provider, requestURL string, payload []byte) error
}

type Config struct {
	Cache     cache.Store
	Ledger    CostLedger
	Snapshots SnapshotWriter
	Logger    *slog.Logger
	// TTL for cached provider payloads. Defaults to 7 days.
	TTL time.Duration
	// Costs maps provider id to its fixed per-call dollar cost. Providers
	// absent from the map are treated as free.
	Costs map[string]float64
	// RPS caps outbound calls per provider. Defaults to 10.
	RPS float64
	// Timeout per upstream call. Defaults to 15s.
	Timeout time.Duration
}

// Gateway wraps every outbound provider call with a TTL cache keyed by
// (provider, resolved URL), a per-provider rate limit, in-flight request
// coalescing, and the running cost ledger.
type Gateway struct {
	cache     cache.Store
	ledger    CostLedger
	snapshots SnapshotWriter
	logger    *slog.Logger
	http      *retryablehttp.Client
	ttl       time.Duration
	costs     map[string]float64
	rps       float64

	sf singleflight.Group

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func New(cfg Config) *Gateway {
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 900 * time.Millisecond
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = nil

	return &Gateway{
		cache:     cfg.Cache,
		ledger:    cfg.Ledger,
		snapshots: cfg.Snapshots,
		logger:    cfg.Logger,
		http:      rc,
		ttl:       cfg.TTL,
		costs:     cfg.Costs,
		rps:       cfg.RPS,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// DefaultCosts holds the fixed per-call spend estimate for each billable
// provider. Keyless/free providers are omitted.
func DefaultCosts() map[string]float64 {
	return map[string]float64{
		"walkscore":     0.005,
		"geoapify":      0.002,
		"google-places": 0.017,
		"fbi-crime":     0.001,
	}
}

func (g *Gateway) limiter(provider string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.limiters[provider]
	if !ok {
		// A fractional RPS would truncate the burst to 0 and starve
		// every Wait, so keep at least one token of headroom.
		burst := int(g.rps)
		if burst < 1 {
			burst = 1
		}
		l = rate.NewLimiter(rate.Limit(g.rps), burst)
		g.limiters[provider] = l
	}
	return l
}

// Fetch returns the body for a GET of rawURL, serving from cache when a live
// entry exists. Cache hits cost nothing; misses pay the provider's fixed
// per-call cost and are stored for the configured TTL. Concurrent misses for
// the same key share one upstream request.
func (g *Gateway) Fetch(ctx context.Context, provider, rawURL string, header http.Header) ([]byte, error) {
	key := provider + "|" + rawURL
	if b, ok := g.cache.Get(ctx, key); ok {
		cacheHits.WithLabelValues(provider).Inc()
		return b, nil
	}

	v, err, _ := g.sf.Do(key, func() (any, error) {
		// A coalesced waiter may land here after the winner filled the cache.
		if b, ok := g.cache.Get(ctx, key); ok {
			cacheHits.WithLabelValues(provider).Inc()
			return b, nil
		}
		if err := g.limiter(provider).Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUpstream, provider, err)
		}
		body, err := g.do(ctx, rawURL, header)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUpstream, provider, err)
		}
		g.cache.Set(ctx, key, body, g.ttl)
		upstreamCalls.WithLabelValues(provider).Inc()
		if cost := g.costs[provider]; cost > 0 && g.ledger != nil {
			g.ledger.Add(provider, cost)
		}
		if g.snapshots != nil {
			go g.archive(provider, rawURL, body)
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (g *Gateway) do(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return readAllLimit(resp.Body, 4<<20) // 4MB guard
}

func (g *Gateway) archive(provider, rawURL string, payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.snapshots.WriteSnapshot(ctx, provider, rawURL, payload); err != nil {
		g.logger.Warn("snapshot write failed", "provider", provider, "error", err)
	}
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errors.New("payload too large")
	}
	return b, nil
}
