package ledger

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/yourorg/location-api/internal/events"
)

var costTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "location_provider_cost_dollars_total",
	Help: "Estimated cumulative spend per provider in dollars.",
}, []string{"provider"})

// Totals are kept in integer micro-dollars so repeated small increments
// (e.g. $0.002 per call) stay exact and threshold crossings are deterministic.
const microsPerDollar = 1_000_000

// Ledger tracks cumulative per-provider spend for the lifetime of the process.
// It exists for alerting, not billing enforcement; totals only reset on restart.
type Ledger struct {
	mu     sync.Mutex
	micros map[string]int64
	pub    events.Publisher
}

func New(pub events.Publisher) *Ledger {
	return &Ledger{micros: make(map[string]int64), pub: pub}
}

// Add records spend for a provider and returns the new total in dollars.
// When the integer-dollar part crosses a new boundary, one cost alert is
// published; publish failures are dropped, never propagated.
func (l *Ledger) Add(provider string, amount float64) float64 {
	if amount <= 0 {
		return l.Total(provider)
	}
	m := int64(math.Round(amount * microsPerDollar))
	l.mu.Lock()
	before := l.micros[provider]
	after := before + m
	l.micros[provider] = after
	l.mu.Unlock()

	costTotal.WithLabelValues(provider).Add(amount)

	if after/microsPerDollar > before/microsPerDollar && l.pub != nil {
		total := float64(after) / microsPerDollar
		l.pub.PublishCostAlert(context.Background(), events.CostAlert{
			Provider: provider,
			Total:    total,
			Line:     fmt.Sprintf("provider %s crossed $%d (total $%.3f)", provider, after/microsPerDollar, total),
		})
	}
	return float64(after) / microsPerDollar
}

func (l *Ledger) Total(provider string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return float64(l.micros[provider]) / microsPerDollar
}
