package events

import (
    "context"
    "log/slog"
)

// CostAlert is published whenever a provider's cumulative spend crosses a
// whole-dollar boundary. Delivery is best-effort; the fetch path never blocks on it.
type CostAlert struct {
    Provider string
    Total    float64
    Line     string
}

type Publisher interface {
    PublishCostAlert(ctx context.Context, evt CostAlert)
    SubscribeCostAlerts() <-chan CostAlert
}

type inMemory struct { ch chan CostAlert }

func NewInMemory(buffer int) Publisher {
    if buffer <= 0 { buffer = 256 }
    return &inMemory{ ch: make(chan CostAlert, buffer) }
}

func (m *inMemory) PublishCostAlert(_ context.Context, evt CostAlert) {
    select { case m.ch <- evt: default: }
}

func (m *inMemory) SubscribeCostAlerts() <-chan CostAlert { return m.ch }

// Drain consumes cost alerts and logs them. Swap this with a real
// notification sink (Slack webhook, SNS) later.
func Drain(ctx context.Context, pub Publisher, l *slog.Logger) {
    sub := pub.SubscribeCostAlerts()
    for {
        select {
        case <-ctx.Done():
            return
        case evt := <-sub:
            l.Info("cost_alert", "provider", evt.Provider, "total", evt.Total, "line", evt.Line)
        }
    }
}
