// Package metrics exposes the trader events as prometheus metrics.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/drakos74/ar-trader/internal/api"
)

// Observer is the sink registered with the default prometheus registry.
var Observer = NewMetrics(prometheus.DefaultRegisterer)

// Metrics tracks the trader events.
type Metrics struct {
	prometheus Prometheus
}

// NewMetrics creates the metrics and registers them with the given registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	p := NewPrometheusMetrics()
	registerer.MustRegister(p.Collectors()...)
	return &Metrics{
		prometheus: p,
	}
}

// Publish updates the metrics for the event.
func (m *Metrics) Publish(_ context.Context, event api.Event) error {
	coin := string(event.Coin)
	m.prometheus.Events.WithLabelValues(coin, string(event.Kind)).Inc()

	switch event.Kind {
	case api.BufferFill:
		m.prometheus.Buffer.WithLabelValues(coin).Set(float64(event.Size))
	case api.Forecast:
		m.prometheus.Forecast.WithLabelValues(coin).Set(event.Forecast)
	case api.Entry:
		m.prometheus.Position.WithLabelValues(coin).Set(event.Side.Sign())
	case api.Exit:
		m.prometheus.Position.WithLabelValues(coin).Set(0)
		m.prometheus.PnL.WithLabelValues(coin, event.Side.String()).Observe(event.PnL)
	}
	if event.Price > 0 && event.Kind != api.InvalidPrice {
		m.prometheus.Price.WithLabelValues(coin).Set(event.Price)
	}
	return nil
}
