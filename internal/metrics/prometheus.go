package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "trader"

// Prometheus holds the collectors of the trader.
type Prometheus struct {
	Events   *prometheus.CounterVec
	Price    *prometheus.GaugeVec
	Forecast *prometheus.GaugeVec
	Position *prometheus.GaugeVec
	Buffer   *prometheus.GaugeVec
	PnL      *prometheus.HistogramVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_total",
				Help:      "Number of trader events by kind.",
			}, []string{"coin", "kind"}),
		Price: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "price",
				Help:      "Latest observed price.",
			}, []string{"coin"}),
		Forecast: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "forecast",
				Help:      "Latest forecasted price.",
			}, []string{"coin"}),
		Position: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "position",
				Help:      "Open position side, 1 for long, -1 for short and 0 for none.",
			}, []string{"coin"}),
		Buffer: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "buffer_size",
				Help:      "Number of close prices in the buffer.",
			}, []string{"coin"}),
		PnL: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "exit_pnl_percent",
				Help:      "Profit or loss percentage of closed positions.",
				Buckets:   []float64{-2, -1, -0.5, -0.2, -0.1, 0, 0.1, 0.2, 0.5, 1, 2},
			}, []string{"coin", "side"}),
	}
}

// Collectors returns all the collectors for registration.
func (p Prometheus) Collectors() []prometheus.Collector {
	return []prometheus.Collector{p.Events, p.Price, p.Forecast, p.Position, p.Buffer, p.PnL}
}
