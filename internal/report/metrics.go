package report

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alakhotiya/dhtmon/internal/model"
)

// Metrics mirrors the reading stream into Prometheus collectors.
type Metrics struct {
	humidity    prometheus.Gauge
	temperature prometheus.Gauge
	readings    prometheus.Counter
	failures    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		humidity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dhtmon",
			Name:      "humidity_percent",
			Help:      "Last humidity reading from the DHT11",
		}),
		temperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dhtmon",
			Name:      "temperature_celsius",
			Help:      "Last temperature reading from the DHT11",
		}),
		readings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dhtmon",
			Name:      "readings_total",
			Help:      "Successful sensor readings",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dhtmon",
			Name:      "read_failures_total",
			Help:      "Failed sensor readings",
		}),
	}
	reg.MustRegister(m.humidity, m.temperature, m.readings, m.failures)
	return m
}

func (m *Metrics) Start(context.Context) error { return nil }

func (m *Metrics) Report(_ context.Context, r model.Reading) error {
	m.humidity.Set(r.Humidity)
	m.temperature.Set(r.Temperature)
	m.readings.Inc()
	return nil
}

func (m *Metrics) ReadError(context.Context) error {
	m.failures.Inc()
	return nil
}
