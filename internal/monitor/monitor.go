// Package monitor runs the polling loop: read the sensor, validate,
// emit or report the failure, wait, repeat.
package monitor

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/alakhotiya/dhtmon/internal/report"
	"github.com/alakhotiya/dhtmon/internal/sensor"
)

const DefaultInterval = 2 * time.Second

type Monitor struct {
	sensor   sensor.Sensor
	reporter report.Reporter
	interval time.Duration

	mu       sync.RWMutex
	lastGood time.Time
}

func New(s sensor.Sensor, r report.Reporter, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{sensor: s, reporter: r, interval: interval}
}

// Run polls until ctx is cancelled. A failed read emits the error
// indicator and waits the same interval as a good one; no failure is
// fatal and nothing carries over into the next iteration.
func (m *Monitor) Run(ctx context.Context) {
	log.Printf("monitor: polling %s every %s", m.sensor.Describe(), m.interval)
	if err := m.reporter.Start(ctx); err != nil {
		log.Printf("monitor: reporter start: %v", err)
	}
	for {
		m.poll(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(m.interval):
		}
	}
}

func (m *Monitor) poll(ctx context.Context) {
	reading, err := m.sensor.Read(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil || !reading.Valid() {
		if err != nil {
			log.Printf("monitor: read error: %v", err)
		}
		_ = m.reporter.ReadError(ctx)
		return
	}
	_ = m.reporter.Report(ctx, reading)

	m.mu.Lock()
	m.lastGood = time.Now()
	m.mu.Unlock()
}

// LastGoodAge returns the time since the last successful reading, for
// the health endpoints. Before the first good reading it is very large.
func (m *Monitor) LastGoodAge() time.Duration {
	m.mu.RLock()
	t := m.lastGood
	m.mu.RUnlock()
	if t.IsZero() {
		return 99999 * time.Hour
	}
	return time.Since(t)
}
