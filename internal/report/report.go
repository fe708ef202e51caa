// Package report delivers readings to their sinks: the console stream,
// the MQTT feed and the Prometheus metrics.
package report

import (
	"context"
	"log"

	"github.com/alakhotiya/dhtmon/internal/model"
)

// Reporter is a reading sink. Start is called once before the first
// iteration (the console uses it for its banner line), Report once per
// good reading, ReadError once per failed one.
type Reporter interface {
	Start(ctx context.Context) error
	Report(ctx context.Context, r model.Reading) error
	ReadError(ctx context.Context) error
}

// Multi fans out to several reporters. A failing sink is logged and
// skipped; it never blocks the others or the polling loop.
type Multi struct {
	reporters []Reporter
}

func NewMulti(reporters ...Reporter) *Multi {
	return &Multi{reporters: reporters}
}

func (m *Multi) Start(ctx context.Context) error {
	for _, r := range m.reporters {
		if err := r.Start(ctx); err != nil {
			log.Printf("report: start: %v", err)
		}
	}
	return nil
}

func (m *Multi) Report(ctx context.Context, reading model.Reading) error {
	for _, r := range m.reporters {
		if err := r.Report(ctx, reading); err != nil {
			log.Printf("report: %v", err)
		}
	}
	return nil
}

func (m *Multi) ReadError(ctx context.Context) error {
	for _, r := range m.reporters {
		if err := r.ReadError(ctx); err != nil {
			log.Printf("report: %v", err)
		}
	}
	return nil
}
